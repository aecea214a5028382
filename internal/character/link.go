package character

// Link is one parent-tag-child attachment.
type Link struct {
	Parent Part
	Tag    string // tag name prefix on the parent
	Child  Part
}

// Topology is the fixed attachment tree of a player model.
var Topology = []Link{
	{Lower, "tag_torso", Upper},
	{Upper, "tag_head", Head},
	{Upper, "tag_weapon", Gun},
}

// Link attaches child to the first tag of parent whose name starts with
// prefix. It reports whether such a tag exists; a miss changes nothing.
func (c *Character) Link(parent Part, prefix string, child Part) bool {
	return c.parts[parent].link(prefix, child)
}

func (c *Character) applyTopology() {
	for _, l := range Topology {
		c.Link(l.Parent, l.Tag, l.Child)
	}
}

package character

import (
	"fmt"

	"md3-renderer/internal/animation"
	"md3-renderer/internal/md3"
)

// Part names one of the four body parts of a character.
type Part int

const (
	Lower Part = iota
	Upper
	Head
	Gun

	NumParts = 4
)

// NoPart marks an unlinked tag slot.
const NoPart Part = -1

var partNames = [NumParts]string{"lower", "upper", "head", "gun"}

func (p Part) String() string {
	if p >= 0 && int(p) < NumParts {
		return partNames[p]
	}
	return fmt.Sprintf("Part(%d)", int(p))
}

// SubModel is one body part: its decoded model, the texture bound to each
// mesh, which part hangs off each tag slot and the part's own playback.
// The decoded model is shared between clones and never modified.
type SubModel struct {
	Model    *md3.Model
	Textures []string // per mesh, "" when no skin line matched
	Playback animation.Playback

	links []Part // per tag slot
}

func newSubModel(m *md3.Model) *SubModel {
	s := &SubModel{
		Model:    m,
		Textures: make([]string, len(m.Meshes)),
		links:    make([]Part, m.Header.TagCount),
	}
	for i := range s.links {
		s.links[i] = NoPart
	}
	return s
}

// Child returns the part linked at tag slot, if any.
func (s *SubModel) Child(slot int) (Part, bool) {
	if slot < 0 || slot >= len(s.links) || s.links[slot] == NoPart {
		return NoPart, false
	}
	return s.links[slot], true
}

// link attaches child to the first tag slot whose name starts with prefix.
func (s *SubModel) link(prefix string, child Part) bool {
	slot, ok := s.Model.TagIndex(prefix)
	if !ok || slot >= len(s.links) {
		return false
	}
	s.links[slot] = child
	return true
}

func (s *SubModel) clone() *SubModel {
	c := *s
	c.links = append([]Part(nil), s.links...)
	c.Textures = append([]string(nil), s.Textures...)
	return &c
}

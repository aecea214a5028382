package animation

import "fmt"

// Type enumerates the fixed set of character animations, in the order they
// appear in an animation config file.
type Type int

const (
	BothDeath1 Type = iota
	BothDead1
	BothDeath2
	BothDead2
	BothDeath3
	BothDead3

	TorsoGesture
	TorsoAttack
	TorsoAttack2
	TorsoDrop
	TorsoRaise
	TorsoStand
	TorsoStand2

	LegsWalkCr
	LegsWalk
	LegsRun
	LegsBack
	LegsSwim
	LegsJump
	LegsLand
	LegsJumpB
	LegsLandB
	LegsIdle
	LegsIdleCr
	LegsTurn

	// Count is the number of animation types.
	Count = int(LegsTurn) + 1
)

var typeNames = [Count]string{
	"BOTH_DEATH1", "BOTH_DEAD1", "BOTH_DEATH2", "BOTH_DEAD2", "BOTH_DEATH3", "BOTH_DEAD3",
	"TORSO_GESTURE", "TORSO_ATTACK", "TORSO_ATTACK2", "TORSO_DROP", "TORSO_RAISE", "TORSO_STAND", "TORSO_STAND2",
	"LEGS_WALKCR", "LEGS_WALK", "LEGS_RUN", "LEGS_BACK", "LEGS_SWIM", "LEGS_JUMP", "LEGS_LAND",
	"LEGS_JUMPB", "LEGS_LANDB", "LEGS_IDLE", "LEGS_IDLECR", "LEGS_TURN",
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is one of the enumerated animations.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < Count
}

// ParseType looks up an animation by its config name, e.g. "LEGS_RUN".
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), true
		}
	}
	return 0, false
}

// Category groups animations by the body parts they drive.
type Category int

const (
	Both Category = iota
	Torso
	Legs
)

func (c Category) String() string {
	switch c {
	case Both:
		return "both"
	case Torso:
		return "torso"
	case Legs:
		return "legs"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Category returns which body parts t animates.
func (t Type) Category() Category {
	switch {
	case t <= BothDead3:
		return Both
	case t <= TorsoStand2:
		return Torso
	default:
		return Legs
	}
}

// Descriptor is one row of an animation config.
type Descriptor struct {
	FirstFrame    int `json:"first_frame"`
	NumFrames     int `json:"num_frames"`
	LoopingFrames int `json:"looping_frames"`
	FPS           int `json:"fps"`
}

// Table holds one descriptor per Type, indexed by Type.
type Table [Count]Descriptor

// Get returns the descriptor for t.
func (tb *Table) Get(t Type) Descriptor {
	return tb[t]
}

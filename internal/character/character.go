package character

import (
	"md3-renderer/internal/animation"
	"md3-renderer/internal/md3"
)

// Options tune how a character plays animations.
type Options struct {
	Fraction animation.FractionPolicy
}

// Character is a four-part player model with its animation table. A
// Character is not safe for concurrent use; Clone gives each goroutine its
// own playback over the same decoded data.
type Character struct {
	parts      [NumParts]*SubModel
	Animations animation.Table
	active     animation.Type
}

// New assembles a character from decoded parts, links them along Topology
// and selects the first animation.
func New(models [NumParts]*md3.Model, tb animation.Table, opts Options) *Character {
	c := &Character{Animations: tb}
	for i, m := range models {
		c.parts[i] = newSubModel(m)
		c.parts[i].Playback.Policy = opts.Fraction
	}
	c.applyTopology()
	c.SetAnimation(0)
	return c
}

// Part returns the sub-model for p.
func (c *Character) Part(p Part) *SubModel {
	return c.parts[p]
}

// Active returns the selected animation.
func (c *Character) Active() animation.Type {
	return c.active
}

// SetAnimation selects t. Whole-body animations drive both halves; a torso
// animation idles the legs and a legs animation stands the torso.
func (c *Character) SetAnimation(t animation.Type) {
	if !t.Valid() {
		return
	}
	c.active = t
	lower, upper := &c.parts[Lower].Playback, &c.parts[Upper].Playback
	switch t.Category() {
	case animation.Both:
		play(lower, c.Animations.Get(t))
		play(upper, c.Animations.Get(t))
	case animation.Torso:
		play(lower, c.Animations.Get(animation.LegsIdle))
		play(upper, c.Animations.Get(t))
	default:
		play(lower, c.Animations.Get(t))
		play(upper, c.Animations.Get(animation.TorsoStand))
	}
}

func play(p *animation.Playback, d animation.Descriptor) {
	p.SetAnimation(d.FirstFrame, d.NumFrames)
}

// NextAnimation cycles to the following animation, wrapping after the last.
func (c *Character) NextAnimation() {
	c.SetAnimation(animation.Type((int(c.active) + 1) % animation.Count))
}

// Update advances every part by elapsed seconds at half the active
// animation's frame rate.
func (c *Character) Update(elapsed float32) {
	delta := elapsed * float32(c.Animations.Get(c.active).FPS) / 2
	for _, p := range c.parts {
		p.Playback.Advance(delta)
	}
}

// Play selects t and runs ticks updates of dt seconds each.
func (c *Character) Play(t animation.Type, ticks int, dt float32) {
	c.SetAnimation(t)
	for i := 0; i < ticks; i++ {
		c.Update(dt)
	}
}

// Clone returns a character sharing the decoded models but with its own
// playback state.
func (c *Character) Clone() *Character {
	n := &Character{Animations: c.Animations, active: c.active}
	for i, p := range c.parts {
		n.parts[i] = p.clone()
	}
	return n
}

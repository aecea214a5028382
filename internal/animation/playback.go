package animation

import "github.com/chewxy/math32"

// FractionPolicy decides what happens to the interpolation fraction when a
// new animation is selected.
type FractionPolicy int

const (
	// CarryFraction keeps the fraction accumulated so far.
	CarryFraction FractionPolicy = iota
	// ResetFraction starts the new animation at fraction 0.
	ResetFraction
)

// Playback is the keyframe cursor of one model: the frame range being played,
// the pair of frames being blended and how far between them we are.
// The zero value sits on frame 0 and never leaves it.
type Playback struct {
	Policy FractionPolicy

	start    int
	end      int // exclusive
	current  int
	next     int
	fraction float32
}

// SetAnimation starts playing count frames from first.
func (p *Playback) SetAnimation(first, count int) {
	p.start = first
	p.end = first + count
	p.current = first
	p.next = first + 1
	if p.Policy == ResetFraction {
		p.fraction = 0
	}
}

// Advance moves the cursor forward by delta frames. At most one keyframe
// step is taken per call; the remainder stays in the fraction.
func (p *Playback) Advance(delta float32) {
	p.fraction += delta
	if p.fraction >= 1 {
		p.fraction = math32.Mod(p.fraction, 1)
		p.current = p.next
		p.next++
		if p.next >= p.end {
			p.next = p.start
		}
	}
}

func (p *Playback) Current() int { return p.current }

func (p *Playback) Next() int { return p.next }

func (p *Playback) Fraction() float32 { return p.fraction }

func (p *Playback) Start() int { return p.start }

func (p *Playback) End() int { return p.end }

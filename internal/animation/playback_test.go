package animation

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestPlaybackAdvance(t *testing.T) {
	var p Playback
	p.SetAnimation(10, 5)
	if p.Current() != 10 || p.Next() != 11 || p.Start() != 10 || p.End() != 15 {
		t.Fatalf("after SetAnimation(10, 5): current %d next %d range [%d,%d)", p.Current(), p.Next(), p.Start(), p.End())
	}

	steps := []struct {
		fraction      float32
		current, next int
	}{
		{0.3, 10, 11},
		{0.6, 10, 11},
		{0.9, 10, 11},
		{0.2, 11, 12},
	}
	for i, s := range steps {
		p.Advance(0.3)
		if !approx(p.Fraction(), s.fraction) || p.Current() != s.current || p.Next() != s.next {
			t.Errorf("step %d: fraction %v current %d next %d, want %v %d %d",
				i+1, p.Fraction(), p.Current(), p.Next(), s.fraction, s.current, s.next)
		}
	}
}

func TestPlaybackWraps(t *testing.T) {
	var p Playback
	p.SetAnimation(10, 5)
	want := [][2]int{{11, 12}, {12, 13}, {13, 14}, {14, 10}, {10, 11}, {11, 12}}
	for i, w := range want {
		p.Advance(1)
		if p.Current() != w[0] || p.Next() != w[1] {
			t.Errorf("step %d: current %d next %d, want %d %d", i+1, p.Current(), p.Next(), w[0], w[1])
		}
		if p.Fraction() != 0 {
			t.Errorf("step %d: fraction %v, want 0", i+1, p.Fraction())
		}
	}
}

func TestPlaybackSingleStepPerAdvance(t *testing.T) {
	var p Playback
	p.SetAnimation(0, 10)
	p.Advance(3.5)
	if p.Current() != 1 || p.Next() != 2 || !approx(p.Fraction(), 0.5) {
		t.Errorf("Advance(3.5): current %d next %d fraction %v, want 1 2 0.5", p.Current(), p.Next(), p.Fraction())
	}
}

func TestPlaybackFractionPolicy(t *testing.T) {
	carry := Playback{Policy: CarryFraction}
	carry.SetAnimation(0, 4)
	carry.Advance(0.4)
	carry.SetAnimation(20, 4)
	if !approx(carry.Fraction(), 0.4) {
		t.Errorf("CarryFraction: fraction %v after SetAnimation, want 0.4", carry.Fraction())
	}

	reset := Playback{Policy: ResetFraction}
	reset.SetAnimation(0, 4)
	reset.Advance(0.4)
	reset.SetAnimation(20, 4)
	if reset.Fraction() != 0 {
		t.Errorf("ResetFraction: fraction %v after SetAnimation, want 0", reset.Fraction())
	}
	if reset.Current() != 20 || reset.Next() != 21 {
		t.Errorf("ResetFraction: current %d next %d, want 20 21", reset.Current(), reset.Next())
	}
}

func TestPlaybackZeroValueStaysOnFrameZero(t *testing.T) {
	var p Playback
	for i := 0; i < 5; i++ {
		p.Advance(0.7)
		if p.Current() != 0 || p.Next() != 0 {
			t.Fatalf("advance %d: current %d next %d, want 0 0", i+1, p.Current(), p.Next())
		}
	}
}

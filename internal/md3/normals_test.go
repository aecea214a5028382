package md3

import (
	"math"
	"testing"
)

func TestDecodeNormalMatchesFormula(t *testing.T) {
	for i := 0; i < 256; i++ {
		for j := 0; j < 256; j++ {
			lat := float32(2 * float64(i) * math.Pi / 255)
			lng := float32(2 * float64(j) * math.Pi / 255)
			want := [3]float32{
				float32(math.Cos(float64(lng)) * math.Sin(float64(lat))),
				float32(math.Sin(float64(lng)) * math.Sin(float64(lat))),
				float32(math.Cos(float64(lat))),
			}
			got := DecodeNormal(byte(i), byte(j))
			if [3]float32(got) != want {
				t.Fatalf("DecodeNormal(%d, %d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestDecodeNormalPoles(t *testing.T) {
	if got := DecodeNormal(0, 0); got[0] != 0 || got[1] != 0 || got[2] != 1 {
		t.Errorf("DecodeNormal(0, 0) = %v, want (0, 0, 1)", got)
	}
	for _, lng := range []byte{0, 17, 128, 255} {
		if got := DecodeNormal(0, lng); got[2] != 1 {
			t.Errorf("DecodeNormal(0, %d) = %v, want z = 1", lng, got)
		}
	}
}

func TestDecodeNormalUnitLength(t *testing.T) {
	for _, ij := range [][2]byte{{1, 1}, {64, 32}, {100, 200}, {254, 3}} {
		n := DecodeNormal(ij[0], ij[1])
		if l := n.Len(); math.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("|DecodeNormal(%d, %d)| = %v, want 1", ij[0], ij[1], l)
		}
	}
}

func TestDecodePosition(t *testing.T) {
	tests := []struct {
		raw  [3]int16
		want [3]float32
	}{
		{[3]int16{0, 0, 0}, [3]float32{0, 0, 0}},
		{[3]int16{64, -64, 128}, [3]float32{1, -1, 2}},
		{[3]int16{1, 32, -96}, [3]float32{0.015625, 0.5, -1.5}},
		{[3]int16{32767, -32768, 0}, [3]float32{511.984375, -512, 0}},
	}
	for _, tt := range tests {
		if got := DecodePosition(tt.raw); [3]float32(got) != tt.want {
			t.Errorf("DecodePosition(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

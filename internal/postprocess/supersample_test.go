package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestDownsampleSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	if got := Downsample(src, 1); got != src {
		t.Errorf("Downsample by 1 copied the image")
	}
	if got := Downsample(src, 2).Bounds(); got.Dx() != 32 || got.Dy() != 32 {
		t.Errorf("Downsample(64, 2) bounds = %v, want 32×32", got)
	}
	if got := Downsample(src, 128); got != src {
		t.Errorf("Downsample below one pixel did not return the input")
	}
}

func TestDownsampleNoDarkFringe(t *testing.T) {
	// Opaque white on the left half, transparent black on the right.
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	dst := Downsample(src, 2)
	for x := 0; x < 8; x++ {
		c := dst.NRGBAAt(x, 4)
		if c.A > 16 && c.R < 240 {
			t.Errorf("pixel %d = %v, want white where visible", x, c)
		}
	}
	if c := dst.NRGBAAt(1, 1); c.A < 250 {
		t.Errorf("interior alpha = %d, want opaque", c.A)
	}
}

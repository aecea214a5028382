package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestDespeckle(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	opaque := color.NRGBA{200, 100, 50, 255}
	// A 3×3 body and a lone pixel, plus a diagonal pair that counts as one group.
	for y := 1; y < 4; y++ {
		for x := 1; x < 4; x++ {
			img.SetNRGBA(x, y, opaque)
		}
	}
	img.SetNRGBA(8, 8, opaque)
	img.SetNRGBA(6, 1, opaque)
	img.SetNRGBA(7, 2, opaque)

	out := Despeckle(img, 2)
	if out.NRGBAAt(2, 2) != opaque {
		t.Errorf("body pixel cleared")
	}
	if out.NRGBAAt(8, 8).A != 0 {
		t.Errorf("lone pixel kept")
	}
	if out.NRGBAAt(6, 1).A == 0 || out.NRGBAAt(7, 2).A == 0 {
		t.Errorf("diagonal pair cleared")
	}
	if img.NRGBAAt(8, 8).A == 0 {
		t.Errorf("Despeckle modified its input")
	}

	if got := Despeckle(img, 1); got != img {
		t.Errorf("Despeckle(1) copied the image")
	}
}

func TestLabelComponents(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{A: 10})
	img.SetNRGBA(3, 0, color.NRGBA{A: 255})
	labels, sizes := labelComponents(img)
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 1 {
		t.Fatalf("sizes = %v, want [2 1]", sizes)
	}
	if labels[2] != -1 || labels[1] != 0 || labels[3] != 1 {
		t.Errorf("labels = %v", labels)
	}
}

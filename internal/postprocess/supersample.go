package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks a supersampled render by factor in each direction.
// Filtering happens on premultiplied pixels so transparent texels, which
// the renderer leaves black, do not bleed a dark fringe into the edges.
func Downsample(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx()/factor, b.Dy()/factor
	if w < 1 || h < 1 {
		return img
	}

	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(small, small.Bounds(), premul, b, draw.Src, nil)

	out := image.NewNRGBA(small.Bounds())
	draw.Draw(out, out.Bounds(), small, image.Point{}, draw.Src)
	return out
}

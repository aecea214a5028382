package raster

import (
	"image"
	"image/color"
	"math"
)

// Sampler reads a skin with bilinear filtering. Coordinates repeat outside
// [0, 1) and texel i is centered at (i+0.5)/width.
type Sampler struct {
	tex  *image.NRGBA
	w, h int
}

// NewSampler returns nil for a missing or empty texture.
func NewSampler(tex *image.NRGBA) *Sampler {
	if tex == nil {
		return nil
	}
	b := tex.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	return &Sampler{tex: tex, w: b.Dx(), h: b.Dy()}
}

// At returns the filtered texel at (u, v).
func (s *Sampler) At(u, v float64) color.NRGBA {
	fx := repeat(u)*float64(s.w) - 0.5
	fy := repeat(v)*float64(s.h) - 0.5
	bx, by := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-bx, fy-by

	x0, y0 := wrapIndex(int(bx), s.w), wrapIndex(int(by), s.h)
	x1, y1 := wrapIndex(x0+1, s.w), wrapIndex(y0+1, s.h)

	p00, p10 := s.texel(x0, y0), s.texel(x1, y0)
	p01, p11 := s.texel(x0, y1), s.texel(x1, y1)

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for k := range out {
		f := float64(p00[k])*w00 + float64(p10[k])*w10 + float64(p01[k])*w01 + float64(p11[k])*w11
		out[k] = uint8(f + 0.5)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

// Mean is the average opaque color of the texture, used for meshes drawn
// without texture coordinates.
func (s *Sampler) Mean() color.NRGBA {
	var sum [3]float64
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			p := s.texel(x, y)
			sum[0] += float64(p[0])
			sum[1] += float64(p[1])
			sum[2] += float64(p[2])
		}
	}
	n := float64(s.w * s.h)
	return color.NRGBA{
		R: uint8(sum[0]/n + 0.5),
		G: uint8(sum[1]/n + 0.5),
		B: uint8(sum[2]/n + 0.5),
		A: 255,
	}
}

func (s *Sampler) texel(x, y int) []uint8 {
	i := s.tex.PixOffset(s.tex.Rect.Min.X+x, s.tex.Rect.Min.Y+y)
	return s.tex.Pix[i : i+4 : i+4]
}

func repeat(t float64) float64 {
	return t - math.Floor(t)
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

package raster

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer is a square render target. Depth grows toward the viewer and
// starts at -inf, so the first opaque texel always lands.
type FrameBuffer struct {
	Size  int
	Img   *image.NRGBA
	Depth []float64 // one per pixel, row-major
}

// NewFrameBuffer allocates a transparent size×size target.
func NewFrameBuffer(size int) *FrameBuffer {
	depth := make([]float64, size*size)
	for i := range depth {
		depth[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Size:  size,
		Img:   image.NewNRGBA(image.Rect(0, 0, size, size)),
		Depth: depth,
	}
}

func (fb *FrameBuffer) visible(i int, z float64) bool {
	return z > fb.Depth[i]
}

// put writes c at pixel index i and records its depth.
func (fb *FrameBuffer) put(i int, z float64, c color.NRGBA) {
	fb.Depth[i] = z
	p := fb.Img.Pix[i*4 : i*4+4 : i*4+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

package raster

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ScreenVertex is a projected triangle corner: pixel position, depth and
// texture coordinate.
type ScreenVertex struct {
	X, Y, Z float64
	U, V    float64
}

// alphaCutoff drops nearly transparent texels instead of blending them.
const alphaCutoff = 8

// RasterizeTriangle fills tri into fb with depth testing. Texels come from
// skin, or fill when skin is nil. The triangle is lit flat: normal is the
// sum of its corner normals in view space, and when that degenerates the
// winding of the projected corners gives the face normal instead.
func RasterizeTriangle(fb *FrameBuffer, tri [3]ScreenVertex, normal mgl64.Vec3, skin *Sampler, fill color.NRGBA, l *Lighting) {
	a, b, c := tri[0], tri[1], tri[2]

	n := unit(normal)
	if n == (mgl64.Vec3{}) {
		n = faceNormal(a, b, c)
		if n == (mgl64.Vec3{}) {
			return
		}
	}
	shade := l.Shade(n)

	minX := clampInt(int(math.Floor(math.Min(a.X, math.Min(b.X, c.X)))), 0, fb.Size-1)
	maxX := clampInt(int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X)))), 0, fb.Size-1)
	minY := clampInt(int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y)))), 0, fb.Size-1)
	maxY := clampInt(int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y)))), 0, fb.Size-1)
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric weights relative to corner c.
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(det) < 1e-8 {
		return
	}
	inv := 1 / det
	ay, ax := (b.Y-c.Y)*inv, (c.X-b.X)*inv
	by, bx := (c.Y-a.Y)*inv, (a.X-c.X)*inv

	for y := minY; y <= maxY; y++ {
		dy := float64(y) - c.Y
		row := y * fb.Size
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - c.X
			w0 := ay*dx + ax*dy
			w1 := by*dx + bx*dy
			w2 := 1 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*a.Z + w1*b.Z + w2*c.Z
			i := row + x
			if !fb.visible(i, z) {
				continue
			}

			texel := fill
			if skin != nil {
				texel = skin.At(w0*a.U+w1*b.U+w2*c.U, w0*a.V+w1*b.V+w2*c.V)
			}
			if texel.A < alphaCutoff {
				continue
			}
			fb.put(i, z, l.Apply(texel, shade))
		}
	}
}

// faceNormal derives a view-space normal from projected corners. Screen Y
// points down, so it is flipped back first.
func faceNormal(a, b, c ScreenVertex) mgl64.Vec3 {
	e1 := mgl64.Vec3{b.X - a.X, a.Y - b.Y, b.Z - a.Z}
	e2 := mgl64.Vec3{c.X - a.X, a.Y - c.Y, c.Z - a.Z}
	return unit(e1.Cross(e2))
}

// unit normalizes v, returning the zero vector for degenerate input where
// mgl64's Normalize would produce NaNs.
func unit(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

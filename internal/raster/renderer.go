package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"md3-renderer/internal/character"
	"md3-renderer/internal/texture"
	"md3-renderer/internal/viewmatrix"
)

// Margin is the free border, in output pixels, left around the model.
const Margin = 16

// untextured is the fill for meshes whose skin did not resolve.
var untextured = color.NRGBA{R: 160, G: 160, B: 170, A: 255}

// RenderFrame rasterizes one composed pose into a square NRGBA image of
// size×supersample pixels. framing fixes the model's placement; nil fits
// the image to this pose alone.
func RenderFrame(
	meshes []character.RenderMesh,
	framing *viewmatrix.Framing,
	cam viewmatrix.Camera,
	texResolver texture.Resolver,
	size int,
	supersample int,
) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	renderSize := size * supersample
	margin := Margin * supersample
	if 4*margin > renderSize {
		margin = renderSize / 8
	}
	R := cam.Matrix()

	var f viewmatrix.Framing
	if framing != nil {
		f = *framing
	} else {
		f = viewmatrix.Fit(R, meshes)
	}

	fb := NewFrameBuffer(renderSize)
	light := StudioLighting()

	for _, mesh := range meshes {
		if len(mesh.Vertices) < 3 {
			continue
		}

		px, py, pz := viewmatrix.ProjectVertices(mesh.Vertices, R, f, renderSize, margin)

		var skin *Sampler
		if texResolver != nil && mesh.Texture != "" {
			skin = NewSampler(texResolver.Resolve(mesh.Texture))
		}
		fill := untextured
		if skin != nil {
			fill = skin.Mean()
		}

		for i := 0; i+2 < len(mesh.Vertices); i += 3 {
			var tri [3]ScreenVertex
			var normal mgl64.Vec3
			for k := 0; k < 3; k++ {
				v := &mesh.Vertices[i+k]
				tri[k] = ScreenVertex{
					X: px[i+k], Y: py[i+k], Z: pz[i+k],
					U: float64(v.TexCoord[0]), V: float64(v.TexCoord[1]),
				}
				normal = normal.Add(viewmatrix.View(R, v.Normal))
			}
			RasterizeTriangle(fb, tri, normal, skin, fill, light)
		}
	}

	return fb.Img
}

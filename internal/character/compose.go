package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"md3-renderer/internal/md3"
)

// RenderVertex is one triangle corner after interpolation.
type RenderVertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// RenderMesh is one mesh flattened into a triangle list, three vertices
// per triangle, in the order its index buffer lists them.
type RenderMesh struct {
	Part     Part
	Name     string
	Texture  string
	Vertices []RenderVertex
}

// Compose walks the attachment tree from the lower body and returns every
// mesh posed for the current playback state. current and next place the
// lower body at its current and next keyframes; each child is placed at the
// parent's tag, evaluated separately for the parent's two keyframes.
func (c *Character) Compose(current, next mgl32.Mat4) []RenderMesh {
	var out []RenderMesh
	var seen [NumParts]bool
	c.compose(Lower, current, next, &seen, &out)
	return out
}

func (c *Character) compose(p Part, current, next mgl32.Mat4, seen *[NumParts]bool, out *[]RenderMesh) {
	if seen[p] {
		return
	}
	seen[p] = true

	s := c.parts[p]
	cur, nxt := s.Playback.Current(), s.Playback.Next()
	frac := s.Playback.Fraction()

	for i := range s.Model.Meshes {
		mesh := &s.Model.Meshes[i]
		if mesh.Header.FrameCount == 0 || mesh.Header.VertexCount == 0 {
			continue
		}
		*out = append(*out, RenderMesh{
			Part:     p,
			Name:     mesh.Name(),
			Texture:  s.Textures[i],
			Vertices: blendMesh(mesh, cur, nxt, frac, current, next),
		})
	}

	frames := s.Model.NumFrames()
	if frames == 0 {
		return
	}
	fc, fn := clampFrame(cur, frames), clampFrame(nxt, frames)
	for slot := range s.links {
		child, ok := s.Child(slot)
		if !ok {
			continue
		}
		childCurrent := current.Mul4(s.Model.TagAt(fc, slot).Transform())
		childNext := next.Mul4(s.Model.TagAt(fn, slot).Transform())
		c.compose(child, childCurrent, childNext, seen, out)
	}
}

// blendMesh transforms keyframes cur and nxt of mesh by their own matrices
// and blends the results by frac.
func blendMesh(mesh *md3.Mesh, cur, nxt int, frac float32, current, next mgl32.Mat4) []RenderVertex {
	frames := int(mesh.Header.FrameCount)
	fc, fn := clampFrame(cur, frames), clampFrame(nxt, frames)
	normCur, normNext := current.Mat3(), next.Mat3()

	verts := make([]RenderVertex, len(mesh.Triangles))
	for j, idx := range mesh.Triangles {
		a := mesh.VertexAt(fc, int(idx))
		b := mesh.VertexAt(fn, int(idx))

		pa := current.Mul4x1(a.Position.Vec4(1)).Vec3()
		pb := next.Mul4x1(b.Position.Vec4(1)).Vec3()
		na := normCur.Mul3x1(a.NormalVec())
		nb := normNext.Mul3x1(b.NormalVec())

		verts[j] = RenderVertex{
			Position: lerp(pa, pb, frac),
			Normal:   lerp(na, nb, frac),
			TexCoord: mesh.TexCoords[idx],
		}
	}
	return verts
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func clampFrame(f, n int) int {
	if f < 0 {
		return 0
	}
	if f >= n {
		return n - 1
	}
	return f
}

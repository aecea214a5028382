package viewmatrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"md3-renderer/internal/character"
)

var (
	// modelFlip turns the Z-up model space into Y-up screen space: Rx(-90°).
	modelFlip = mgl64.Rotate3DX(math.Pi / -2)

	// faceViewer turns a model facing +X toward the viewer before the flip: Rz(-90°).
	faceViewer = mgl64.Rotate3DZ(math.Pi / -2)
)

// Camera orbits the model. Angles are in degrees: Yaw turns the model about
// its up axis, Pitch tilts the view down onto it.
type Camera struct {
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
}

// DefaultCamera is a three-quarter view from slightly above.
var DefaultCamera = Camera{Yaw: 30, Pitch: 10}

// Matrix builds the 3×3 view rotation from model space to screen space
// (X right, Y up, Z toward the viewer).
// Rx(pitch) × modelFlip × Rz(yaw) × faceViewer
func (c Camera) Matrix() mgl64.Mat3 {
	yaw := mgl64.Rotate3DZ(mgl64.DegToRad(WrapDegrees(c.Yaw)))
	pitch := mgl64.Rotate3DX(mgl64.DegToRad(c.Pitch))
	return pitch.Mul3(modelFlip).Mul3(yaw).Mul3(faceViewer)
}

// WrapDegrees maps an angle in degrees into [0, 360).
func WrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// View widens a model-space vector and rotates it into screen space by R.
func View(R mgl64.Mat3, v mgl32.Vec3) mgl64.Vec3 {
	return R.Mul3x1(mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
}

// Framing places the view-space bounding box of one or more poses in the
// image. Reusing one Framing for a whole sequence keeps the model from
// jumping between frames.
type Framing struct {
	Center [3]float64
	Span   float64
}

// Fit computes a Framing that contains every vertex of every pose.
func Fit(R mgl64.Mat3, poses ...[]character.RenderMesh) Framing {
	allMin := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, meshes := range poses {
		for _, m := range meshes {
			for _, v := range m.Vertices {
				tv := View(R, v.Position)
				for k := 0; k < 3; k++ {
					allMin[k] = math.Min(allMin[k], tv[k])
					allMax[k] = math.Max(allMax[k], tv[k])
				}
				found = true
			}
		}
	}
	if !found {
		return Framing{Span: 1}
	}

	f := Framing{
		Center: [3]float64{
			(allMin[0] + allMax[0]) / 2,
			(allMin[1] + allMax[1]) / 2,
			(allMin[2] + allMax[2]) / 2,
		},
		Span: math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1]),
	}
	if f.Span < 0.001 {
		f.Span = 0.001
	}
	return f
}

// Scale returns pixels per model unit for a square image of renderSize
// pixels with margin pixels left free on each side.
func (f Framing) Scale(renderSize, margin int) float64 {
	return float64(renderSize-2*margin) / f.Span
}

// ProjectVertices transforms vertices to screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth).
func ProjectVertices(verts []character.RenderVertex, R mgl64.Mat3, f Framing, renderSize, margin int) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(renderSize) / 2
	scale := f.Scale(renderSize, margin)

	for i := range verts {
		t := View(R, verts[i].Position)
		px[i] = (t[0]-f.Center[0])*scale + half
		py[i] = -(t[1]-f.Center[1])*scale + half
		pz[i] = t[2]
	}

	return px, py, pz
}

package viewmatrix

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"md3-renderer/internal/character"
)

func near(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}

func pose(points ...mgl32.Vec3) []character.RenderMesh {
	m := character.RenderMesh{Name: "test"}
	for _, p := range points {
		m.Vertices = append(m.Vertices, character.RenderVertex{Position: p})
	}
	return []character.RenderMesh{m}
}

func TestModelFlipZUpToYUp(t *testing.T) {
	tests := []struct {
		in, want mgl64.Vec3
	}{
		{mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}},
	}
	for _, tt := range tests {
		if got := modelFlip.Mul3x1(tt.in); !near(got, tt.want) {
			t.Errorf("modelFlip × %v = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFaceViewer(t *testing.T) {
	// A model looking down +X ends up looking at the viewer (+Z) after the flip.
	got := modelFlip.Mul3(faceViewer).Mul3x1(mgl64.Vec3{1, 0, 0})
	if !near(got, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("forward maps to %v, want [0 0 1]", got)
	}
}

func TestCameraFrontView(t *testing.T) {
	R := Camera{}.Matrix()
	// Up stays up, forward comes at the viewer.
	if got := View(R, mgl32.Vec3{0, 0, 1}); !near(got, mgl64.Vec3{0, 1, 0}) {
		t.Errorf("up maps to %v, want +Y", got)
	}
	if got := View(R, mgl32.Vec3{1, 0, 0}); !near(got, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("forward maps to %v, want +Z", got)
	}
}

func TestCameraYawTurnsModel(t *testing.T) {
	// A quarter turn brings the model's right side (-Y) to face the viewer.
	R := Camera{Yaw: 90}.Matrix()
	if got := View(R, mgl32.Vec3{0, -1, 0}); !near(got, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("right maps to %v, want +Z", got)
	}
	if wrapped := (Camera{Yaw: 450}).Matrix(); wrapped != R {
		t.Errorf("yaw 450 = %v, want yaw 90 %v", wrapped, R)
	}
}

func TestCameraPitchLooksDown(t *testing.T) {
	R := Camera{Pitch: 30}.Matrix()
	// Looking down from above, the top of the model leans toward the viewer.
	if got := View(R, mgl32.Vec3{0, 0, 1}); got[2] <= 0 {
		t.Errorf("up maps to %v, want positive depth", got)
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{370, 10},
		{-30, 330},
		{720, 0},
	}
	for _, tt := range tests {
		if got := WrapDegrees(tt.in); got != tt.want {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFitCoversAllPoses(t *testing.T) {
	R := mgl64.Ident3()
	a := pose(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 1, 0})
	b := pose(mgl32.Vec3{-2, 3, 0})
	f := Fit(R, a, b)
	if f.Center != [3]float64{0, 1.5, 0} {
		t.Errorf("Center = %v, want [0 1.5 0]", f.Center)
	}
	if f.Span != 4 {
		t.Errorf("Span = %v, want 4", f.Span)
	}
}

func TestFitEmpty(t *testing.T) {
	f := Fit(mgl64.Ident3())
	if f.Span != 1 {
		t.Errorf("empty Fit span = %v, want 1", f.Span)
	}
}

func TestProjectVertices(t *testing.T) {
	R := mgl64.Ident3()
	meshes := pose(mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, 1, 5})
	f := Fit(R, meshes)
	px, py, pz := ProjectVertices(meshes[0].Vertices, R, f, 100, 10)
	// 80 usable pixels over a span of 2.
	want := [][3]float64{{10, 90, 0}, {90, 10, 5}}
	for i, w := range want {
		if math.Abs(px[i]-w[0]) > 1e-9 || math.Abs(py[i]-w[1]) > 1e-9 || pz[i] != w[2] {
			t.Errorf("vertex %d projects to (%v, %v, %v), want %v", i, px[i], py[i], pz[i], w)
		}
	}
}

package md3

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Magic identifies both the file header and every mesh header.
	Magic = "IDP3"
	// Version is the only supported format version.
	Version = 15

	// PositionScale converts the on-disk int16 vertex coordinates to model units.
	PositionScale = 1.0 / 64

	headerSize     = 108 // 4 + 4 + 64 + 9*4
	frameSize      = 56  // 3*12 + 4 + 16
	tagSize        = 112 // 64 + 12 + 36
	meshHeaderSize = 108 // 4 + 64 + 10*4
	skinSize       = 68  // 64 + 4
	texCoordSize   = 8
	vertexSize     = 8 // 3*int16 + 2 normal bytes

	nameLen    = 64
	creatorLen = 16
)

// Header is the fixed 108-byte file header.
type Header struct {
	Ident       string
	Version     int32
	Path        string // internal file path, 64 bytes on disk
	Flags       int32
	FrameCount  int32
	TagCount    int32
	MeshCount   int32
	SkinCount   int32
	FrameOffset int32
	TagOffset   int32
	MeshOffset  int32
	FileSize    int32
}

// Frame holds the bounding volume of one keyframe.
type Frame struct {
	Min     mgl32.Vec3
	Max     mgl32.Vec3
	Origin  mgl32.Vec3
	Scale   float32 // bounding radius
	Creator string
}

// Tag is a named attachment point for one keyframe.
// Rotation carries only the 3×3 axis; the translation lives in Position.
type Tag struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Mat4
}

// Transform returns T(Position) × Rotation, the local transform a child
// attached at this tag is placed with.
func (t Tag) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).Mul4(t.Rotation)
}

// MeshHeader mirrors Header for one mesh record. All offsets are relative
// to the start of the mesh record.
type MeshHeader struct {
	Ident          string
	Name           string
	Flags          int32
	FrameCount     int32
	SkinCount      int32
	VertexCount    int32
	TriangleCount  int32
	TriangleOffset int32
	SkinOffset     int32
	TexCoordOffset int32
	VertexOffset   int32
	MeshSize       int32
}

// Skin is a (shader name, index) pair stored per mesh.
type Skin struct {
	Name  string
	Index int32
}

// Vertex is one decoded vertex of one keyframe.
type Vertex struct {
	Position mgl32.Vec3
	Normal   [2]byte // latitude, longitude indices into the normal table
}

// NormalVec returns the unit normal encoded in v.Normal.
func (v Vertex) NormalVec() mgl32.Vec3 {
	return DecodeNormal(v.Normal[0], v.Normal[1])
}

// Mesh holds parsed geometry for one sub-mesh. Vertices holds one full
// vertex buffer per keyframe, frame-major.
type Mesh struct {
	Header    MeshHeader
	Skins     []Skin
	Triangles []int32 // flat, 3 indices per triangle
	TexCoords []mgl32.Vec2
	Vertices  []Vertex
}

// Name returns the mesh name from its header.
func (m *Mesh) Name() string {
	return m.Header.Name
}

// VertexAt returns vertex index of keyframe frame.
func (m *Mesh) VertexAt(frame, index int) Vertex {
	return m.Vertices[frame*int(m.Header.VertexCount)+index]
}

// Model is one decoded MD3 file.
type Model struct {
	Header Header
	Frames []Frame
	Tags   []Tag // FrameCount × TagCount, frame-major
	Meshes []Mesh
}

// TagAt returns the tag in slot of keyframe frame.
func (m *Model) TagAt(frame, slot int) Tag {
	return m.Tags[frame*int(m.Header.TagCount)+slot]
}

// TagIndex returns the first tag slot whose name starts with prefix.
// Only the first keyframe is searched; slot names are identical across frames.
func (m *Model) TagIndex(prefix string) (int, bool) {
	n := int(m.Header.TagCount)
	if n > len(m.Tags) {
		n = len(m.Tags)
	}
	for i := 0; i < n; i++ {
		if strings.HasPrefix(m.Tags[i].Name, prefix) {
			return i, true
		}
	}
	return -1, false
}

// MeshIndex returns the first mesh whose name starts with prefix.
func (m *Model) MeshIndex(prefix string) (int, bool) {
	for i := range m.Meshes {
		if strings.HasPrefix(m.Meshes[i].Header.Name, prefix) {
			return i, true
		}
	}
	return -1, false
}

// NumFrames returns the number of keyframes.
func (m *Model) NumFrames() int {
	return len(m.Frames)
}

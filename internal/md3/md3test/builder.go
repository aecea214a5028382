// Package md3test serialises in-memory model descriptions into MD3 byte
// streams for tests.
package md3test

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"md3-renderer/internal/md3"
)

// Vertex is one stored vertex: raw coordinates (64 units per model unit)
// and the encoded normal pair.
type Vertex struct {
	Position [3]int16
	Normal   [2]byte
}

// Mesh describes one mesh record. Frames holds one vertex buffer per
// keyframe; each buffer must have len(TexCoords) entries.
type Mesh struct {
	Name      string
	Skins     []md3.Skin
	Triangles [][3]int32
	TexCoords []mgl32.Vec2
	Frames    [][]Vertex
	// Padding bytes appended after the vertex data and counted in meshSize.
	Padding int
}

// Model describes a whole file. Tags holds one slice per keyframe; every
// slice must have the same length.
type Model struct {
	Ident   string // defaults to md3.Magic
	Version int32  // defaults to md3.Version
	Path    string
	Frames  []md3.Frame
	Tags    [][]md3.Tag
	Meshes  []Mesh
}

// Bytes encodes m. Sections are laid out header, frames, tags, meshes with
// consistent offsets.
func (m *Model) Bytes() []byte {
	ident := m.Ident
	if ident == "" {
		ident = md3.Magic
	}
	version := m.Version
	if version == 0 {
		version = md3.Version
	}
	tagCount := 0
	if len(m.Tags) > 0 {
		tagCount = len(m.Tags[0])
	}

	var meshes [][]byte
	meshBytes := 0
	for i := range m.Meshes {
		b := m.Meshes[i].bytes()
		meshes = append(meshes, b)
		meshBytes += len(b)
	}

	frameOfs := 108
	tagOfs := frameOfs + 56*len(m.Frames)
	meshOfs := tagOfs + 112*len(m.Frames)*tagCount
	end := meshOfs + meshBytes

	var b []byte
	b = appendStr(b, ident, 4)
	b = appendI32(b, version)
	b = appendStr(b, m.Path, 64)
	b = appendI32(b, 0)
	b = appendI32(b, int32(len(m.Frames)))
	b = appendI32(b, int32(tagCount))
	b = appendI32(b, int32(len(m.Meshes)))
	b = appendI32(b, 0)
	b = appendI32(b, int32(frameOfs))
	b = appendI32(b, int32(tagOfs))
	b = appendI32(b, int32(meshOfs))
	b = appendI32(b, int32(end))

	for _, f := range m.Frames {
		b = appendVec3(b, f.Min)
		b = appendVec3(b, f.Max)
		b = appendVec3(b, f.Origin)
		b = appendF32(b, f.Scale)
		b = appendStr(b, f.Creator, 16)
	}
	for i := range m.Frames {
		var frameTags []md3.Tag
		if i < len(m.Tags) {
			frameTags = m.Tags[i]
		}
		for j := 0; j < tagCount; j++ {
			var t md3.Tag
			if j < len(frameTags) {
				t = frameTags[j]
			}
			b = appendStr(b, t.Name, 64)
			b = appendVec3(b, t.Position)
			for k := 0; k < 9; k++ {
				b = appendF32(b, t.Rotation[k+k/3])
			}
		}
	}
	for _, mb := range meshes {
		b = append(b, mb...)
	}
	return b
}

func (ms *Mesh) bytes() []byte {
	nVert := len(ms.TexCoords)
	triOfs := 108
	skinOfs := triOfs + 12*len(ms.Triangles)
	stOfs := skinOfs + 68*len(ms.Skins)
	vertOfs := stOfs + 8*nVert
	size := vertOfs + 8*nVert*len(ms.Frames) + ms.Padding

	var b []byte
	b = appendStr(b, md3.Magic, 4)
	b = appendStr(b, ms.Name, 64)
	b = appendI32(b, 0)
	b = appendI32(b, int32(len(ms.Frames)))
	b = appendI32(b, int32(len(ms.Skins)))
	b = appendI32(b, int32(nVert))
	b = appendI32(b, int32(len(ms.Triangles)))
	b = appendI32(b, int32(triOfs))
	b = appendI32(b, int32(skinOfs))
	b = appendI32(b, int32(stOfs))
	b = appendI32(b, int32(vertOfs))
	b = appendI32(b, int32(size))

	for _, t := range ms.Triangles {
		b = appendI32(b, t[0])
		b = appendI32(b, t[1])
		b = appendI32(b, t[2])
	}
	for _, s := range ms.Skins {
		b = appendStr(b, s.Name, 64)
		b = appendI32(b, s.Index)
	}
	for _, st := range ms.TexCoords {
		b = appendF32(b, st[0])
		b = appendF32(b, st[1])
	}
	for _, frame := range ms.Frames {
		for _, v := range frame {
			b = binary.LittleEndian.AppendUint16(b, uint16(v.Position[0]))
			b = binary.LittleEndian.AppendUint16(b, uint16(v.Position[1]))
			b = binary.LittleEndian.AppendUint16(b, uint16(v.Position[2]))
			b = append(b, v.Normal[0], v.Normal[1])
		}
	}
	return append(b, make([]byte, ms.Padding)...)
}

// WriteFile encodes m to path.
func (m *Model) WriteFile(path string) error {
	return os.WriteFile(path, m.Bytes(), 0o644)
}

// Triangle returns a one-triangle mesh with frames keyframes. Keyframe f
// is the unit right triangle in the XY plane lifted to z = f, with every
// normal pointing along +Z.
func Triangle(name string, frames int) Mesh {
	ms := Mesh{
		Name:      name,
		Triangles: [][3]int32{{0, 1, 2}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
	}
	for f := 0; f < frames; f++ {
		z := int16(f * 64)
		ms.Frames = append(ms.Frames, []Vertex{
			{Position: [3]int16{0, 0, z}},
			{Position: [3]int16{64, 0, z}},
			{Position: [3]int16{0, 64, z}},
		})
	}
	return ms
}

// Frames returns n frames with a unit bounding box.
func Frames(n int) []md3.Frame {
	out := make([]md3.Frame, n)
	for i := range out {
		out[i] = md3.Frame{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}, Scale: 1}
	}
	return out
}

// StaticTags returns the same identity-rotated tags for each of n frames.
func StaticTags(n int, tags ...md3.Tag) [][]md3.Tag {
	out := make([][]md3.Tag, n)
	for i := range out {
		out[i] = make([]md3.Tag, len(tags))
		for j, t := range tags {
			if t.Rotation == (mgl32.Mat4{}) {
				t.Rotation = mgl32.Ident4()
			}
			out[i][j] = t
		}
	}
	return out
}

func appendStr(b []byte, s string, n int) []byte {
	field := make([]byte, n)
	copy(field, s)
	return append(b, field...)
}

func appendI32(b []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(v))
}

func appendF32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

func appendVec3(b []byte, v mgl32.Vec3) []byte {
	b = appendF32(b, v[0])
	b = appendF32(b, v[1])
	return appendF32(b, v[2])
}

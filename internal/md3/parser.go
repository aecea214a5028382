package md3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrBadMagic           = errors.New("bad magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrTruncated          = errors.New("truncated section")
	ErrInvalidLayout      = errors.New("invalid layout")
)

// FormatError reports a malformed MD3 stream. Err is one of the sentinel
// errors above, possibly wrapped with detail.
type FormatError struct {
	Path    string
	Section string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("md3: %s: %s: %v", e.Path, e.Section, e.Err)
	}
	return fmt.Sprintf("md3: %s: %v", e.Section, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Load reads and decodes an MD3 file.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "md3: read %s", path)
	}
	m, err := Decode(raw)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Decode parses a complete MD3 byte stream. No partially decoded model is
// ever returned.
func Decode(data []byte) (*Model, error) {
	r := &reader{data: data}

	h := r.readHeader()
	if r.err != nil {
		return nil, &FormatError{Section: "header", Err: r.err}
	}
	if h.Ident != Magic {
		return nil, &FormatError{Section: "header", Err: errors.Wrapf(ErrBadMagic, "%q", h.Ident)}
	}
	if h.Version != Version {
		return nil, &FormatError{Section: "header", Err: errors.Wrapf(ErrUnsupportedVersion, "%d (want %d)", h.Version, Version)}
	}
	if err := h.validate(len(data)); err != nil {
		return nil, &FormatError{Section: "header", Err: err}
	}

	m := &Model{Header: h}

	m.Frames = r.readFrames(&h)
	if r.err != nil {
		return nil, &FormatError{Section: "frames", Err: r.err}
	}

	m.Tags = r.readTags(&h)
	if r.err != nil {
		return nil, &FormatError{Section: "tags", Err: r.err}
	}

	meshes, err := r.readMeshes(&h)
	if err != nil {
		return nil, err
	}
	m.Meshes = meshes

	return m, nil
}

// validate checks counts and that the section offsets are monotonic and
// inside the data.
func (h *Header) validate(size int) error {
	for _, c := range []int32{h.FrameCount, h.TagCount, h.MeshCount, h.SkinCount} {
		if c < 0 {
			return errors.Wrapf(ErrInvalidLayout, "negative count %d", c)
		}
	}
	if h.FrameOffset < headerSize ||
		h.TagOffset < h.FrameOffset ||
		h.MeshOffset < h.TagOffset ||
		h.FileSize < h.MeshOffset {
		return errors.Wrapf(ErrInvalidLayout, "offsets frames=%d tags=%d meshes=%d eof=%d",
			h.FrameOffset, h.TagOffset, h.MeshOffset, h.FileSize)
	}
	if int(h.FileSize) > size {
		return errors.Wrapf(ErrTruncated, "declared size %d, have %d", h.FileSize, size)
	}
	if int(h.MeshCount) > (size-int(h.MeshOffset))/meshHeaderSize {
		return errors.Wrapf(ErrTruncated, "%d meshes do not fit after offset %d", h.MeshCount, h.MeshOffset)
	}
	return nil
}

func (r *reader) readHeader() Header {
	var h Header
	h.Ident = r.readStr(4)
	h.Version = r.readI32()
	h.Path = r.readStr(nameLen)
	h.Flags = r.readI32()
	h.FrameCount = r.readI32()
	h.TagCount = r.readI32()
	h.MeshCount = r.readI32()
	h.SkinCount = r.readI32()
	h.FrameOffset = r.readI32()
	h.TagOffset = r.readI32()
	h.MeshOffset = r.readI32()
	h.FileSize = r.readI32()
	return h
}

func (r *reader) readFrames(h *Header) []Frame {
	n := int(h.FrameCount)
	if !r.seek(int(h.FrameOffset), n, frameSize) {
		return nil
	}
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = Frame{
			Min:     r.readVec3(),
			Max:     r.readVec3(),
			Origin:  r.readVec3(),
			Scale:   r.readF32(),
			Creator: r.readStr(creatorLen),
		}
	}
	return frames
}

func (r *reader) readTags(h *Header) []Tag {
	n := int(h.FrameCount) * int(h.TagCount)
	if !r.seek(int(h.TagOffset), n, tagSize) {
		return nil
	}
	tags := make([]Tag, n)
	for i := range tags {
		tags[i] = Tag{
			Name:     r.readStr(nameLen),
			Position: r.readVec3(),
			Rotation: r.readAxis(),
		}
	}
	return tags
}

// readAxis places the stored 3×3 axis in the upper-left of a homogeneous
// matrix: element i goes to i + i/3, [15] is 1 and the translation is zero.
func (r *reader) readAxis() mgl32.Mat4 {
	var m mgl32.Mat4
	for i := 0; i < 9; i++ {
		m[i+i/3] = r.readF32()
	}
	m[15] = 1
	return m
}

func (r *reader) readMeshes(h *Header) ([]Mesh, error) {
	meshes := make([]Mesh, 0, h.MeshCount)
	cursor := int(h.MeshOffset)
	for i := 0; i < int(h.MeshCount); i++ {
		section := fmt.Sprintf("mesh %d", i)
		mesh, err := r.readMesh(cursor)
		if err != nil {
			return nil, &FormatError{Section: section, Err: err}
		}
		meshes = append(meshes, mesh)
		// Trust the declared size; records may carry trailing padding.
		cursor += int(mesh.Header.MeshSize)
	}
	return meshes, nil
}

func (r *reader) readMesh(base int) (Mesh, error) {
	var mesh Mesh
	if !r.seek(base, 1, meshHeaderSize) {
		return mesh, r.err
	}
	mh := r.readMeshHeader()
	if mh.Ident != Magic {
		return mesh, errors.Wrapf(ErrBadMagic, "%q", mh.Ident)
	}
	if err := mh.validate(); err != nil {
		return mesh, err
	}
	mesh.Header = mh

	nTri := int(mh.TriangleCount) * 3
	if !r.seek(base+int(mh.TriangleOffset), nTri, 4) {
		return mesh, errors.Wrap(r.err, "triangles")
	}
	mesh.Triangles = make([]int32, nTri)
	for j := range mesh.Triangles {
		mesh.Triangles[j] = r.readI32()
		if v := mesh.Triangles[j]; v < 0 || v >= mh.VertexCount {
			return mesh, errors.Wrapf(ErrInvalidLayout, "mesh %q: triangle index %d out of %d vertices", mh.Name, v, mh.VertexCount)
		}
	}

	if !r.seek(base+int(mh.SkinOffset), int(mh.SkinCount), skinSize) {
		return mesh, errors.Wrap(r.err, "skins")
	}
	mesh.Skins = make([]Skin, mh.SkinCount)
	for j := range mesh.Skins {
		mesh.Skins[j] = Skin{Name: r.readStr(nameLen), Index: r.readI32()}
	}

	if !r.seek(base+int(mh.TexCoordOffset), int(mh.VertexCount), texCoordSize) {
		return mesh, errors.Wrap(r.err, "texture coordinates")
	}
	mesh.TexCoords = make([]mgl32.Vec2, mh.VertexCount)
	for j := range mesh.TexCoords {
		mesh.TexCoords[j] = mgl32.Vec2{r.readF32(), r.readF32()}
	}

	nVert := int(mh.VertexCount) * int(mh.FrameCount)
	if !r.seek(base+int(mh.VertexOffset), nVert, vertexSize) {
		return mesh, errors.Wrap(r.err, "vertices")
	}
	mesh.Vertices = make([]Vertex, nVert)
	for j := range mesh.Vertices {
		raw := [3]int16{r.readI16(), r.readI16(), r.readI16()}
		mesh.Vertices[j] = Vertex{
			Position: DecodePosition(raw),
			Normal:   [2]byte{r.readByte(), r.readByte()},
		}
	}

	return mesh, nil
}

func (r *reader) readMeshHeader() MeshHeader {
	var mh MeshHeader
	mh.Ident = r.readStr(4)
	mh.Name = r.readStr(nameLen)
	mh.Flags = r.readI32()
	mh.FrameCount = r.readI32()
	mh.SkinCount = r.readI32()
	mh.VertexCount = r.readI32()
	mh.TriangleCount = r.readI32()
	mh.TriangleOffset = r.readI32()
	mh.SkinOffset = r.readI32()
	mh.TexCoordOffset = r.readI32()
	mh.VertexOffset = r.readI32()
	mh.MeshSize = r.readI32()
	return mh
}

func (mh *MeshHeader) validate() error {
	for _, v := range []int32{
		mh.FrameCount, mh.SkinCount, mh.VertexCount, mh.TriangleCount,
		mh.TriangleOffset, mh.SkinOffset, mh.TexCoordOffset, mh.VertexOffset,
	} {
		if v < 0 {
			return errors.Wrapf(ErrInvalidLayout, "mesh %q: negative field %d", mh.Name, v)
		}
	}
	if mh.MeshSize < meshHeaderSize {
		return errors.Wrapf(ErrInvalidLayout, "mesh %q: size %d", mh.Name, mh.MeshSize)
	}
	return nil
}

// reader is a little-endian cursor over the whole file. The first overrun
// sets err to ErrTruncated; later reads return zero values.
type reader struct {
	data []byte
	off  int
	err  error
}

// seek moves the cursor to off and checks that count records of size bytes
// are available there.
func (r *reader) seek(off, count, size int) bool {
	if r.err != nil {
		return false
	}
	if off < 0 || count < 0 || off > len(r.data) || count > (len(r.data)-off)/size {
		r.err = errors.Wrapf(ErrTruncated, "need %d×%d bytes at offset %d, have %d", count, size, off, len(r.data))
		return false
	}
	r.off = off
	return true
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = errors.Wrapf(ErrTruncated, "need %d bytes at offset %d, have %d", n, r.off, len(r.data))
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// readStr reads a fixed-length field, cuts it at the first NUL and maps each
// byte to the character with the same code point.
func (r *reader) readStr(n int) string {
	b := r.take(n)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(charmap.ISO8859_1.DecodeByte(c))
	}
	return sb.String()
}

func (r *reader) readI32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *reader) readI16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) readF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readVec3() mgl32.Vec3 {
	return mgl32.Vec3{r.readF32(), r.readF32(), r.readF32()}
}

package character

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// SkinBinding maps meshes whose name starts with Mesh to a texture path.
type SkinBinding struct {
	Mesh    string
	Texture string
}

// ParseSkin reads a .skin file: one "<mesh prefix>,<texture path>" pair per
// line. Blank lines, tag_ lines and lines without a comma are skipped.
func ParseSkin(r io.Reader) ([]SkinBinding, error) {
	var out []SkinBinding
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "tag_") {
			continue
		}
		mesh, tex, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		tex = strings.TrimSpace(tex)
		if tex == "" {
			continue
		}
		out = append(out, SkinBinding{Mesh: strings.TrimSpace(mesh), Texture: tex})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "character: read skin")
	}
	return out, nil
}

// LoadSkin reads a .skin file from disk.
func LoadSkin(path string) ([]SkinBinding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "character: open skin %s", path)
	}
	defer f.Close()
	return ParseSkin(f)
}

// ApplySkin binds each texture to the first mesh whose name starts with the
// binding's prefix and returns how many bindings matched a mesh.
func (s *SubModel) ApplySkin(bindings []SkinBinding) int {
	n := 0
	for _, b := range bindings {
		i, ok := s.Model.MeshIndex(b.Mesh)
		if !ok {
			continue
		}
		s.Textures[i] = b.Texture
		n++
	}
	return n
}

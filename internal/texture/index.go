package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extRank orders image formats for the same name: TGA carries alpha, so
// it beats PNG, which beats JPEG.
var extRank = map[string]int{
	".tga":  3,
	".png":  2,
	".jpg":  1,
	".jpeg": 1,
}

// Index maps skin texture names to files under a game data root.
// Lookups try the full relative path first (models/players/sarge/red),
// then the bare file stem, ignoring case and extension.
type Index struct {
	paths map[string]string // relative path without extension, lowercase → file
	stems map[string]string // base name without extension, lowercase → file
}

// BuildIndex walks root for TGA, PNG and JPEG files.
func BuildIndex(root string) *Index {
	idx := &Index{
		paths: make(map[string]string),
		stems: make(map[string]string),
	}
	if root == "" {
		return idx
	}

	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := extRank[ext]; !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		idx.add(idx.paths, keyOf(rel), path)
		idx.add(idx.stems, stemOf(rel), path)
		return nil
	})

	return idx
}

func (idx *Index) add(m map[string]string, key, path string) {
	existing, exists := m[key]
	if !exists || extRank[strings.ToLower(filepath.Ext(path))] > extRank[strings.ToLower(filepath.Ext(existing))] {
		m[key] = path
	}
}

func keyOf(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "/")
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

func stemOf(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := name[strings.LastIndex(name, "/")+1:]
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
func (idx *Index) ResolvePath(texName string) (string, bool) {
	if path, ok := idx.paths[keyOf(texName)]; ok {
		return path, true
	}
	path, ok := idx.stems[stemOf(texName)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.paths)
}

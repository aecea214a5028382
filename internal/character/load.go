package character

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"md3-renderer/internal/animation"
	"md3-renderer/internal/md3"
)

// ErrShortDescriptor is returned when a descriptor names fewer than nine files.
var ErrShortDescriptor = errors.New("character: descriptor needs 9 lines")

// Descriptor lists the files a character is built from, in file order.
type Descriptor struct {
	Models    [NumParts]string
	Skins     [NumParts]string
	Animation string
}

// ReadDescriptor parses a character descriptor: the lower, upper, head and
// gun model each followed by its skin, then the animation config. Blank
// lines are skipped; relative paths resolve against the descriptor's
// directory.
func ReadDescriptor(path string) (Descriptor, error) {
	var d Descriptor
	f, err := os.Open(path)
	if err != nil {
		return d, errors.Wrapf(err, "character: open descriptor %s", path)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < 2*NumParts+1 {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		p := filepath.FromSlash(line)
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		lines = append(lines, p)
	}
	if err := sc.Err(); err != nil {
		return d, errors.Wrapf(err, "character: read descriptor %s", path)
	}
	if len(lines) < 2*NumParts+1 {
		return d, errors.Wrapf(ErrShortDescriptor, "%s has %d", path, len(lines))
	}
	for i := 0; i < NumParts; i++ {
		d.Models[i] = lines[2*i]
		d.Skins[i] = lines[2*i+1]
	}
	d.Animation = lines[2*NumParts]
	return d, nil
}

// Load builds a character from a descriptor file. Any unreadable or
// malformed file aborts the load.
func Load(descriptorPath string, opts Options) (*Character, error) {
	d, err := ReadDescriptor(descriptorPath)
	if err != nil {
		return nil, err
	}
	return LoadDescriptor(d, opts)
}

// LoadDescriptor builds a character from already resolved file paths.
func LoadDescriptor(d Descriptor, opts Options) (*Character, error) {
	var models [NumParts]*md3.Model
	var skins [NumParts][]SkinBinding
	for i := 0; i < NumParts; i++ {
		m, err := md3.Load(d.Models[i])
		if err != nil {
			return nil, errors.Wrapf(err, "character: %s model", Part(i))
		}
		models[i] = m

		b, err := LoadSkin(d.Skins[i])
		if err != nil {
			return nil, errors.Wrapf(err, "character: %s", Part(i))
		}
		skins[i] = b
	}

	tb, err := animation.Load(d.Animation)
	if err != nil {
		return nil, errors.Wrap(err, "character")
	}

	c := New(models, tb, opts)
	for i := range skins {
		c.parts[i].ApplySkin(skins[i])
	}
	return c, nil
}

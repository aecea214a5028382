package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"md3-renderer/internal/animation"
	"md3-renderer/internal/viewmatrix"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" yaml:"base_dir"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	TextureDir string `json:"texture_dir" yaml:"texture_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`

	// Render settings
	RenderSize  int               `json:"render_size" yaml:"render_size"`
	Supersample int               `json:"supersample" yaml:"supersample"`
	Despeckle   int               `json:"despeckle" yaml:"despeckle"`
	Workers     int               `json:"workers" yaml:"workers"`
	Camera      viewmatrix.Camera `json:"camera" yaml:"camera"`

	// Animation settings
	FramesPerAnimation int      `json:"frames_per_animation" yaml:"frames_per_animation"`
	TickRate           float64  `json:"tick_rate" yaml:"tick_rate"`
	ResetFraction      bool     `json:"reset_fraction" yaml:"reset_fraction"`
	Animations         []string `json:"animations" yaml:"animations"`

	// Preview server
	Listen string `json:"listen" yaml:"listen"`
}

// Load reads a JSON or YAML config file, chosen by extension, and returns
// Config. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %s", path)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.Descriptor != "" {
		c.Descriptor = flags.Descriptor
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Animations != "" {
		c.Animations = splitList(flags.Animations)
	}
	if flags.Listen != "" {
		c.Listen = flags.Listen
	}

	// Auto-detect base dir if still empty
	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	c.Descriptor = c.resolvePath(c.Descriptor, "")
	c.TextureDir = c.resolvePath(c.TextureDir, c.BaseDir)
	c.OutputDir = c.resolvePath(c.OutputDir, filepath.Join(c.BaseDir, "renders"))

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Despeckle < 0 {
		c.Despeckle = 0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Camera == (viewmatrix.Camera{}) {
		c.Camera = viewmatrix.DefaultCamera
	}
	if c.FramesPerAnimation <= 0 {
		c.FramesPerAnimation = 16
	}
	if c.TickRate <= 0 {
		c.TickRate = 30
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
}

func (c *Config) resolvePath(p, def string) string {
	if p == "" {
		return def
	}
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Descriptor == "" {
		return errors.New("config: no character descriptor")
	}
	if _, err := c.AnimationTypes(); err != nil {
		return err
	}
	return nil
}

// AnimationTypes returns the animations to render: the configured names in
// order, or every animation when none are listed.
func (c *Config) AnimationTypes() ([]animation.Type, error) {
	if len(c.Animations) == 0 {
		all := make([]animation.Type, animation.Count)
		for i := range all {
			all[i] = animation.Type(i)
		}
		return all, nil
	}
	out := make([]animation.Type, 0, len(c.Animations))
	for _, name := range c.Animations {
		t, ok := animation.ParseType(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, errors.Errorf("config: unknown animation %q", name)
		}
		out = append(out, t)
	}
	return out, nil
}

// FractionPolicy maps ResetFraction to the playback policy.
func (c *Config) FractionPolicy() animation.FractionPolicy {
	if c.ResetFraction {
		return animation.ResetFraction
	}
	return animation.CarryFraction
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir    string
	Descriptor string
	OutputDir  string
	Size       int
	Workers    int
	Animations string // comma separated
	Listen     string
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if _, err := os.Stat(filepath.Join(base, "models", "players")); err == nil {
				return base
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, "models", "players")); err == nil {
		return cwd
	}

	return ""
}

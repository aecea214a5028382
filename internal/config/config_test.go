package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"md3-renderer/internal/animation"
	"md3-renderer/internal/viewmatrix"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "render.json", `{
		"base_dir": "/data/baseq3",
		"descriptor": "models/players/sarge/player.txt",
		"render_size": 128,
		"camera": {"yaw": 45, "pitch": 5},
		"animations": ["LEGS_RUN", "torso_attack"]
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseDir != "/data/baseq3" || cfg.RenderSize != 128 || cfg.Camera.Yaw != 45 {
		t.Errorf("Load = %+v", cfg)
	}
	types, err := cfg.AnimationTypes()
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != 2 || types[0] != animation.LegsRun || types[1] != animation.TorsoAttack {
		t.Errorf("AnimationTypes() = %v", types)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "render.yaml", `
descriptor: player.txt
supersample: 3
tick_rate: 20
reset_fraction: true
camera:
  yaw: -30
  pitch: 12
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Descriptor != "player.txt" || cfg.Supersample != 3 || cfg.TickRate != 20 {
		t.Errorf("Load = %+v", cfg)
	}
	if cfg.Camera != (viewmatrix.Camera{Yaw: -30, Pitch: 12}) {
		t.Errorf("Camera = %+v", cfg.Camera)
	}
	if cfg.FractionPolicy() != animation.ResetFraction {
		t.Errorf("FractionPolicy() = %v, want ResetFraction", cfg.FractionPolicy())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want fs.ErrNotExist", err)
	}
	if _, err := Load(writeConfig(t, "bad.json", "{")); err == nil {
		t.Errorf("Load(bad json) succeeded")
	}
	if _, err := Load(writeConfig(t, "bad.yml", "render_size: [")); err == nil {
		t.Errorf("Load(bad yaml) succeeded")
	}
}

func TestResolveDefaultsAndFlags(t *testing.T) {
	base := t.TempDir()
	cfg := Config{BaseDir: base, Descriptor: "models/players/sarge/player.txt", Workers: 3}
	cfg.Resolve(Flags{Size: 64, Animations: "LEGS_WALK, LEGS_IDLE"})

	if want := filepath.Join(base, "models/players/sarge/player.txt"); cfg.Descriptor != want {
		t.Errorf("Descriptor = %q, want %q", cfg.Descriptor, want)
	}
	if cfg.TextureDir != base {
		t.Errorf("TextureDir = %q, want base dir", cfg.TextureDir)
	}
	if want := filepath.Join(base, "renders"); cfg.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
	if cfg.RenderSize != 64 || cfg.Supersample != 2 || cfg.Workers != 3 {
		t.Errorf("size/supersample/workers = %d/%d/%d", cfg.RenderSize, cfg.Supersample, cfg.Workers)
	}
	if cfg.Camera != viewmatrix.DefaultCamera || cfg.FramesPerAnimation != 16 || cfg.TickRate != 30 {
		t.Errorf("defaults = %+v", cfg)
	}
	if len(cfg.Animations) != 2 || cfg.Animations[1] != "LEGS_IDLE" {
		t.Errorf("Animations = %q", cfg.Animations)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	var empty Config
	empty.Resolve(Flags{BaseDir: base})
	if empty.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want NumCPU", empty.Workers)
	}
	if err := empty.Validate(); err == nil {
		t.Errorf("Validate without a descriptor succeeded")
	}
}

func TestAbsolutePathsKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out")
	cfg := Config{BaseDir: t.TempDir(), OutputDir: abs}
	cfg.Resolve(Flags{})
	if cfg.OutputDir != abs {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, abs)
	}
}

func TestUnknownAnimation(t *testing.T) {
	cfg := Config{Descriptor: "x", Animations: []string{"LEGS_FLY"}}
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate accepted LEGS_FLY")
	}
	all, err := (&Config{}).AnimationTypes()
	if err != nil || len(all) != animation.Count {
		t.Errorf("AnimationTypes() with no list = %d, %v", len(all), err)
	}
}

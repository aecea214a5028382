package character

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"md3-renderer/internal/animation"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func animationConfig() string {
	var b strings.Builder
	b.WriteString("sex m\n\n")
	for i := 0; i < animation.Count; i++ {
		fmt.Fprintf(&b, "%d 2 2 20 // %v\n", i, animation.Type(i))
	}
	return b.String()
}

// writeCharacter lays out a complete player directory and returns the
// descriptor path.
func writeCharacter(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	parts := testParts()
	names := [NumParts]string{"lower", "upper", "head", "gun"}
	var desc strings.Builder
	for i, src := range parts {
		model := filepath.Join(dir, "models", names[i]+".md3")
		if err := os.MkdirAll(filepath.Dir(model), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := src.WriteFile(model); err != nil {
			t.Fatal(err)
		}
		fmt.Fprintf(&desc, "models/%s.md3\nmodels/%s_default.skin\n", names[i], names[i])
	}
	writeFile(t, filepath.Join(dir, "models", "lower_default.skin"),
		"tag_torso,\nl_legs,models/players/test/legs.tga\n")
	writeFile(t, filepath.Join(dir, "models", "upper_default.skin"),
		"tag_head,\ntag_weapon,\nu_torso,models/players/test/torso.tga\nu_missing,models/players/test/none.tga\n")
	writeFile(t, filepath.Join(dir, "models", "head_default.skin"), "h_head,models/players/test/head.tga\n")
	writeFile(t, filepath.Join(dir, "models", "gun_default.skin"), "w_,models/weapons/gun.jpg\n")
	writeFile(t, filepath.Join(dir, "animation.cfg"), animationConfig())

	desc.WriteString("\nanimation.cfg\n")
	path := filepath.Join(dir, "player.txt")
	writeFile(t, path, desc.String())
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeCharacter(t), Options{Fraction: animation.ResetFraction})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.Part(Lower).Textures[0]; got != "models/players/test/legs.tga" {
		t.Errorf("lower texture = %q", got)
	}
	if got := c.Part(Upper).Textures[0]; got != "models/players/test/torso.tga" {
		t.Errorf("upper texture = %q", got)
	}
	gun := c.Part(Gun).Textures
	if gun[0] != "models/weapons/gun.jpg" || gun[1] != "" {
		t.Errorf("gun textures = %q, want only the first mesh bound", gun)
	}
	if p, ok := c.Part(Upper).Child(1); !ok || p != Gun {
		t.Errorf("upper slot 1 = %v, %v, want gun", p, ok)
	}
	if c.Part(Lower).Playback.Policy != animation.ResetFraction {
		t.Errorf("fraction policy not applied")
	}
	// Legs rows shift by TORSO_GESTURE - LEGS_WALKCR = 6 - 13.
	if got := c.Animations.Get(animation.LegsWalk).FirstFrame; got != 21 {
		t.Errorf("LEGS_WALK first frame = %d, want 21", got)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing descriptor", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.txt"), Options{})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Load error = %v, want fs.ErrNotExist", err)
		}
	})
	t.Run("short descriptor", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "player.txt")
		writeFile(t, path, "lower.md3\nlower.skin\n")
		_, err := Load(path, Options{})
		if !errors.Is(err, ErrShortDescriptor) {
			t.Errorf("Load error = %v, want ErrShortDescriptor", err)
		}
	})
	t.Run("missing skin", func(t *testing.T) {
		path := writeCharacter(t)
		os.Remove(filepath.Join(filepath.Dir(path), "models", "head_default.skin"))
		c, err := Load(path, Options{})
		if c != nil || !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Load = %v, %v, want nil and fs.ErrNotExist", c, err)
		}
	})
	t.Run("bad model", func(t *testing.T) {
		path := writeCharacter(t)
		writeFile(t, filepath.Join(filepath.Dir(path), "models", "upper.md3"), "not a model")
		_, err := Load(path, Options{})
		if err == nil {
			t.Fatal("Load succeeded with a corrupt model")
		}
	})
	t.Run("short animation config", func(t *testing.T) {
		path := writeCharacter(t)
		writeFile(t, filepath.Join(filepath.Dir(path), "animation.cfg"), "0 1 1 1\n")
		_, err := Load(path, Options{})
		if !errors.Is(err, animation.ErrTooFewAnimations) {
			t.Errorf("Load error = %v, want ErrTooFewAnimations", err)
		}
	})
}

func TestParseSkin(t *testing.T) {
	in := "tag_head,\n\nh_head,models/players/sarge/sarge_h.tga\r\nno comma here\nh_visor , models/players/sarge/visor.tga \nh_empty,\n"
	got, err := ParseSkin(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []SkinBinding{
		{"h_head", "models/players/sarge/sarge_h.tga"},
		{"h_visor", "models/players/sarge/visor.tga"},
	}
	if len(got) != len(want) {
		t.Fatalf("ParseSkin = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("binding %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplySkinPrefixMatch(t *testing.T) {
	c := newTestCharacter(t)
	gun := c.Part(Gun)
	n := gun.ApplySkin([]SkinBinding{
		{"w_barrel", "barrel.tga"},
		{"w_", "gun.tga"},
		{"x_", "nothing.tga"},
	})
	if n != 2 {
		t.Errorf("ApplySkin bound %d, want 2", n)
	}
	if gun.Textures[0] != "gun.tga" || gun.Textures[1] != "barrel.tga" {
		t.Errorf("Textures = %q", gun.Textures)
	}
}

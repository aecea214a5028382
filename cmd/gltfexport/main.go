package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"md3-renderer/internal/animation"
	"md3-renderer/internal/character"
	"md3-renderer/internal/config"
	"md3-renderer/internal/export"
	"md3-renderer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	baseDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	descriptor := flag.String("character", "", "Path to character descriptor file")
	anim := flag.String("anim", "TORSO_STAND", "Animation to pose")
	ticks := flag.Int("tick", 0, "Number of updates to play before posing")
	out := flag.String("o", "pose.glb", "Output .glb path")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{BaseDir: *baseDir, Descriptor: *descriptor})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	t, ok := animation.ParseType(strings.ToUpper(*anim))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown animation %q\n", *anim)
		os.Exit(1)
	}

	c, err := character.Load(cfg.Descriptor, character.Options{Fraction: cfg.FractionPolicy()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading character: %v\n", err)
		os.Exit(1)
	}
	c.Play(t, *ticks, float32(1/cfg.TickRate))
	meshes := c.Compose(mgl32.Ident4(), mgl32.Ident4())

	texCache := texture.NewCache(texture.BuildIndex(cfg.TextureDir))
	doc, err := export.Pose(meshes, texCache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := export.WriteBinary(f, doc); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s tick %d: %d meshes, %d images -> %s\n", t, *ticks, len(doc.Meshes), len(doc.Images), *out)
}

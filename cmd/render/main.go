package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"md3-renderer/internal/batch"
	"md3-renderer/internal/character"
	"md3-renderer/internal/config"
	"md3-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	baseDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	descriptor := flag.String("character", "", "Path to character descriptor file")
	outputDir := flag.String("output", "", "Output directory (default: <data>/renders)")
	size := flag.Int("size", 0, "Output frame size in pixels (default: 256)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	anims := flag.String("anims", "", "Comma-separated animations to render (default: all)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:    *baseDir,
		Descriptor: *descriptor,
		OutputDir:  *outputDir,
		Size:       *size,
		Workers:    *workers,
		Animations: *anims,
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	types, _ := cfg.AnimationTypes()

	// Load character
	c, err := character.Load(cfg.Descriptor, character.Options{Fraction: cfg.FractionPolicy()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading character: %v\n", err)
		os.Exit(1)
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	fmt.Printf("MD3 Character Renderer → WebP\n")
	fmt.Printf("Character: %s\n", cfg.Descriptor)
	fmt.Printf("Animations: %d, Frames: %d, Workers: %d\n", len(types), cfg.FramesPerAnimation, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Camera:      cfg.Camera,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Despeckle:   cfg.Despeckle,
		Workers:     cfg.Workers,
		Frames:      cfg.FramesPerAnimation,
		TickRate:    cfg.TickRate,
	}

	results := batch.Run(batchCfg, c, types)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			failures = append(failures, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(types))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range failures {
			fmt.Printf("  %s: %s\n", e.Animation, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, c.Animations, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

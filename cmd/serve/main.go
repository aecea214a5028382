package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"md3-renderer/internal/character"
	"md3-renderer/internal/config"
	"md3-renderer/internal/preview"
	"md3-renderer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	baseDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	descriptor := flag.String("character", "", "Path to character descriptor file")
	listen := flag.String("listen", "", "Address to listen on (default: 127.0.0.1:8080)")
	size := flag.Int("size", 0, "Frame size in pixels (default: 256)")

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
	cfg.Resolve(config.Flags{
		BaseDir:    *baseDir,
		Descriptor: *descriptor,
		Size:       *size,
		Listen:     *listen,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c, err := character.Load(cfg.Descriptor, character.Options{Fraction: cfg.FractionPolicy()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading character: %v\n", err)
		os.Exit(1)
	}
	texIndex := texture.BuildIndex(cfg.TextureDir)
	log.Printf("[preview] %s: %d textures indexed", cfg.Descriptor, texIndex.Len())

	h := preview.NewServer(c, texture.NewCache(texIndex), preview.Options{
		Camera:      cfg.Camera,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Despeckle:   cfg.Despeckle,
		TickRate:    cfg.TickRate,
		FitFrames:   cfg.FramesPerAnimation,
		AccessLog:   os.Stdout,
	})

	log.Printf("[preview] Starting server %v", cfg.Listen)
	log.Fatal(http.ListenAndServe(cfg.Listen, h))
}

package main

import (
	"flag"
	"fmt"
	"os"

	"md3-renderer/internal/character"
	"md3-renderer/internal/texture"
)

func main() {
	texDir := flag.String("textures", ".", "Directory to index skin textures from")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: skincheck [-textures dir] <descriptor>...")
		os.Exit(2)
	}

	idx := texture.BuildIndex(*texDir)
	cache := texture.NewCache(idx)
	fmt.Printf("Textures: %d indexed under %s\n", idx.Len(), *texDir)

	problems := 0
	for _, arg := range flag.Args() {
		d, err := character.ReadDescriptor(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			problems++
			continue
		}
		c, err := character.LoadDescriptor(d, character.Options{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			problems++
			continue
		}

		fmt.Printf("\n=== %s ===\n", arg)
		for p := character.Part(0); p < character.NumParts; p++ {
			sm := c.Part(p)
			fmt.Printf("--- %s: %s (skin %s) ---\n", p, d.Models[p], d.Skins[p])

			bindings, err := character.LoadSkin(d.Skins[p])
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERR %v\n", err)
				problems++
				continue
			}
			for _, b := range bindings {
				if _, ok := sm.Model.MeshIndex(b.Mesh); !ok {
					fmt.Printf("  UNUSED  %s,%s (no such mesh)\n", b.Mesh, b.Texture)
				}
			}

			for i := range sm.Model.Meshes {
				name := sm.Model.Meshes[i].Name()
				tex := sm.Textures[i]
				if tex == "" {
					fmt.Printf("  NOSKIN  %s\n", name)
					problems++
					continue
				}
				img, path, err := cache.Lookup(tex)
				if err != nil {
					fmt.Printf("  MISSING %s -> %s: %v\n", name, tex, err)
					problems++
					continue
				}
				b := img.Bounds()
				fmt.Printf("  OK      %s -> %s (%dx%d)\n", name, path, b.Dx(), b.Dy())
			}
		}
	}

	if problems > 0 {
		fmt.Printf("\nDone with %d problem(s).\n", problems)
		os.Exit(1)
	}
	fmt.Println("\nDone. Every mesh has a skin texture.")
}

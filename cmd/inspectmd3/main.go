package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/davecgh/go-spew/spew"

	"md3-renderer/internal/md3"
	"md3-renderer/internal/viewmatrix"
)

func main() {
	dump := flag.Bool("dump", false, "Dump decoded headers and tags with go-spew")
	flag.Parse()

	spewConfig := spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true

	failed := 0
	for _, arg := range flag.Args() {
		m, err := md3.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			failed++
			continue
		}
		h := m.Header
		fmt.Printf("\n=== %s (path=%q frames=%d tags=%d meshes=%d) ===\n",
			arg, h.Path, h.FrameCount, h.TagCount, h.MeshCount)

		if *dump {
			fmt.Println(spewConfig.Sdump(h))
			for i := range m.Meshes {
				fmt.Println(spewConfig.Sdump(m.Meshes[i].Header, m.Meshes[i].Skins))
			}
			if len(m.Tags) > 0 {
				fmt.Println(spewConfig.Sdump(m.Tags[:h.TagCount]))
			}
			continue
		}

		fmt.Println("--- FRAMES ---")
		for i, f := range m.Frames {
			fmt.Printf("  Frame[%d]: min=(%.1f,%.1f,%.1f) max=(%.1f,%.1f,%.1f) radius=%.1f %q\n",
				i, f.Min[0], f.Min[1], f.Min[2], f.Max[0], f.Max[1], f.Max[2], f.Scale, f.Creator)
		}

		fmt.Println("--- TAGS (frame 0) ---")
		for slot := 0; slot < int(h.TagCount) && m.NumFrames() > 0; slot++ {
			t := m.TagAt(0, slot)
			fmt.Printf("  Tag[%d] %s: pos=(%.2f,%.2f,%.2f)\n", slot, t.Name, t.Position[0], t.Position[1], t.Position[2])
		}

		fmt.Println("--- MESHES ---")
		for i := range m.Meshes {
			printMesh(i, &m.Meshes[i])
		}

		// Frame 0 seen through the default camera
		R := viewmatrix.DefaultCamera.Matrix()
		fmt.Println("--- FRAME 0 IN SCREEN SPACE (X=right, Y=up, Z=toward viewer) ---")
		for i := range m.Meshes {
			ms := &m.Meshes[i]
			if ms.Header.VertexCount == 0 || ms.Header.FrameCount == 0 {
				continue
			}
			tMin := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
			tMax := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
			for j := 0; j < int(ms.Header.VertexCount); j++ {
				tv := viewmatrix.View(R, ms.VertexAt(0, j).Position)
				for k := 0; k < 3; k++ {
					tMin[k] = math.Min(tMin[k], tv[k])
					tMax[k] = math.Max(tMax[k], tv[k])
				}
			}
			fmt.Printf("  Mesh[%d] %s: screenX=[%.1f..%.1f] screenY=[%.1f..%.1f] depth=[%.1f..%.1f]\n",
				i, ms.Name(), tMin[0], tMax[0], tMin[1], tMax[1], tMin[2], tMax[2])
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printMesh(i int, ms *md3.Mesh) {
	mh := ms.Header
	shader := ""
	if len(ms.Skins) > 0 {
		shader = ms.Skins[0].Name
	}
	fmt.Printf("  Mesh[%d] %s: frames=%d v=%d t=%d skins=%d shader=%q size=%d\n",
		i, mh.Name, mh.FrameCount, mh.VertexCount, mh.TriangleCount, mh.SkinCount, shader, mh.MeshSize)
	if mh.VertexCount == 0 || mh.FrameCount == 0 {
		return
	}
	minV, maxV := ms.VertexAt(0, 0).Position, ms.VertexAt(0, 0).Position
	for j := 1; j < int(mh.VertexCount); j++ {
		p := ms.VertexAt(0, j).Position
		for k := 0; k < 3; k++ {
			minV[k] = float32(math.Min(float64(minV[k]), float64(p[k])))
			maxV[k] = float32(math.Max(float64(maxV[k]), float64(p[k])))
		}
	}
	fmt.Printf("    bbox min=(%.2f,%.2f,%.2f) max=(%.2f,%.2f,%.2f)\n",
		minV[0], minV[1], minV[2], maxV[0], maxV[1], maxV[2])
}

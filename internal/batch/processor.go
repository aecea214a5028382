package batch

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"md3-renderer/internal/animation"
	"md3-renderer/internal/character"
	"md3-renderer/internal/postprocess"
	"md3-renderer/internal/raster"
	"md3-renderer/internal/texture"
	"md3-renderer/internal/viewmatrix"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	TexResolver texture.Resolver
	Camera      viewmatrix.Camera
	RenderSize  int
	Supersample int
	Despeckle   int
	Workers     int
	Frames      int     // frames rendered per animation
	TickRate    float64 // updates per second of animation time
}

// Result holds the outcome of rendering one animation.
type Result struct {
	Animation animation.Type
	Images    []string // relative to OutputDir
	Success   bool
	Error     string
}

// Run renders every animation in anims using a worker pool. Each worker
// plays its own clone of c, so c itself is never advanced.
func Run(cfg Config, c *character.Character, anims []animation.Type) []Result {
	total := len(anims)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f animations/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processAnimation(cfg, c.Clone(), anims[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range anims {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// Sequence plays t on c for frames ticks of 1/tickRate seconds and returns
// the composed pose before each tick.
func Sequence(c *character.Character, t animation.Type, frames int, tickRate float64) [][]character.RenderMesh {
	if tickRate <= 0 {
		tickRate = 30
	}
	dt := float32(1 / tickRate)
	c.SetAnimation(t)
	poses := make([][]character.RenderMesh, frames)
	for i := range poses {
		poses[i] = c.Compose(mgl32.Ident4(), mgl32.Ident4())
		c.Update(dt)
	}
	return poses
}

// Frame renders one pose at output resolution: rasterize, downsample,
// despeckle.
func Frame(cfg Config, meshes []character.RenderMesh, framing *viewmatrix.Framing) *image.NRGBA {
	img := raster.RenderFrame(meshes, framing, cfg.Camera, cfg.TexResolver, cfg.RenderSize, cfg.Supersample)

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Supersample)
	}
	return postprocess.Despeckle(img, cfg.Despeckle)
}

// EncodeWebP writes img as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return errors.Wrap(err, "webp encode")
	}
	return nil
}

func processAnimation(cfg Config, c *character.Character, t animation.Type) Result {
	res := Result{Animation: t}

	poses := Sequence(c, t, cfg.Frames, cfg.TickRate)
	// One framing for the whole sequence so the model does not jitter.
	framing := viewmatrix.Fit(cfg.Camera.Matrix(), poses...)

	dir := filepath.Join(cfg.OutputDir, t.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	for i, meshes := range poses {
		img := Frame(cfg, meshes, &framing)
		name := fmt.Sprintf("%03d.webp", i)
		if err := writeWebP(filepath.Join(dir, name), img); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Images = append(res.Images, t.String()+"/"+name)
	}

	res.Success = true
	return res
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeWebP(f, img); err != nil {
		f.Close()
		return errors.Wrap(err, path)
	}
	return f.Close()
}

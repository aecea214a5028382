// Package preview serves rendered frames and glTF poses of one character
// over HTTP.
package preview

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"md3-renderer/internal/animation"
	"md3-renderer/internal/batch"
	"md3-renderer/internal/character"
	"md3-renderer/internal/export"
	"md3-renderer/internal/texture"
	"md3-renderer/internal/viewmatrix"
)

// MaxTicks bounds the tick path parameter.
const MaxTicks = 100000

// Options configure rendering and logging for the preview server.
type Options struct {
	Camera      viewmatrix.Camera
	RenderSize  int
	Supersample int
	Despeckle   int
	TickRate    float64
	// FitFrames is how many ticks from the start of an animation the
	// framing covers, so scrubbing through ticks does not rescale the model.
	FitFrames int
	// AccessLog receives one line per request; nil disables access logging.
	AccessLog io.Writer
}

// Entry describes one animation in the /api/animations listing.
type Entry struct {
	animation.Descriptor
	Animation string `json:"animation"`
	Category  string `json:"category"`
}

type server struct {
	char     *character.Character
	resolver texture.Resolver
	opts     Options
}

// NewServer returns the preview routes for c. c is only ever cloned, never
// played directly, so requests do not share playback state.
func NewServer(c *character.Character, resolver texture.Resolver, opts Options) http.Handler {
	if opts.RenderSize <= 0 {
		opts.RenderSize = 256
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 30
	}
	if opts.FitFrames <= 0 {
		opts.FitFrames = 16
	}
	if opts.Camera == (viewmatrix.Camera{}) {
		opts.Camera = viewmatrix.DefaultCamera
	}
	s := &server{char: c, resolver: resolver, opts: opts}

	r := mux.NewRouter()
	r.HandleFunc("/api/animations", s.handleAnimations).Methods(http.MethodGet)
	r.HandleFunc("/api/frame/{anim}/{tick:[0-9]+}.webp", s.handleFrame).Methods(http.MethodGet)
	r.HandleFunc("/api/pose/{anim}/{tick:[0-9]+}.glb", s.handlePose).Methods(http.MethodGet)

	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	if opts.AccessLog != nil {
		h = handlers.LoggingHandler(opts.AccessLog, h)
	}
	return h
}

func (s *server) handleAnimations(w http.ResponseWriter, r *http.Request) {
	entries := make([]Entry, animation.Count)
	for i := range entries {
		t := animation.Type(i)
		entries[i] = Entry{
			Descriptor: s.char.Animations.Get(t),
			Animation:  t.String(),
			Category:   t.Category().String(),
		}
	}
	writeJSON(w, entries)
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	t, ticks, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c := s.char.Clone()
	poses := batch.Sequence(c.Clone(), t, s.opts.FitFrames, s.opts.TickRate)
	meshes := s.pose(c, t, ticks)
	framing := viewmatrix.Fit(s.opts.Camera.Matrix(), append(poses, meshes)...)

	cfg := batch.Config{
		TexResolver: s.resolver,
		Camera:      s.opts.Camera,
		RenderSize:  s.opts.RenderSize,
		Supersample: s.opts.Supersample,
		Despeckle:   s.opts.Despeckle,
	}
	img := batch.Frame(cfg, meshes, &framing)

	var buf bytes.Buffer
	if err := batch.EncodeWebP(&buf, img); err != nil {
		log.Printf("[preview] %s: %v", r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	w.Write(buf.Bytes())
}

func (s *server) handlePose(w http.ResponseWriter, r *http.Request) {
	t, ticks, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	meshes := s.pose(s.char.Clone(), t, ticks)
	doc, err := export.Pose(meshes, s.resolver)
	if err != nil {
		log.Printf("[preview] %s: %v", r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBinary(&buf, doc); err != nil {
		log.Printf("[preview] %s: %v", r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "model/gltf-binary")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+t.String()+".glb\"")
	w.Write(buf.Bytes())
}

// pose plays t on c for ticks updates and composes the result.
func (s *server) pose(c *character.Character, t animation.Type, ticks int) []character.RenderMesh {
	c.Play(t, ticks, float32(1/s.opts.TickRate))
	return c.Compose(mgl32.Ident4(), mgl32.Ident4())
}

func parseRequest(r *http.Request) (animation.Type, int, error) {
	vars := mux.Vars(r)
	t, ok := animation.ParseType(vars["anim"])
	if !ok {
		return 0, 0, errors.Errorf("unknown animation %q", vars["anim"])
	}
	ticks, err := strconv.Atoi(vars["tick"])
	if err != nil || ticks > MaxTicks {
		return 0, 0, errors.Errorf("tick %q out of range [0, %d]", vars["tick"], MaxTicks)
	}
	return t, ticks, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	w.Write(data)
}

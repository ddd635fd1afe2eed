// Package experiment runs a renderer through a fixed number of frames and
// collects timings, stats and metrics.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/circlerender/internal/config"
	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/metrics"
	"github.com/san-kum/circlerender/internal/renderer"
	"github.com/san-kum/circlerender/internal/scene"
)

type Config struct {
	Scene      scene.Name
	Width      int
	Height     int
	Frames     int
	Backend    string
	Workers    int
	Compositor string
	TileSize   int
	Logger     *slog.Logger
}

// FromConfig converts a validated file/flag configuration.
func FromConfig(c *config.Config) Config {
	return Config{
		Scene:      c.SceneName(),
		Width:      c.Width,
		Height:     c.Height,
		Frames:     c.Frames,
		Backend:    c.Backend,
		Workers:    c.Workers,
		Compositor: c.Compositor,
		TileSize:   c.TileSize,
	}
}

type Result struct {
	Samples []metrics.Sample
	Metrics map[string]float64
	// Checksum is the hash of the final frame.
	Checksum uint64
	Final    *frame.View
}

// FrameTimes returns each frame's total time in milliseconds.
func (r *Result) FrameTimes() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Total()) / float64(time.Millisecond)
	}
	return out
}

type Experiment struct {
	cfg      Config
	renderer *renderer.CircleRenderer
	metrics  []metrics.Metric
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the renderer, loads the scene and allocates the image.
func (e *Experiment) Setup(ms []metrics.Metric) error {
	opts := []renderer.Option{
		renderer.WithBackend(e.cfg.Backend, e.cfg.Workers),
		renderer.WithTileSize(e.cfg.TileSize),
	}
	if e.cfg.Compositor != "" {
		opts = append(opts, renderer.WithCompositor(e.cfg.Compositor))
	}
	if e.cfg.Logger != nil {
		opts = append(opts, renderer.WithLogger(e.cfg.Logger))
	}

	r := renderer.New(opts...)
	if err := r.Setup(); err != nil {
		return err
	}
	if err := r.LoadScene(e.cfg.Scene); err != nil {
		r.Close()
		return err
	}
	if err := r.AllocOutputImage(e.cfg.Width, e.cfg.Height); err != nil {
		r.Close()
		return err
	}
	e.renderer = r
	e.metrics = ms
	return nil
}

// Step runs one clear/advance/render cycle.
func (e *Experiment) Step() (metrics.Sample, error) {
	r := e.renderer
	s := metrics.Sample{Frame: r.Frame() + 1, Background: e.cfg.Scene.Background()}

	t0 := time.Now()
	if err := r.ClearImage(); err != nil {
		return s, err
	}
	t1 := time.Now()
	if err := r.AdvanceAnimation(); err != nil {
		return s, err
	}
	t2 := time.Now()
	if err := r.Render(); err != nil {
		return s, err
	}
	t3 := time.Now()

	s.Clear, s.Advance, s.Render = t1.Sub(t0), t2.Sub(t1), t3.Sub(t2)
	s.Stats = r.Stats()
	v, err := r.GetImage()
	if err != nil {
		return s, err
	}
	s.Image = v
	metrics.ObserveAll(e.metrics, s)
	return s, nil
}

// Run renders the configured number of frames, stopping early if ctx is
// cancelled between frames. Returned samples do not keep their images.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.renderer == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	res := &Result{Samples: make([]metrics.Sample, 0, e.cfg.Frames)}
	var last *frame.View
	for i := 0; i < e.cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := e.Step()
		if err != nil {
			return nil, err
		}
		last = s.Image
		s.Image = nil
		res.Samples = append(res.Samples, s)
	}

	if last == nil {
		v, err := e.renderer.GetImage()
		if err != nil {
			return nil, err
		}
		last = v
	}
	res.Final = last.Clone()
	res.Checksum = res.Final.Checksum()
	res.Metrics = metrics.Collect(e.metrics)
	return res, nil
}

func (e *Experiment) Renderer() *renderer.CircleRenderer { return e.renderer }

func (e *Experiment) Close() {
	if e.renderer != nil {
		e.renderer.Close()
	}
}

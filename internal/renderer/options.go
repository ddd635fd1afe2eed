package renderer

import (
	"log/slog"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/render"
)

type options struct {
	backend    string
	workers    int
	compositor string
	tileSize   int
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		backend:    compute.KindCPU,
		compositor: render.KindTiled,
		tileSize:   render.DefaultTileSize,
	}
}

type Option func(*options)

// WithBackend selects the compute backend kind and worker count.
// workers <= 0 means one per CPU.
func WithBackend(kind string, workers int) Option {
	return func(o *options) {
		o.backend = kind
		o.workers = workers
	}
}

// WithCompositor selects "tiled" or "reference".
func WithCompositor(kind string) Option {
	return func(o *options) { o.compositor = kind }
}

func WithTileSize(size int) Option {
	return func(o *options) { o.tileSize = size }
}

// WithLogger overrides the package logger for one renderer.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Package metrics accumulates per-frame render measurements.
package metrics

import (
	"time"

	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/render"
	"github.com/san-kum/circlerender/internal/scene"
)

// Sample is what one frame of the clear/advance/render loop produced.
type Sample struct {
	Frame   int
	Clear   time.Duration
	Advance time.Duration
	Render  time.Duration
	Stats   render.Stats
	// Image and Background are optional; Coverage ignores samples without an
	// image.
	Image      *frame.View
	Background scene.Background
}

func (s Sample) Total() time.Duration { return s.Clear + s.Advance + s.Render }

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Standard returns a fresh set of the metrics recorded for every bench run.
func Standard() []Metric {
	return []Metric{
		NewFrameTime(),
		NewPeakFrameTime(),
		NewBlends(),
		NewOverdraw(),
		NewCoverage(),
	}
}

func ObserveAll(ms []Metric, s Sample) {
	for _, m := range ms {
		m.Observe(s)
	}
}

func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

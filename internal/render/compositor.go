// Package render composites scene circles into a frame.
//
// Circles are blended with the over operator in ascending circle index on
// every pixel. [Reference] does this the obvious way, one circle at a time.
// [Tiled] produces the same bits in parallel: it bins circles into screen
// tiles, keeping each tile's list ascending, and gives every tile to a single
// worker. No pixel is ever written by two tasks, so no locking is needed.
package render

import (
	"fmt"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/scene"
)

// Stats describes the work done by one Composite call.
type Stats struct {
	Circles      int
	Visible      int
	Tiles        int
	TilesTouched int
	// Pairs counts (tile, circle) overlaps. Reference reports one pair per
	// visible circle.
	Pairs  int
	Blends int64
}

type Compositor interface {
	Name() string
	// Composite blends every circle of sc into img, leaving pixels no
	// circle covers untouched.
	Composite(sc *scene.Scene, img *frame.Image) Stats
}

const (
	KindTiled     = "tiled"
	KindReference = "reference"

	DefaultTileSize = 32
)

// NewCompositor builds a compositor by kind. tileSize <= 0 selects
// DefaultTileSize; it is ignored by the reference compositor.
func NewCompositor(kind string, backend compute.Backend, tileSize int) (Compositor, error) {
	switch kind {
	case KindTiled, "":
		return NewTiled(backend, tileSize), nil
	case KindReference:
		return NewReference(), nil
	default:
		return nil, fmt.Errorf("unknown compositor: %s (available: %s, %s)", kind, KindTiled, KindReference)
	}
}

package render

import (
	"log/slog"
	"sync/atomic"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/scene"
)

// minBinChunk is the fewest circles one binning task handles.
const minBinChunk = 256

// Tiled is the pixel-parallel compositor.
//
// Binning runs over chunks of consecutive circles in two passes. The first
// counts, per chunk, how many circles overlap each tile. An exclusive scan in
// (tile, chunk) order turns the counts into write cursors, so within a
// tile's slice of the list chunk 0's circles precede chunk 1's, and so on.
// The second pass scatters circle indices through those cursors. Each tile's
// list is therefore ascending without any sort.
//
// Shading then dispatches tiles to workers. A tile's pixels are written only
// by the worker that owns the tile, walking its list in order.
//
// Scratch buffers are kept between frames; a Tiled must not be used from
// two goroutines at once.
type Tiled struct {
	backend  compute.Backend
	tileSize int
	log      atomic.Pointer[slog.Logger]

	boxes   []Box
	counts  []int32
	offsets []int32
	list    []int32
	visible []int32
	blends  []int64
}

func NewTiled(backend compute.Backend, tileSize int) *Tiled {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	t := &Tiled{backend: backend, tileSize: tileSize}
	t.log.Store(slog.New(slog.DiscardHandler))
	return t
}

func (t *Tiled) Name() string  { return KindTiled }
func (t *Tiled) TileSize() int { return t.tileSize }

func (t *Tiled) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	t.log.Store(l)
}

type tileGrid struct {
	size, cols, rows, w, h int
}

func (g tileGrid) count() int { return g.cols * g.rows }

func (g tileGrid) rect(tile int) Box {
	tx, ty := tile%g.cols, tile/g.cols
	return Box{
		MinX: tx * g.size,
		MinY: ty * g.size,
		MaxX: min((tx+1)*g.size, g.w),
		MaxY: min((ty+1)*g.size, g.h),
	}
}

// span returns the inclusive tile range a pixel box covers.
func (g tileGrid) span(b Box) (tx0, ty0, tx1, ty1 int) {
	return b.MinX / g.size, b.MinY / g.size, (b.MaxX - 1) / g.size, (b.MaxY - 1) / g.size
}

func (t *Tiled) Composite(sc *scene.Scene, img *frame.Image) Stats {
	n := sc.Len()
	st := Stats{Circles: n}
	if img.Empty() {
		return st
	}
	w, h := img.Width(), img.Height()
	grid := tileGrid{
		size: t.tileSize,
		cols: (w + t.tileSize - 1) / t.tileSize,
		rows: (h + t.tileSize - 1) / t.tileSize,
		w:    w,
		h:    h,
	}
	st.Tiles = grid.count()
	if n == 0 {
		return st
	}

	chunk := max((n+4*t.backend.Workers()-1)/(4*t.backend.Workers()), minBinChunk)
	chunks := (n + chunk - 1) / chunk

	pairs := t.bin(sc, grid, chunk, chunks)
	for _, v := range t.visible[:chunks] {
		st.Visible += int(v)
	}
	st.Pairs = pairs

	t.shadeTiles(sc, img, grid)
	for tile := 0; tile < grid.count(); tile++ {
		if t.offsets[tile+1] > t.offsets[tile] {
			st.TilesTouched++
		}
		st.Blends += t.blends[tile]
	}

	t.log.Load().Debug("composite",
		"circles", n, "visible", st.Visible, "tiles", st.Tiles,
		"pairs", st.Pairs, "blends", st.Blends)
	return st
}

// bin fills t.offsets and t.list and returns the number of pairs.
func (t *Tiled) bin(sc *scene.Scene, grid tileGrid, chunk, chunks int) int {
	n := sc.Len()
	tiles := grid.count()

	t.boxes = grow(t.boxes, n)
	t.counts = grow(t.counts, chunks*tiles)
	t.offsets = grow(t.offsets, tiles+1)
	t.visible = grow(t.visible, chunks)
	clear(t.counts)

	t.backend.Dispatch(chunks, func(c int) {
		counts := t.counts[c*tiles : (c+1)*tiles]
		start, end := c*chunk, min((c+1)*chunk, n)
		var visible int32
		for i := start; i < end; i++ {
			p := sc.Position[i]
			box, ok := BoundingBox(p[0], p[1], sc.Radius[i], grid.w, grid.h)
			t.boxes[i] = box
			if !ok {
				continue
			}
			visible++
			tx0, ty0, tx1, ty1 := grid.span(box)
			for ty := ty0; ty <= ty1; ty++ {
				for tx := tx0; tx <= tx1; tx++ {
					counts[ty*grid.cols+tx]++
				}
			}
		}
		t.visible[c] = visible
	})

	var running int32
	for tile := 0; tile < tiles; tile++ {
		t.offsets[tile] = running
		for c := 0; c < chunks; c++ {
			k := c*tiles + tile
			cnt := t.counts[k]
			t.counts[k] = running
			running += cnt
		}
	}
	t.offsets[tiles] = running

	t.list = grow(t.list, int(running))
	t.backend.Dispatch(chunks, func(c int) {
		cursor := t.counts[c*tiles : (c+1)*tiles]
		start, end := c*chunk, min((c+1)*chunk, n)
		for i := start; i < end; i++ {
			box := t.boxes[i]
			if box.Empty() {
				continue
			}
			tx0, ty0, tx1, ty1 := grid.span(box)
			for ty := ty0; ty <= ty1; ty++ {
				for tx := tx0; tx <= tx1; tx++ {
					k := ty*grid.cols + tx
					t.list[cursor[k]] = int32(i)
					cursor[k]++
				}
			}
		}
	})
	return int(running)
}

func (t *Tiled) shadeTiles(sc *scene.Scene, img *frame.Image, grid tileGrid) {
	tiles := grid.count()
	t.blends = grow(t.blends, tiles)
	invW, invH := 1/float32(grid.w), 1/float32(grid.h)
	mode := sc.Name.Shading()

	t.backend.Dispatch(tiles, func(tile int) {
		var blends int64
		rect := grid.rect(tile)
		for _, idx := range t.list[t.offsets[tile]:t.offsets[tile+1]] {
			i := int(idx)
			p := sc.Position[i]
			box := t.boxes[i].Intersect(rect)
			for y := box.MinY; y < box.MaxY; y++ {
				cy := pixelCenter(y, invH)
				row := img.Row(y)
				for x := box.MinX; x < box.MaxX; x++ {
					if shade(mode, sc, pixelCenter(x, invW), cy, p[0], p[1], p[2], &row[x], i) {
						blends++
					}
				}
			}
		}
		t.blends[tile] = blends
	})
}

// grow returns s resized to n, reallocating only when capacity is short.
func grow[T any](s []T, n int) []T {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]T, n)
}

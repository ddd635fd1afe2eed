package render

import (
	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/scene"
)

// Reference is the sequential painter: circle 0 over the whole image, then
// circle 1, and so on. It defines the correct output.
type Reference struct{}

func NewReference() *Reference { return &Reference{} }

func (*Reference) Name() string { return KindReference }

func (*Reference) Composite(sc *scene.Scene, img *frame.Image) Stats {
	st := Stats{Circles: sc.Len(), Tiles: 1}
	if img.Empty() {
		return st
	}
	w, h := img.Width(), img.Height()
	invW, invH := 1/float32(w), 1/float32(h)
	mode := sc.Name.Shading()

	for i := 0; i < sc.Len(); i++ {
		p := sc.Position[i]
		box, ok := BoundingBox(p[0], p[1], sc.Radius[i], w, h)
		if !ok {
			continue
		}
		st.Visible++
		for y := box.MinY; y < box.MaxY; y++ {
			cy := pixelCenter(y, invH)
			row := img.Row(y)
			for x := box.MinX; x < box.MaxX; x++ {
				if shade(mode, sc, pixelCenter(x, invW), cy, p[0], p[1], p[2], &row[x], i) {
					st.Blends++
				}
			}
		}
	}
	st.Pairs = st.Visible
	if st.Visible > 0 {
		st.TilesTouched = 1
	}
	return st
}

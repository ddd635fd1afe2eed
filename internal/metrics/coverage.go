package metrics

import "github.com/san-kum/circlerender/internal/frame"

// Coverage is the mean fraction of pixels that differ from the background.
type Coverage struct {
	name    string
	sum     float64
	samples int
}

func NewCoverage() *Coverage {
	return &Coverage{name: "coverage"}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(s Sample) {
	v := s.Image
	if v == nil || v.Width() == 0 || v.Height() == 0 {
		return
	}
	w, h := v.Width(), v.Height()
	covered := 0
	for y := 0; y < h; y++ {
		bg := frame.BackgroundPixel(s.Background, y, h)
		for x := 0; x < w; x++ {
			if v.Pixel(x, y) != bg {
				covered++
			}
		}
	}
	c.sum += float64(covered) / float64(w*h)
	c.samples++
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.sum = 0
	c.samples = 0
}

package viz

import (
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a monochrome braille grid of Width x Height cells, i.e.
// (2*Width) x (4*Height) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set raises the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Dither raises every dot whose sample of img, scaled to the dot grid, is
// darker than threshold in CIE L (0..1). img is sampled nearest-neighbour.
func (c *Canvas) Dither(img image.Image, threshold float64) {
	c.Clear()
	b := img.Bounds()
	if b.Empty() {
		return
	}
	dw, dh := c.Width*2, c.Height*4
	for y := 0; y < dh; y++ {
		sy := b.Min.Y + y*b.Dy()/dh
		for x := 0; x < dw; x++ {
			sx := b.Min.X + x*b.Dx()/dw
			col, ok := colorful.MakeColor(img.At(sx, sy))
			if !ok {
				continue
			}
			if l, _, _ := col.Lab(); l < threshold {
				c.Set(x, y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

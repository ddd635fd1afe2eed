// Package frame owns the float RGBA pixel buffer frames are composited into.
package frame

import (
	"errors"
	"fmt"

	"github.com/san-kum/circlerender/internal/scene"
)

// ErrInvalidDimensions indicates a non-positive width or height.
var ErrInvalidDimensions = errors.New("frame: invalid image dimensions")

// Pixel is one RGBA cell, channels normalized to [0, 1].
type Pixel [4]float32

var White = Pixel{1, 1, 1, 1}

// Image is a row-major grid of pixels. Row 0 is the bottom of the scene
// (scene y = 0); pixel (x, y) covers scene square [x/w, (x+1)/w) × [y/h, (y+1)/h).
type Image struct {
	width, height int
	pix           []Pixel
}

func New(width, height int) (*Image, error) {
	img := &Image{}
	if err := img.Realloc(width, height); err != nil {
		return nil, err
	}
	return img, nil
}

// Realloc resizes the buffer, reusing its backing array when large enough.
// Contents are undefined afterwards; call Clear.
func (img *Image) Realloc(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	n := width * height
	if cap(img.pix) >= n {
		img.pix = img.pix[:n]
	} else {
		img.pix = make([]Pixel, n)
	}
	img.width, img.height = width, height
	return nil
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Empty reports whether the image has no pixels.
func (img *Image) Empty() bool { return img == nil || len(img.pix) == 0 }

// At returns the mutable pixel at (x, y). It panics outside the image.
func (img *Image) At(x, y int) *Pixel {
	return &img.pix[y*img.width+x]
}

// Row returns row y as a slice aliasing the buffer.
func (img *Image) Row(y int) []Pixel {
	start := y * img.width
	return img.pix[start : start+img.width]
}

// BackgroundPixel is the clear colour of row y in an image of height h.
func BackgroundPixel(bg scene.Background, y, h int) Pixel {
	if bg == scene.BackgroundGradient {
		shade := 0.4 + 0.45*float32(h-y)/float32(h)
		return Pixel{shade, shade, shade, 1}
	}
	return White
}

// ClearRows resets rows [start, end) to the background. Disjoint row ranges
// may be cleared concurrently.
func (img *Image) ClearRows(bg scene.Background, start, end int) {
	for y := start; y < end; y++ {
		p := BackgroundPixel(bg, y, img.height)
		row := img.Row(y)
		for x := range row {
			row[x] = p
		}
	}
}

func (img *Image) Clear(bg scene.Background) {
	img.ClearRows(bg, 0, img.height)
}

func (img *Image) Clone() *Image {
	c := &Image{width: img.width, height: img.height, pix: make([]Pixel, len(img.pix))}
	copy(c.pix, img.pix)
	return c
}

// View returns a read-only handle on the current contents. The view aliases
// the buffer and is only valid until the next mutating call.
func (img *Image) View() *View {
	return &View{img: img}
}

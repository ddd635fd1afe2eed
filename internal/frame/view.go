package frame

import (
	"encoding/binary"
	"hash/fnv"
	"image"
	"image/color"
	"math"
)

// View exposes an Image to consumers without mutating access. It satisfies
// image.Image with the conventional top-down orientation, so row 0 of the
// image.Image is the top row of the scene.
type View struct {
	img *Image
}

func (v *View) Width() int  { return v.img.width }
func (v *View) Height() int { return v.img.height }

// Pixel returns the float value at buffer coordinates (x, y), row 0 at the
// bottom.
func (v *View) Pixel(x, y int) Pixel {
	return v.img.pix[y*v.img.width+x]
}

// Pixels copies the buffer in row-major order.
func (v *View) Pixels() []Pixel {
	out := make([]Pixel, len(v.img.pix))
	copy(out, v.img.pix)
	return out
}

// Clone detaches the view from the renderer's buffer.
func (v *View) Clone() *View {
	return &View{img: v.img.Clone()}
}

// Equal reports bit-for-bit equality.
func (v *View) Equal(o *View) bool {
	if v.img.width != o.img.width || v.img.height != o.img.height {
		return false
	}
	for i, p := range v.img.pix {
		q := o.img.pix[i]
		for c := 0; c < 4; c++ {
			if math.Float32bits(p[c]) != math.Float32bits(q[c]) {
				return false
			}
		}
	}
	return true
}

// Diff counts pixels that differ between two equally sized views and the
// largest per-channel difference.
func (v *View) Diff(o *View) (count int, maxDelta float32) {
	for i, p := range v.img.pix {
		differs := false
		for c := 0; c < 4; c++ {
			d := p[c] - o.img.pix[i][c]
			if d < 0 {
				d = -d
			}
			if d > 0 {
				differs = true
			}
			if d > maxDelta {
				maxDelta = d
			}
		}
		if differs {
			count++
		}
	}
	return count, maxDelta
}

// Checksum hashes the raw float bits of every channel.
func (v *View) Checksum() uint64 {
	h := fnv.New64a()
	var buf [16]byte
	for _, p := range v.img.pix {
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint32(buf[c*4:], math.Float32bits(p[c]))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

func (v *View) ColorModel() color.Model { return color.NRGBA64Model }

func (v *View) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.img.width, v.img.height)
}

func (v *View) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= v.img.width || y >= v.img.height {
		return color.NRGBA64{}
	}
	p := v.img.pix[(v.img.height-1-y)*v.img.width+x]
	return color.NRGBA64{R: unit16(p[0]), G: unit16(p[1]), B: unit16(p[2]), A: unit16(p[3])}
}

func unit16(f float32) uint16 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 0xffff
	}
	return uint16(f*0xffff + 0.5)
}

package render

import "math"

// Box is a half-open pixel rectangle [MinX, MaxX) × [MinY, MaxY).
type Box struct {
	MinX, MinY, MaxX, MaxY int
}

func (b Box) Empty() bool { return b.MinX >= b.MaxX || b.MinY >= b.MaxY }

func (b Box) Intersect(o Box) Box {
	return Box{
		MinX: max(b.MinX, o.MinX),
		MinY: max(b.MinY, o.MinY),
		MaxX: min(b.MaxX, o.MaxX),
		MaxY: min(b.MaxY, o.MaxY),
	}
}

// BoundingBox returns the pixels a circle at (px, py) with radius rad may
// touch in a w×h image, clamped to the image. The box is conservative: it
// contains every pixel whose centre lies inside the circle. ok is false
// when the circle cannot touch any pixel.
func BoundingBox(px, py, rad float32, w, h int) (box Box, ok bool) {
	if !(rad > 0) || math.IsNaN(float64(px)) || math.IsNaN(float64(py)) {
		return Box{}, false
	}
	box = Box{
		MinX: toPixel(float32(w)*(px-rad), w),
		MaxX: toPixel(float32(w)*(px+rad), w) + 1,
		MinY: toPixel(float32(h)*(py-rad), h),
		MaxY: toPixel(float32(h)*(py+rad), h) + 1,
	}
	box = box.Intersect(Box{0, 0, w, h})
	return box, !box.Empty()
}

// toPixel truncates v after clamping it to [-1, limit+1], keeping the
// float-to-int conversion in range.
func toPixel(v float32, limit int) int {
	if v < -1 {
		return -1
	}
	if v > float32(limit+1) {
		return limit + 1
	}
	return int(v)
}

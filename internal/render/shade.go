package render

import (
	"math"

	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/scene"
)

const (
	snowMaxAlpha = 0.5
	snowFalloff  = 4.0
)

// colorRamp maps normalized distance from a snowflake's centre to its tint.
var colorRamp = [...][3]float32{
	{1, 1, 1},
	{1, 1, 1},
	{0.8, 0.9, 1},
	{0.8, 0.9, 1},
	{0.8, 0.8, 1},
}

func lookupColor(t float32) (float32, float32, float32) {
	last := len(colorRamp) - 1
	scaled := t * float32(last)
	lo := int(scaled)
	if lo > last {
		lo = last
	}
	hi := lo + 1
	if hi > last {
		hi = last
	}
	w := scaled - float32(lo)
	a, b := colorRamp[lo], colorRamp[hi]
	return a[0] + w*(b[0]-a[0]), a[1] + w*(b[1]-a[1]), a[2] + w*(b[2]-a[2])
}

// ShadePixel blends circle circleIndex into pixel if the pixel centre
// (pixelCenterX, pixelCenterY) lies within the circle's radius of its centre
// (px, py). pz is the circle's depth. It reports whether a blend happened.
//
// ShadePixel reads only its arguments and writes only *pixel, so it may run
// concurrently on distinct pixels. Callers own the order in which circles
// reach a given pixel.
func ShadePixel(sc *scene.Scene, pixelCenterX, pixelCenterY, px, py, pz float32, pixel *frame.Pixel, circleIndex int) bool {
	return shade(sc.Name.Shading(), sc, pixelCenterX, pixelCenterY, px, py, pz, pixel, circleIndex)
}

func shade(mode scene.Shading, sc *scene.Scene, cx, cy, px, py, pz float32, pixel *frame.Pixel, i int) bool {
	rad := sc.Radius[i]
	if rad <= 0 {
		return false
	}
	dx := px - cx
	dy := py - cy
	dist2 := dx*dx + dy*dy
	if dist2 > rad*rad {
		return false
	}

	var r, g, b, alpha float32
	if mode == scene.ShadeSnow {
		norm := float32(math.Sqrt(float64(dist2))) / rad
		r, g, b = lookupColor(norm)
		maxAlpha := snowMaxAlpha * clamp01(0.6+0.4*(1-pz))
		alpha = maxAlpha * float32(math.Exp(float64(-snowFalloff*norm*norm)))
	} else {
		c := sc.Color[i]
		r, g, b, alpha = c[0], c[1], c[2], c[3]
	}

	// The explicit conversions round each product, which stops the compiler
	// from fusing a multiply-add differently at different call sites.
	inv := 1 - alpha
	pixel[0] = float32(alpha*r) + float32(inv*pixel[0])
	pixel[1] = float32(alpha*g) + float32(inv*pixel[1])
	pixel[2] = float32(alpha*b) + float32(inv*pixel[2])
	pixel[3] = alpha + float32(inv*pixel[3])
	return true
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// pixelCenter maps pixel index x to its centre in normalized coordinates.
// Every compositor goes through it so their arithmetic is identical.
func pixelCenter(x int, inv float32) float32 {
	return (float32(x) + 0.5) * inv
}

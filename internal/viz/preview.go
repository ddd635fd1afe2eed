package viz

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Scale resamples src to w x h with approximate bilinear filtering.
func Scale(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// HalfBlocks renders img as cols x rows terminal cells. Each cell is an
// upper half block whose foreground is the upper sample and whose
// background is the lower one, so the image is sampled at cols x 2*rows.
func HalfBlocks(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 || img.Bounds().Empty() {
		return ""
	}
	scaled := Scale(img, cols, rows*2)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := hexAt(scaled, col, 2*row)
			bottom := hexAt(scaled, col, 2*row+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hexAt(img *image.NRGBA, x, y int) string {
	c, ok := colorful.MakeColor(img.NRGBAAt(x, y))
	if !ok {
		return "#000000"
	}
	return c.Clamped().Hex()
}

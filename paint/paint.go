package paint

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Target is a buffer that can be painted.
type Target interface {
	Bounds() image.Rectangle
	Image() draw.Image
}

// Filler is implemented by targets that can set every pixel to a
// single color faster than drawing would.
type Filler interface {
	Fill(c color.Color)
}

// Paint replaces the whole of dst with src.
func Paint(dst Target, src Source) {
	if s, ok := src.(Solid); ok {
		if f, ok := dst.(Filler); ok {
			f.Fill(s.Color)
			return
		}
	}

	b := dst.Bounds()
	draw.Draw(dst.Image(), b, src.Rasterize(b.Dx(), b.Dy()), image.Point{}, draw.Src)
}

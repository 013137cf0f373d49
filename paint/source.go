package paint

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Source is something that can be painted into a buffer.
type Source interface {
	// Rasterize returns an image covering at least the rectangle from
	// (0, 0) to (width, height).
	Rasterize(width, height int) image.Image
}

// Solid is a single color.
type Solid struct {
	Color color.Color
}

func (s Solid) Rasterize(width, height int) image.Image {
	return image.NewUniform(s.Color)
}

// Picture is an image fitted to the output according to Mode. Areas
// that the image doesn't cover are painted with Background. An empty
// image covers nothing.
type Picture struct {
	Image      image.Image
	Mode       Mode
	Background color.Color

	cache map[image.Point]*image.RGBA
}

// Rasterize scales the picture to the given size. Results are cached
// per size, as every output of the same size gets the same pixels.
func (p *Picture) Rasterize(width, height int) image.Image {
	size := image.Pt(width, height)
	if img, ok := p.cache[size]; ok {
		return img
	}

	dst := image.NewRGBA(image.Rectangle{Max: size})
	bg := p.Background
	if bg == nil {
		bg = Black
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	sb := p.Image.Bounds()
	if sb.Empty() {
		p.store(size, dst)
		return dst
	}

	switch p.Mode {
	case Stretch:
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), p.Image, sb, draw.Over, nil)

	case Fill, Fit:
		sx := float64(width) / float64(sb.Dx())
		sy := float64(height) / float64(sb.Dy())
		scale := math.Max(sx, sy)
		if p.Mode == Fit {
			scale = math.Min(sx, sy)
		}
		w := int(math.Round(float64(sb.Dx()) * scale))
		h := int(math.Round(float64(sb.Dy()) * scale))
		draw.ApproxBiLinear.Scale(dst, centered(size, image.Pt(w, h)), p.Image, sb, draw.Over, nil)

	case Center:
		draw.Draw(dst, centered(size, sb.Size()), p.Image, sb.Min, draw.Over)

	case Tile:
		for y := 0; y < height; y += sb.Dy() {
			for x := 0; x < width; x += sb.Dx() {
				draw.Draw(dst, sb.Sub(sb.Min).Add(image.Pt(x, y)), p.Image, sb.Min, draw.Over)
			}
		}
	}

	p.store(size, dst)
	return dst
}

func (p *Picture) store(size image.Point, img *image.RGBA) {
	if p.cache == nil {
		p.cache = make(map[image.Point]*image.RGBA)
	}
	p.cache[size] = img
}

func centered(outer, inner image.Point) image.Rectangle {
	origin := outer.Sub(inner).Div(2)
	return image.Rectangle{Min: origin, Max: origin.Add(inner)}
}

// Package paint produces the pixels that end up in a wallpaper buffer.
package paint

import (
	"fmt"
	"image/color"
	"strconv"
)

// Black is the color used when no valid color was given.
var Black = color.RGBA64{A: 0xFFFF}

// ParseColor parses a color of the form #RRGGBB. Each 8-bit channel is
// widened to 16 bits by repeating it, so ff becomes ffff. The result
// is always fully opaque.
func ParseColor(s string) (color.RGBA64, error) {
	if (len(s) != 7) || (s[0] != '#') {
		return Black, fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}

	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Black, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return color.RGBA64{
		R: uint16((v>>16)&0xFF) * 0x0101,
		G: uint16((v>>8)&0xFF) * 0x0101,
		B: uint16(v&0xFF) * 0x0101,
		A: 0xFFFF,
	}, nil
}

package paint

import "fmt"

// Mode is the way an image is fitted to an output.
type Mode int

const (
	// Fill scales the image to cover the whole output, cropping
	// whatever doesn't fit.
	Fill Mode = iota
	// Fit scales the image to fit inside the output, leaving bars of
	// the background color.
	Fit
	// Stretch scales the image to exactly the output's size, ignoring
	// its aspect ratio.
	Stretch
	// Center draws the image unscaled in the middle of the output.
	Center
	// Tile repeats the image unscaled from the top-left corner.
	Tile
)

var modeNames = [...]string{
	Fill:    "fill",
	Fit:     "fit",
	Stretch: "stretch",
	Center:  "center",
	Tile:    "tile",
}

func (m Mode) String() string {
	if (m < 0) || (int(m) >= len(modeNames)) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return Fill, fmt.Errorf("unknown scaling mode %q", s)
}

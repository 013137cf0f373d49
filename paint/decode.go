package paint

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads the image at path. The format is detected from the
// file's contents. An image with no pixels is an error.
func Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image %v is empty", path)
	}
	return img, nil
}

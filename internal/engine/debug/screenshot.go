package debug

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/fauxgl"
)

// DepthImage converts a size x size depth buffer in [0,1] to a grayscale
// image, near as dark. Row 0 of the buffer is the top of the image.
func DepthImage(depth []float32, size int) (*image.Gray, error) {
	if len(depth) != size*size {
		return nil, fmt.Errorf("depth data size mismatch: expected %d, got %d", size*size, len(depth))
	}

	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := depth[y*size+x]
			if d < 0 {
				d = 0
			} else if d > 1 {
				d = 1
			}
			img.SetGray(x, y, color.Gray{Y: uint8(d*255 + 0.5)})
		}
	}
	return img, nil
}

// SaveDepthPNG writes a depth buffer as a grayscale PNG, creating the
// parent directory when needed.
func SaveDepthPNG(path string, depth []float32, size int) error {
	img, err := DepthImage(depth, size)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	if err := fauxgl.SavePNG(path, img); err != nil {
		return fmt.Errorf("writing PNG: %w", err)
	}
	return nil
}

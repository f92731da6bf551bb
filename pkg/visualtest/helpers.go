package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// LoadPNG decodes a PNG file.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG writes img to path, creating the directory when needed.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CompareFile compares actual against the reference PNG at path. When
// the images differ and diffPath is set, the diff image is written there.
func CompareFile(actual image.Image, path, diffPath string, opts CompareOptions) (*CompareResult, error) {
	expected, err := LoadPNG(path)
	if err != nil {
		return nil, err
	}
	result, err := Compare(actual, expected, opts)
	if err != nil {
		return result, err
	}
	if result.Diff != nil && diffPath != "" {
		if err := SavePNG(result.Diff, diffPath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	return result, nil
}

// RegionColor returns the most common color in r, ignoring pixels of
// the background color bg. ok is false when every pixel is background.
func RegionColor(img image.Image, r image.Rectangle, bg color.Color) (c color.RGBA, ok bool) {
	counts := map[color.RGBA]int{}
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			px := img.At(x, y)
			if channelDiff(px, bg) == 0 {
				continue
			}
			counts[color.RGBAModel.Convert(px).(color.RGBA)]++
		}
	}
	best := 0
	for col, n := range counts {
		if n > best || (n == best && less(col, c)) {
			c, best = col, n
		}
	}
	return c, best > 0
}

func less(a, b color.RGBA) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	if a.G != b.G {
		return a.G < b.G
	}
	if a.B != b.B {
		return a.B < b.B
	}
	return a.A < b.A
}

// Package inputs provides the frames and pictures fed to a shader preset:
// still images, LUT images and decoded video.
package inputs

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes any registered format into RGBA with its origin at
// (0, 0).
func DecodeImage(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return ToRGBA(img), format, nil
}

// LoadImage reads and decodes the image at path.
func LoadImage(fs afero.Fs, path string) (*image.RGBA, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// ToRGBA converts img to RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// VFlip returns src mirrored vertically. GL textures store the bottom row
// first, images the top row.
func VFlip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[src.PixOffset(bounds.Min.X, bounds.Max.Y-1-y):]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c [4]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], c[:])
	}
	return img
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// IsImagePath reports whether path names a still image format this package
// decodes. Anything else is treated as video.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ColorBars returns seven vertical bars of 75% white, yellow, cyan, green,
// magenta, red and blue, used when no input is given.
func ColorBars(w, h int) *image.RGBA {
	bars := [7][4]uint8{
		{191, 191, 191, 255},
		{191, 191, 0, 255},
		{0, 191, 191, 255},
		{0, 191, 0, 255},
		{191, 0, 191, 255},
		{191, 0, 0, 255},
		{0, 0, 191, 255},
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		c := bars[x*len(bars)/w]
		for y := 0; y < h; y++ {
			copy(img.Pix[img.PixOffset(x, y):], c[:])
		}
	}
	return img
}

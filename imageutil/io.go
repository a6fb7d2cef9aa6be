package imageutil

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF, BMP, TIFF, and WebP formats.
func LoadImage(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode decodes an image in any registered format into a Raster.
func Decode(rd io.Reader) (*Raster, error) {
	img, _, err := image.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return RasterFromImage(img), nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Encode writes img to w in the format named by ext: ".jpg", ".jpeg" or
// ".gif". Any other extension encodes PNG.
func Encode(w io.Writer, img image.Image, ext string) error {
	var err error
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".gif":
		err = gif.Encode(w, img, nil)
	default:
		return EncodePNG(w, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ext, err)
	}
	return nil
}

// SaveImage writes img to path in the format chosen by its extension.
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Encode(f, img, filepath.Ext(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

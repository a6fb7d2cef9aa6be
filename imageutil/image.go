// Package imageutil provides the pixel container and image plumbing used by
// the paint-by-numbers pipeline: a flat RGBA raster, decoding and PNG
// export, resampling, and convolution filters.
package imageutil

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrInvalidArgument is returned when an operation receives a nil raster,
// negative dimensions, or a buffer whose length does not match them.
var ErrInvalidArgument = errors.New("invalid argument")

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Raster is a width x height image stored as a flat, row-major buffer of
// non-premultiplied RGBA bytes with a top-left origin. len(Pix) is always
// Width*Height*4.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster allocates a fully transparent raster.
func NewRaster(width, height int) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: raster dimensions %dx%d",
			ErrInvalidArgument, width, height)
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// RasterFromPix wraps an existing RGBA buffer without copying it.
func RasterFromPix(width, height int, pix []uint8) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: raster dimensions %dx%d",
			ErrInvalidArgument, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: buffer length %d, want %d",
			ErrInvalidArgument, len(pix), width*height*4)
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// RasterFromImage converts any image.Image to a Raster, translating its
// bounds so the result starts at (0, 0).
func RasterFromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := &Raster{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]uint8, b.Dx()*b.Dy()*4),
	}
	if src, ok := img.(*image.NRGBA); ok && src.Stride == 4*b.Dx() {
		copy(r.Pix, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):])
		return r
	}
	draw.Draw(r.NRGBA(), r.Bounds(), img, b.Min, draw.Src)
	return r
}

// Bounds returns the raster rectangle.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// NRGBA returns an image.NRGBA view that shares the raster's buffer.
func (r *Raster) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   r.Bounds(),
	}
}

// Offset returns the index of the red byte of pixel (x, y).
func (r *Raster) Offset(x, y int) int {
	return (y*r.Width + x) * 4
}

// GetRGB returns the color at (x, y).
func (r *Raster) GetRGB(x, y int) RGB {
	i := r.Offset(x, y)
	return RGB{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2]}
}

// SetRGB sets the color at (x, y) and leaves alpha untouched.
func (r *Raster) SetRGB(x, y int, c RGB) {
	i := r.Offset(x, y)
	r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c.R, c.G, c.B
}

// Alpha returns the alpha channel at (x, y).
func (r *Raster) Alpha(x, y int) uint8 {
	return r.Pix[r.Offset(x, y)+3]
}

// SetAlpha sets the alpha channel at (x, y).
func (r *Raster) SetAlpha(x, y int, a uint8) {
	r.Pix[r.Offset(x, y)+3] = a
}

// Clone creates a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	clone := &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    make([]uint8, len(r.Pix)),
	}
	copy(clone.Pix, r.Pix)
	return clone
}

// Valid reports whether the buffer length matches the dimensions.
func (r *Raster) Valid() bool {
	return r != nil && r.Width >= 0 && r.Height >= 0 &&
		len(r.Pix) == r.Width*r.Height*4
}

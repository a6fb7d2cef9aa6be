package imageutil

import (
	"math"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Keeps hard block edges intact.
	InterpolationNearest
)

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resamples a raster to the specified dimensions. Alpha is
// resampled along with color.
func Resize(r *Raster, width, height int, interp Interpolation) *Raster {
	dst := &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
	interp.scaler().Scale(dst.NRGBA(), dst.Bounds(),
		r.NRGBA(), r.Bounds(), draw.Src, nil)
	return dst
}

// ResizeToWidth resizes a raster to the specified width while maintaining
// aspect ratio. The height never drops below one pixel.
func ResizeToWidth(r *Raster, width int, interp Interpolation) *Raster {
	if r.Width == 0 {
		return r.Clone()
	}
	aspectRatio := float64(r.Width) / float64(r.Height)
	height := max(1, int(math.Round(float64(width)/aspectRatio)))
	return Resize(r, width, height, interp)
}

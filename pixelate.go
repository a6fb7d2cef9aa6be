package img2paint

import (
	"fmt"

	"github.com/wbrown/img2paint/imageutil"
)

// Pixelate partitions the raster into blockSize x blockSize blocks
// starting at the top-left corner and returns a new raster of the same
// size in which each block is filled with its mean color. Blocks on the
// right and bottom edges are clipped to the raster. Every pixel of a block
// takes the alpha of the block's top-left pixel. The source raster is
// left unchanged.
func Pixelate(r *imageutil.Raster, blockSize int) (*imageutil.Raster, error) {
	return pixelate(r, blockSize, 1)
}

func pixelate(r *imageutil.Raster, blockSize, workers int) (*imageutil.Raster, error) {
	if err := checkRaster(r); err != nil {
		return nil, err
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidArgument, blockSize)
	}

	dst := r.Clone()
	blockRows := (r.Height + blockSize - 1) / blockSize
	parallelRanges(blockRows, workers, func(lo, hi int) {
		for by := lo; by < hi; by++ {
			y0 := by * blockSize
			y1 := min(y0+blockSize, r.Height)
			for x0 := 0; x0 < r.Width; x0 += blockSize {
				x1 := min(x0+blockSize, r.Width)
				fillBlock(r, dst, x0, y0, x1, y1)
			}
		}
	})
	return dst, nil
}

// fillBlock writes the mean color of src's [x0,x1)x[y0,y1) rectangle into
// the same rectangle of dst, with the anchor pixel's alpha.
func fillBlock(src, dst *imageutil.Raster, x0, y0, x1, y1 int) {
	var m meanColor
	for y := y0; y < y1; y++ {
		for i := src.Offset(x0, y); i < src.Offset(x1, y); i += 4 {
			m.add(src.Pix[i : i+3])
		}
	}
	c := m.rounded()
	alpha := src.Alpha(x0, y0)
	for y := y0; y < y1; y++ {
		for i := dst.Offset(x0, y); i < dst.Offset(x1, y); i += 4 {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = c.R, c.G, c.B, alpha
		}
	}
}

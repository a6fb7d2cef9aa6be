package img2paint

import (
	"fmt"
	"sync"

	"github.com/wbrown/img2paint/imageutil"
)

// Quantize replaces the color of every pixel with the color of its
// nearest palette entry, in place. Alpha is untouched. The raster is not
// modified when an error is returned.
func Quantize(r *imageutil.Raster, p Palette) error {
	return quantize(r, p, 1)
}

func quantize(r *imageutil.Raster, p Palette, workers int) error {
	if err := checkRaster(r); err != nil {
		return err
	}
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	parallelRanges(r.Height, workers, func(y0, y1 int) {
		for i := r.Offset(0, y0); i < r.Offset(0, y1); i += 4 {
			pix := r.Pix[i : i+3 : i+3]
			c := p[nearestIndex(float64(pix[0]), float64(pix[1]),
				float64(pix[2]), p)].Color
			pix[0], pix[1], pix[2] = c.R, c.G, c.B
		}
	})
	return nil
}

// parallelRanges splits [0, n) into at most workers contiguous ranges and
// runs fn on each, returning once all of them finish.
func parallelRanges(n, workers int, fn func(lo, hi int)) {
	if workers <= 1 || n <= 1 {
		fn(0, n)
		return
	}
	workers = min(workers, n)
	step := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += step {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, min(lo+step, n))
	}
	wg.Wait()
}

func checkRaster(r *imageutil.Raster) error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidArgument)
	}
	if !r.Valid() {
		return fmt.Errorf("%w: raster %dx%d with %d bytes",
			ErrInvalidArgument, r.Width, r.Height, len(r.Pix))
	}
	return nil
}

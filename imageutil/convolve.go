package imageutil

import "math"

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// SharpeningKernel returns a mild sharpening kernel.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// GaussianKernel5x5 returns a 5x5 Gaussian blur kernel.
func GaussianKernel5x5() *Kernel {
	k := [][]float64{
		{1, 4, 6, 4, 1},
		{4, 16, 24, 16, 4},
		{6, 24, 36, 24, 6},
		{4, 16, 24, 16, 4},
		{1, 4, 6, 4, 1},
	}
	for y := range k {
		for x := range k[y] {
			k[y][x] /= 256
		}
	}
	return NewKernel(k)
}

// Convolve applies a convolution kernel to the color channels of a raster
// and returns the result as a new raster. Alpha is copied unchanged.
// Border pixels are handled by replicating edge values.
func Convolve(r *Raster, kernel *Kernel) *Raster {
	width, height := r.Width, r.Height
	dst := &Raster{Width: width, Height: height, Pix: make([]uint8, len(r.Pix))}

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)

					i := r.Offset(sx, sy)
					k := kernel.Values[ky][kx]

					sumR += float64(r.Pix[i]) * k
					sumG += float64(r.Pix[i+1]) * k
					sumB += float64(r.Pix[i+2]) * k
				}
			}

			i := dst.Offset(x, y)
			dst.Pix[i] = clampUint8(sumR)
			dst.Pix[i+1] = clampUint8(sumG)
			dst.Pix[i+2] = clampUint8(sumB)
			dst.Pix[i+3] = r.Pix[i+3]
		}
	}

	return dst
}

// Sharpen applies a mild sharpening filter.
func Sharpen(r *Raster) *Raster {
	return Convolve(r, SharpeningKernel())
}

// GaussianBlur applies a 5x5 Gaussian blur, which smooths out noise and
// fine texture before quantization.
func GaussianBlur(r *Raster) *Raster {
	return Convolve(r, GaussianKernel5x5())
}

// clampInt clamps an integer to the given range.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

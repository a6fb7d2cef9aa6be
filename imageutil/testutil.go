package imageutil

// CreateGradientImage creates an opaque horizontal gray gradient.
func CreateGradientImage(width, height int) *Raster {
	r, _ := NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if width > 1 {
				v = uint8(255 * x / (width - 1))
			}
			r.SetRGB(x, y, RGB{R: v, G: v, B: v})
			r.SetAlpha(x, y, 255)
		}
	}
	return r
}

// CreateCheckerboardImage creates an opaque black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *Raster {
	r, _ := NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				r.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
			}
			r.SetAlpha(x, y, 255)
		}
	}
	return r
}

// CreateSolidImage creates a solid color image with the given alpha.
func CreateSolidImage(width, height int, c RGB, alpha uint8) *Raster {
	r, _ := NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.SetRGB(x, y, c)
			r.SetAlpha(x, y, alpha)
		}
	}
	return r
}

// ColorBars are the colors used by CreateColorBarsImage, left to right.
var ColorBars = []RGB{
	{255, 255, 255}, // White
	{255, 255, 0},   // Yellow
	{0, 255, 255},   // Cyan
	{0, 255, 0},     // Green
	{255, 0, 255},   // Magenta
	{255, 0, 0},     // Red
	{0, 0, 255},     // Blue
	{0, 0, 0},       // Black
}

// CreateColorBarsImage creates an opaque color bars test pattern.
func CreateColorBarsImage(width, height int) *Raster {
	r, _ := NewRaster(width, height)
	barWidth := max(1, width/len(ColorBars))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(ColorBars)-1)
			r.SetRGB(x, y, ColorBars[colorIdx])
			r.SetAlpha(x, y, 255)
		}
	}
	return r
}

// CalculateMaxDiff calculates the maximum channel difference, alpha
// included, between two rasters. Mismatched sizes return 256.
func CalculateMaxDiff(r1, r2 *Raster) int {
	if r1.Width != r2.Width || r1.Height != r2.Height {
		return 256
	}
	maxDiff := 0
	for i := range r1.Pix {
		d := int(r1.Pix[i]) - int(r2.Pix[i])
		if d < 0 {
			d = -d
		}
		maxDiff = max(maxDiff, d)
	}
	return maxDiff
}

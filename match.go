package img2paint

import "math"

// Nearest returns the palette entry closest to c by Euclidean RGB
// distance. Entries are scanned in order and only a strictly smaller
// distance replaces the current best, so the first of several equally
// close entries wins.
func Nearest(c Color, p Palette) (PaletteEntry, error) {
	if len(p) == 0 {
		return PaletteEntry{}, ErrEmptyPalette
	}
	return p[nearestIndex(float64(c.R), float64(c.G), float64(c.B), p)], nil
}

// nearestIndex is Nearest for fractional colors such as cell averages.
// p must not be empty.
func nearestIndex(r, g, b float64, p Palette) int {
	best := 0
	minDistance := math.Inf(1)
	for i, e := range p {
		dr := float64(e.Color.R) - r
		dg := float64(e.Color.G) - g
		db := float64(e.Color.B) - b
		distance := math.Sqrt(dr*dr + dg*dg + db*db)
		if distance < minDistance {
			minDistance = distance
			best = i
		}
	}
	return best
}

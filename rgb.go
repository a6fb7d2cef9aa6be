package img2paint

import (
	"fmt"
	"math"

	"github.com/wbrown/img2paint/imageutil"
)

// Color represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255.
type Color struct {
	R, G, B uint8
}

// String renders the color in the textual form accepted by ParseColor.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func (c Color) rgb() imageutil.RGB {
	return imageutil.RGB(c)
}

// Distance calculates the Euclidean distance between two colors in the RGB
// color space.
func Distance(a, b Color) float64 {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return math.Sqrt(float64(dr*dr + dg*dg + db*db))
}

// meanColor accumulates channel sums so averages can be matched without
// rounding first.
type meanColor struct {
	r, g, b float64
	n       int
}

func (m *meanColor) add(pix []uint8) {
	m.r += float64(pix[0])
	m.g += float64(pix[1])
	m.b += float64(pix[2])
	m.n++
}

// average returns the float channel means. An empty accumulator averages
// to black.
func (m meanColor) average() (r, g, b float64) {
	if m.n == 0 {
		return 0, 0, 0
	}
	n := float64(m.n)
	return m.r / n, m.g / n, m.b / n
}

// rounded rounds the means half to even and clamps them to [0, 255].
func (m meanColor) rounded() Color {
	r, g, b := m.average()
	return Color{clampByte(r), clampByte(g), clampByte(b)}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}

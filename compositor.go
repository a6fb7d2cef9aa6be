package img2paint

import (
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/wbrown/img2paint/imageutil"
)

// LabelScale is the label glyph size relative to the shorter cell side.
const LabelScale = 0.4

// LabelFont renders cell labels from a TrueType font. Faces are built
// lazily for each pixel size and reused.
type LabelFont struct {
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewLabelFont parses a TrueType font for label rendering.
func NewLabelFont(ttf []byte) (*LabelFont, error) {
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &LabelFont{font: f, faces: make(map[float64]font.Face)}, nil
}

var (
	defaultFontOnce sync.Once
	defaultFont     *LabelFont
)

// DefaultLabelFont returns the embedded Go Regular font.
func DefaultLabelFont() *LabelFont {
	defaultFontOnce.Do(func() {
		f, err := NewLabelFont(goregular.TTF)
		if err != nil {
			panic(err)
		}
		defaultFont = f
	})
	return defaultFont
}

// face returns a face whose em size is size pixels.
func (lf *LabelFont) face(size float64) font.Face {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	if f, ok := lf.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(lf.font, &truetype.Options{
		Size:    size,
		DPI:     72, // 1pt == 1px
		Hinting: font.HintingFull,
	})
	lf.faces[size] = f
	return f
}

// DrawGrid draws Cols+1 vertical and Rows+1 horizontal one-pixel black
// lines at multiples of the cell size. Lines span the whole surface; those
// falling outside it are clipped. A grid with negative values, or with a
// zero cell size and any cells, draws nothing.
func DrawGrid(dst draw.Image, g Grid) {
	if g.validate() != nil {
		return
	}
	b := dst.Bounds()
	for i := 0; i <= g.Cols; i++ {
		x := b.Min.X + i*g.CellWidth
		line := image.Rect(x, b.Min.Y, x+1, b.Max.Y).Intersect(b)
		draw.Draw(dst, line, image.Black, image.Point{}, draw.Src)
	}
	for j := 0; j <= g.Rows; j++ {
		y := b.Min.Y + j*g.CellHeight
		line := image.Rect(b.Min.X, y, b.Max.X, y+1).Intersect(b)
		draw.Draw(dst, line, image.Black, image.Point{}, draw.Src)
	}
}

// DrawLabels draws each cell's label centered in its rectangle at
// LabelScale times the shorter cell side. BackgroundLabel is drawn in
// white, every other label in black.
func DrawLabels(dst draw.Image, t CellTable, lf *LabelFont) {
	if lf == nil {
		lf = DefaultLabelFont()
	}
	b := dst.Bounds()
	for _, c := range t {
		size := LabelScale * float64(min(c.Width, c.Height))
		if size <= 0 {
			continue
		}
		face := lf.face(size)
		src := image.Black
		if c.Label == BackgroundLabel {
			src = image.White
		}

		text := strconv.Itoa(c.Label)
		metrics := face.Metrics()
		width := font.MeasureString(face, text)
		cx := toFixed(float64(b.Min.X) + float64(c.X) + float64(c.Width)/2)
		cy := toFixed(float64(b.Min.Y) + float64(c.Y) + float64(c.Height)/2)

		d := &font.Drawer{
			Dst:  dst,
			Src:  src,
			Face: face,
			Dot: fixed.Point26_6{
				X: cx - width/2,
				Y: cy + (metrics.Ascent-metrics.Descent)/2,
			},
		}
		d.DrawString(text)
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// StripAlpha makes every visible pixel fully transparent. Color channels
// are kept.
func StripAlpha(r *imageutil.Raster) error {
	if err := checkRaster(r); err != nil {
		return err
	}
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0 {
			r.Pix[i] = 0
		}
	}
	return nil
}

package img2paint

import (
	"fmt"

	"github.com/wbrown/img2paint/imageutil"
)

// Grid describes Cols x Rows cells of CellWidth x CellHeight pixels
// anchored at the raster origin.
type Grid struct {
	Cols, Rows            int
	CellWidth, CellHeight int
}

// GridFor returns the grid of square cells that fits entirely inside a
// width x height raster. The strip beyond the last whole cell is left out.
func GridFor(width, height, cellSize int) (Grid, error) {
	if cellSize <= 0 {
		return Grid{}, fmt.Errorf("%w: cell size %d", ErrInvalidArgument, cellSize)
	}
	if width < 0 || height < 0 {
		return Grid{}, fmt.Errorf("%w: raster dimensions %dx%d",
			ErrInvalidArgument, width, height)
	}
	return Grid{
		Cols:       width / cellSize,
		Rows:       height / cellSize,
		CellWidth:  cellSize,
		CellHeight: cellSize,
	}, nil
}

// Empty reports whether the grid has no cells.
func (g Grid) Empty() bool {
	return g.Cols == 0 || g.Rows == 0
}

func (g Grid) validate() error {
	if g.Cols < 0 || g.Rows < 0 || g.CellWidth < 0 || g.CellHeight < 0 {
		return fmt.Errorf("%w: negative grid %+v", ErrInvalidArgument, g)
	}
	if !g.Empty() && (g.CellWidth == 0 || g.CellHeight == 0) {
		return fmt.Errorf("%w: zero cell size in grid %+v", ErrInvalidArgument, g)
	}
	return nil
}

// GridCell is one labelled rectangle of the grid.
type GridCell struct {
	X, Y          int
	Width, Height int
	Label         int
}

// CellTable holds every cell of a grid in column-major order: all rows of
// the first column, then the next column.
type CellTable []GridCell

// Counts returns the number of cells carrying each label.
func (t CellTable) Counts() map[int]int {
	counts := make(map[int]int)
	for _, c := range t {
		counts[c.Label]++
	}
	return counts
}

// Classify averages the color of every grid cell, alpha ignored, and
// labels the cell with its nearest palette entry. Cells are clipped to the
// raster; a cell with no pixels inside it averages to black. A grid with no
// columns or no rows yields an empty table without consulting the palette.
func Classify(r *imageutil.Raster, g Grid, p Palette) (CellTable, error) {
	return classify(r, g, p, 1)
}

func classify(r *imageutil.Raster, g Grid, p Palette, workers int) (CellTable, error) {
	if err := checkRaster(r); err != nil {
		return nil, err
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	if g.Empty() {
		return CellTable{}, nil
	}
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}

	table := make(CellTable, g.Cols*g.Rows)
	parallelRanges(g.Cols, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < g.Rows; j++ {
				x, y := i*g.CellWidth, j*g.CellHeight
				cr, cg, cb := cellAverage(r, x, y, g.CellWidth, g.CellHeight)
				table[i*g.Rows+j] = GridCell{
					X:      x,
					Y:      y,
					Width:  g.CellWidth,
					Height: g.CellHeight,
					Label:  p[nearestIndex(cr, cg, cb, p)].Label,
				}
			}
		}
	})
	return table, nil
}

func cellAverage(r *imageutil.Raster, x, y, w, h int) (float64, float64, float64) {
	x1 := min(x+w, r.Width)
	y1 := min(y+h, r.Height)
	var m meanColor
	for py := y; py < y1; py++ {
		for i := r.Offset(x, py); i < r.Offset(x1, py); i += 4 {
			m.add(r.Pix[i : i+3])
		}
	}
	return m.average()
}

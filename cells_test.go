package img2paint

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wbrown/img2paint/imageutil"
)

func TestClassifySixCells(t *testing.T) {
	t.Parallel()

	r := imageutil.CreateCheckerboardImage(30, 20, 10)
	p := Palette{
		{Color: Color{255, 255, 255}, Label: 5},
		{Color: Color{0, 0, 0}, Label: 9},
	}
	g := Grid{Cols: 3, Rows: 2, CellWidth: 10, CellHeight: 10}

	table, err := Classify(r, g, p)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(table) != 6 {
		t.Fatalf("Expected 6 cells, got %d", len(table))
	}

	// Column-major: (0,0), (0,10), (10,0), (10,10), (20,0), (20,10).
	want := CellTable{
		{X: 0, Y: 0, Width: 10, Height: 10, Label: 5},
		{X: 0, Y: 10, Width: 10, Height: 10, Label: 9},
		{X: 10, Y: 0, Width: 10, Height: 10, Label: 9},
		{X: 10, Y: 10, Width: 10, Height: 10, Label: 5},
		{X: 20, Y: 0, Width: 10, Height: 10, Label: 5},
		{X: 20, Y: 10, Width: 10, Height: 10, Label: 9},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("Expected %v, got %v", want, table)
	}
	for _, c := range table {
		if !p.Contains(c.Label) {
			t.Errorf("Label %d is not in the palette", c.Label)
		}
	}
}

func TestClassifyUsesUnroundedAverage(t *testing.T) {
	t.Parallel()

	// Average red is 127.5, exactly between both entries, so the first
	// entry wins. Rounding the mean to 128 first would pick label 2.
	r, _ := imageutil.NewRaster(2, 1)
	r.SetRGB(0, 0, imageutil.RGB{R: 127})
	r.SetRGB(1, 0, imageutil.RGB{R: 128})
	p := Palette{
		{Color: Color{R: 127}, Label: 1},
		{Color: Color{R: 128}, Label: 2},
	}
	table, err := Classify(r, Grid{Cols: 1, Rows: 1, CellWidth: 2, CellHeight: 1}, p)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if table[0].Label != 1 {
		t.Errorf("Expected tie to go to first entry (label 1), got %d", table[0].Label)
	}
}

func TestClassifyIgnoresAlpha(t *testing.T) {
	r := imageutil.CreateSolidImage(10, 10, imageutil.RGB{R: 250, G: 250, B: 250}, 0)
	p := Palette{
		{Color: Color{0, 0, 0}, Label: 1},
		{Color: Color{255, 255, 255}, Label: 2},
	}
	table, err := Classify(r, Grid{Cols: 1, Rows: 1, CellWidth: 10, CellHeight: 10}, p)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if table[0].Label != 2 {
		t.Errorf("Transparent white should still classify as white, got %d", table[0].Label)
	}
}

func TestClassifyClipsCells(t *testing.T) {
	r := imageutil.CreateSolidImage(15, 10, imageutil.RGB{R: 255, G: 255, B: 255}, 255)
	p := Palette{
		{Color: Color{0, 0, 0}, Label: 1},
		{Color: Color{255, 255, 255}, Label: 2},
	}
	// Second column is half outside, third wholly outside.
	table, err := Classify(r, Grid{Cols: 3, Rows: 1, CellWidth: 10, CellHeight: 10}, p)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got := []int{table[0].Label, table[1].Label, table[2].Label}; !reflect.DeepEqual(got, []int{2, 2, 1}) {
		t.Errorf("Expected labels [2 2 1], got %v", got)
	}
}

func TestClassifyDegenerateGrid(t *testing.T) {
	r := imageutil.CreateGradientImage(10, 10)
	for _, g := range []Grid{
		{Cols: 0, Rows: 4, CellWidth: 5, CellHeight: 5},
		{Cols: 4, Rows: 0, CellWidth: 5, CellHeight: 5},
		{},
	} {
		table, err := Classify(r, g, nil)
		if err != nil {
			t.Errorf("Grid %+v: unexpected error %v", g, err)
		}
		if table == nil || len(table) != 0 {
			t.Errorf("Grid %+v: expected empty table, got %v", g, table)
		}
	}
}

func TestClassifyErrors(t *testing.T) {
	r := imageutil.CreateGradientImage(10, 10)
	g := Grid{Cols: 2, Rows: 2, CellWidth: 5, CellHeight: 5}

	if _, err := Classify(r, g, Palette{}); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Expected ErrEmptyPalette, got %v", err)
	}
	for _, bad := range []Grid{
		{Cols: -1, Rows: 2, CellWidth: 5, CellHeight: 5},
		{Cols: 2, Rows: 2, CellWidth: 0, CellHeight: 5},
		{Cols: 2, Rows: 2, CellWidth: 5, CellHeight: -5},
	} {
		if _, err := Classify(r, bad, grayPalette()); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Grid %+v: expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestClassifyWorkersMatchSerial(t *testing.T) {
	t.Parallel()

	r := imageutil.CreateColorBarsImage(96, 40)
	g, _ := GridFor(r.Width, r.Height, 7)
	serial, err := classify(r, g, grayPalette(), 1)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	parallel, err := classify(r, g, grayPalette(), 4)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Error("Parallel classify should match serial output")
	}
}

func TestGridFor(t *testing.T) {
	g, err := GridFor(105, 47, 10)
	if err != nil {
		t.Fatalf("GridFor failed: %v", err)
	}
	want := Grid{Cols: 10, Rows: 4, CellWidth: 10, CellHeight: 10}
	if g != want {
		t.Errorf("Expected %+v, got %+v", want, g)
	}
	if _, err := GridFor(10, 10, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero cell size, got %v", err)
	}
	if _, err := GridFor(-1, 10, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative width, got %v", err)
	}
}

func TestCellTableCounts(t *testing.T) {
	table := CellTable{{Label: 1}, {Label: 3}, {Label: 1}, {Label: 0}}
	want := map[int]int{0: 1, 1: 2, 3: 1}
	if got := table.Counts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

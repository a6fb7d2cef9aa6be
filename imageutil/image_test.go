package imageutil

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRaster(t *testing.T) {
	r, err := NewRaster(100, 50)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	if r.Width != 100 || r.Height != 50 {
		t.Errorf("Expected 100x50, got %dx%d", r.Width, r.Height)
	}
	if len(r.Pix) != 100*50*4 {
		t.Errorf("Expected buffer length %d, got %d", 100*50*4, len(r.Pix))
	}
	if !r.Valid() {
		t.Error("New raster should be valid")
	}
}

func TestNewRasterNegative(t *testing.T) {
	if _, err := NewRaster(-1, 5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestRasterFromPix(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		pixLen  int
		wantErr bool
	}{
		{"exact", 2, 3, 24, false},
		{"empty", 0, 0, 0, false},
		{"short", 2, 3, 23, true},
		{"long", 2, 3, 28, true},
		{"negative", -2, 3, 24, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RasterFromPix(tc.w, tc.h, make([]uint8, tc.pixLen))
			if tc.wantErr && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestRasterGetSetRGB(t *testing.T) {
	r, _ := NewRaster(10, 10)
	r.SetAlpha(5, 5, 77)
	c := RGB{R: 100, G: 150, B: 200}
	r.SetRGB(5, 5, c)

	if got := r.GetRGB(5, 5); got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
	if a := r.Alpha(5, 5); a != 77 {
		t.Errorf("SetRGB should not touch alpha, got %d", a)
	}
}

func TestRasterClone(t *testing.T) {
	r, _ := NewRaster(10, 10)
	r.SetRGB(5, 5, RGB{R: 255})

	clone := r.Clone()
	if clone.GetRGB(5, 5) != r.GetRGB(5, 5) {
		t.Error("Clone should have same pixel values")
	}

	clone.SetRGB(5, 5, RGB{G: 255})
	if r.GetRGB(5, 5).G != 0 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestRasterNRGBAView(t *testing.T) {
	r, _ := NewRaster(4, 4)
	view := r.NRGBA()
	view.SetNRGBA(1, 2, color.NRGBA{R: 9, G: 8, B: 7, A: 6})

	if got := r.GetRGB(1, 2); got != (RGB{9, 8, 7}) {
		t.Errorf("View should share the buffer, got %v", got)
	}
	if r.Alpha(1, 2) != 6 {
		t.Errorf("Expected alpha 6, got %d", r.Alpha(1, 2))
	}
}

func TestRasterFromImageTranslatesBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 13, 22))
	src.SetRGBA(10, 20, color.RGBA{R: 255, A: 255})
	src.SetRGBA(12, 21, color.RGBA{B: 255, A: 255})

	r := RasterFromImage(src)
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", r.Width, r.Height)
	}
	if got := r.GetRGB(0, 0); got != (RGB{R: 255}) {
		t.Errorf("Expected red at origin, got %v", got)
	}
	if got := r.GetRGB(2, 1); got != (RGB{B: 255}) {
		t.Errorf("Expected blue at (2,1), got %v", got)
	}
}

func TestRasterFromImageKeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	r := RasterFromImage(src)
	if got := r.GetRGB(0, 0); got != (RGB{200, 100, 50}) {
		t.Errorf("Expected unpremultiplied color, got %v", got)
	}
	if r.Alpha(0, 0) != 128 {
		t.Errorf("Expected alpha 128, got %d", r.Alpha(0, 0))
	}
}

func TestResize(t *testing.T) {
	r := CreateGradientImage(100, 100)

	resized := Resize(r, 50, 50, InterpolationArea)
	if resized.Width != 50 || resized.Height != 50 || !resized.Valid() {
		t.Errorf("Expected 50x50, got %dx%d", resized.Width, resized.Height)
	}

	resized = Resize(r, 200, 200, InterpolationLinear)
	if resized.Width != 200 || resized.Height != 200 || !resized.Valid() {
		t.Errorf("Expected 200x200, got %dx%d", resized.Width, resized.Height)
	}
}

func TestResizeToWidth(t *testing.T) {
	r := CreateSolidImage(200, 100, RGB{R: 10}, 255)
	resized := ResizeToWidth(r, 50, InterpolationNearest)
	if resized.Width != 50 || resized.Height != 25 {
		t.Errorf("Expected 50x25, got %dx%d", resized.Width, resized.Height)
	}
	if got := resized.GetRGB(10, 10); got != (RGB{R: 10}) {
		t.Errorf("Nearest resize of solid image should keep color, got %v", got)
	}
}

func TestConvolveIdentity(t *testing.T) {
	r := CreateGradientImage(10, 10)
	r.SetAlpha(3, 3, 42)

	identity := NewKernel([][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	result := Convolve(r, identity)

	if diff := CalculateMaxDiff(r, result); diff != 0 {
		t.Errorf("Identity kernel should preserve pixels, max diff %d", diff)
	}
}

func TestGaussianBlurSolid(t *testing.T) {
	r := CreateSolidImage(8, 8, RGB{R: 120, G: 60, B: 30}, 200)
	blurred := GaussianBlur(r)

	if diff := CalculateMaxDiff(r, blurred); diff != 0 {
		t.Errorf("Blurring a solid image should not change it, max diff %d", diff)
	}
}

func TestSharpenDimensions(t *testing.T) {
	r := CreateCheckerboardImage(32, 32, 4)
	sharpened := Sharpen(r)

	if sharpened.Width != r.Width || sharpened.Height != r.Height {
		t.Error("Sharpened image should have same dimensions")
	}
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()
	r := CreateColorBarsImage(64, 64)

	pngPath := filepath.Join(tmpDir, "test.png")
	if err := SaveImage(r.NRGBA(), pngPath); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	loaded, err := LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	if diff := CalculateMaxDiff(r, loaded); diff != 0 {
		t.Errorf("PNG should be lossless, max diff %d", diff)
	}
}

func TestEncodeDecodeTransparent(t *testing.T) {
	r := CreateSolidImage(4, 4, RGB{R: 10, G: 20, B: 30}, 0)
	r.SetAlpha(0, 0, 255)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, r.NRGBA()); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Alpha(0, 0) != 255 || decoded.Alpha(1, 1) != 0 {
		t.Errorf("Alpha not preserved: %d, %d",
			decoded.Alpha(0, 0), decoded.Alpha(1, 1))
	}
}

func TestLoadImageMissing(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Expected error loading missing file")
	}
}

func TestSaveImageFormatByExtension(t *testing.T) {
	t.Parallel()

	r := CreateColorBarsImage(16, 8)
	tests := []struct {
		name   string
		format string
	}{
		{"sheet.png", "png"},
		{"sheet.JPG", "jpeg"},
		{"sheet.jpeg", "jpeg"},
		{"sheet.gif", "gif"},
		{"sheet", "png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			if err := SaveImage(r.NRGBA(), path); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer f.Close()
			_, format, err := image.DecodeConfig(f)
			if err != nil {
				t.Fatalf("DecodeConfig failed: %v", err)
			}
			if format != tt.format {
				t.Errorf("Expected %s, got %s", tt.format, format)
			}
		})
	}
}

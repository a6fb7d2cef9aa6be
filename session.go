package img2paint

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/wbrown/img2paint/imageutil"
)

// DefaultExportName is the file name hosts should offer for exports.
const DefaultExportName = "processed_image.png"

// Session holds the state of one paint-by-numbers project: the loaded
// image, the raster being transformed, the surface it is presented on, the
// committed palette, and the cell table of the last labelling pass. Each
// transform mutates the raster and redraws the surface. A Session is not
// safe for concurrent use; hosts must serialize calls.
type Session struct {
	// Configuration options
	PixelateBlockSize int
	LabelCellSize     int
	Workers           int
	TargetWidth       int

	logger  *slog.Logger
	font    *LabelFont
	palette PaletteStore

	original *imageutil.Raster
	raster   *imageutil.Raster
	surface  *image.NRGBA
	cells    CellTable
	cellGrid Grid // grid the cell table was classified on
}

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session)

// NewSession creates a new Session with the given options.
// Default values: PixelateBlockSize=10, LabelCellSize=10, Workers=1,
// TargetWidth=0 (keep source size), the embedded Go Regular label font, and
// a logger that discards output.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		PixelateBlockSize: 10,
		LabelCellSize:     10,
		Workers:           1,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.font == nil {
		s.font = DefaultLabelFont()
	}
	return s
}

// WithBlockSize sets both the pixelation block size and the label cell
// size, the way a single size control drives both.
func WithBlockSize(size int) SessionOption {
	return func(s *Session) {
		s.PixelateBlockSize = size
		s.LabelCellSize = size
	}
}

// WithPixelateBlockSize sets only the pixelation block size.
func WithPixelateBlockSize(size int) SessionOption {
	return func(s *Session) {
		s.PixelateBlockSize = size
	}
}

// WithLabelCellSize sets only the label grid cell size.
func WithLabelCellSize(size int) SessionOption {
	return func(s *Session) {
		s.LabelCellSize = size
	}
}

// WithWorkers splits quantization, pixelation and classification across
// n goroutines.
func WithWorkers(n int) SessionOption {
	return func(s *Session) {
		s.Workers = n
	}
}

// WithTargetWidth resizes loaded images to width pixels, keeping aspect
// ratio. Zero keeps the source size.
func WithTargetWidth(width int) SessionOption {
	return func(s *Session) {
		s.TargetWidth = width
	}
}

// WithLabelFont sets the font used for cell labels.
func WithLabelFont(f *LabelFont) SessionOption {
	return func(s *Session) {
		s.font = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Load replaces the session image. Any previous raster, surface and cell
// table are discarded.
func (s *Session) Load(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	s.loadRaster(imageutil.RasterFromImage(img))
	return nil
}

func (s *Session) loadRaster(r *imageutil.Raster) {
	if s.TargetWidth > 0 && r.Width != s.TargetWidth {
		r = imageutil.ResizeToWidth(r, s.TargetWidth, imageutil.InterpolationArea)
	}
	s.original = r
	s.raster = r.Clone()
	s.clearCells()
	s.putRaster()
	s.logger.Info("image loaded", "width", r.Width, "height", r.Height)
}

// LoadReader decodes an image and loads it.
func (s *Session) LoadReader(rd io.Reader) error {
	r, err := imageutil.Decode(rd)
	if err != nil {
		return err
	}
	s.loadRaster(r)
	return nil
}

// LoadFile decodes the image at path and loads it.
func (s *Session) LoadFile(path string) error {
	r, err := imageutil.LoadImage(path)
	if err != nil {
		return err
	}
	s.loadRaster(r)
	return nil
}

// Loaded reports whether an image has been loaded.
func (s *Session) Loaded() bool {
	return s.raster != nil
}

// CommitPalette parses palette fields and replaces the active palette.
// On error the previous palette stays active.
func (s *Session) CommitPalette(fields []string) error {
	if err := s.palette.Commit(fields); err != nil {
		s.logger.Warn("palette commit rejected", "error", err)
		return err
	}
	s.logger.Info("palette committed", "colors", s.palette.Len())
	return nil
}

// SetPalette replaces the active palette.
func (s *Session) SetPalette(p Palette) {
	s.palette.Set(p)
	s.logger.Info("palette set", "colors", len(p))
}

// Palette returns a copy of the active palette.
func (s *Session) Palette() Palette {
	return s.palette.Palette()
}

// Quantize maps every pixel to its nearest palette color and redraws the
// surface without overlays.
func (s *Session) Quantize() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	if err := quantize(s.raster, s.palette.palette, s.Workers); err != nil {
		return err
	}
	s.putRaster()
	s.logger.Debug("quantized", "colors", s.palette.Len())
	return nil
}

// Pixelate replaces the raster with its block-averaged version using
// PixelateBlockSize and redraws the surface without overlays.
func (s *Session) Pixelate() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	r, err := pixelate(s.raster, s.PixelateBlockSize, s.Workers)
	if err != nil {
		return err
	}
	s.raster = r
	s.putRaster()
	s.logger.Debug("pixelated", "block_size", s.PixelateBlockSize)
	return nil
}

// Smooth blurs the raster to suppress noise before quantization.
func (s *Session) Smooth() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	s.raster = imageutil.GaussianBlur(s.raster)
	s.putRaster()
	s.logger.Debug("smoothed")
	return nil
}

// Sharpen applies a mild sharpening filter to the raster, restoring edge
// contrast lost to resizing or Smooth.
func (s *Session) Sharpen() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	s.raster = imageutil.Sharpen(s.raster)
	s.putRaster()
	s.logger.Debug("sharpened")
	return nil
}

// Label classifies every whole LabelCellSize cell of the raster against
// the palette, replaces the cell table, and redraws the surface as raster,
// grid, then labels.
func (s *Session) Label() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	g, err := s.grid()
	if err != nil {
		return err
	}
	cells, err := classify(s.raster, g, s.palette.palette, s.Workers)
	if err != nil {
		return err
	}
	s.cells = cells
	s.cellGrid = g
	s.redraw(g)
	s.logger.Debug("labelled", "cols", g.Cols, "rows", g.Rows)
	return nil
}

// StripBackground makes every visible raster pixel transparent, then
// redraws the grid and the last cell labels over it. After a Label call
// the grid is the one those labels were classified on; otherwise it is
// built from LabelCellSize.
func (s *Session) StripBackground() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	g := s.cellGrid
	if s.cells == nil {
		var err error
		if g, err = s.grid(); err != nil {
			return err
		}
	}
	if err := StripAlpha(s.raster); err != nil {
		return err
	}
	s.redraw(g)
	s.logger.Debug("background stripped", "labels", len(s.cells))
	return nil
}

// Reset restores the raster to the image as loaded and clears the cell
// table.
func (s *Session) Reset() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	s.raster = s.original.Clone()
	s.clearCells()
	s.putRaster()
	return nil
}

// SuggestPalette proposes k palette colors from the current raster. It
// does not change the active palette. A failed k-means run falls back to
// dominant colors.
func (s *Session) SuggestPalette(k int, method SuggestMethod) (Palette, error) {
	if !s.Loaded() {
		return nil, ErrNoImage
	}
	p, err := SuggestPalette(s.raster, k, method)
	if err != nil && method == SuggestKMeans {
		s.logger.Warn("kmeans suggestion failed, falling back to dominant colors",
			"error", err)
		return SuggestPalette(s.raster, k, SuggestDominant)
	}
	return p, err
}

// Export encodes the surface, overlays included, as PNG.
func (s *Session) Export(w io.Writer) error {
	if !s.Loaded() {
		return ErrNoImage
	}
	return imageutil.EncodePNG(w, s.surface)
}

// ExportFile writes the surface to path. The format follows the file
// extension, PNG unless it names JPEG or GIF.
func (s *Session) ExportFile(path string) error {
	if !s.Loaded() {
		return ErrNoImage
	}
	if err := imageutil.SaveImage(s.surface, path); err != nil {
		return err
	}
	s.logger.Info("exported", "path", path)
	return nil
}

// Raster returns the raster being transformed. Callers must not change its
// dimensions.
func (s *Session) Raster() *imageutil.Raster {
	return s.raster
}

// Surface returns the presentation surface: the raster plus any grid and
// label overlays.
func (s *Session) Surface() *image.NRGBA {
	return s.surface
}

// Cells returns a copy of the cell table from the last Label call.
func (s *Session) Cells() CellTable {
	return append(CellTable(nil), s.cells...)
}

func (s *Session) clearCells() {
	s.cells = nil
	s.cellGrid = Grid{}
}

func (s *Session) grid() (Grid, error) {
	return GridFor(s.raster.Width, s.raster.Height, s.LabelCellSize)
}

// putRaster copies the raster onto the surface, replacing any overlays.
func (s *Session) putRaster() {
	if s.surface == nil || s.surface.Rect != s.raster.Bounds() {
		s.surface = image.NewNRGBA(s.raster.Bounds())
	}
	copy(s.surface.Pix, s.raster.Pix)
}

func (s *Session) redraw(g Grid) {
	s.putRaster()
	DrawGrid(s.surface, g)
	DrawLabels(s.surface, s.cells, s.font)
}

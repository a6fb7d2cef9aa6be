package img2paint

import (
	"errors"
	"fmt"

	"github.com/wbrown/img2paint/imageutil"
)

var (
	// ErrEmptyPalette is returned when color matching is attempted against
	// a palette with no entries.
	ErrEmptyPalette = errors.New("palette is empty")

	// ErrInvalidArgument is returned for non-positive block sizes, negative
	// grid dimensions, nil rasters, and out-of-range palette labels.
	ErrInvalidArgument = imageutil.ErrInvalidArgument

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("malformed color")

	// ErrNoImage is returned by Session transforms before an image is
	// loaded.
	ErrNoImage = errors.New("no image loaded")
)

// ParseError reports a palette field that does not describe a color.
type ParseError struct {
	Field  int // 1-based field number, 0 when parsed outside a commit
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field > 0 {
		return fmt.Sprintf("palette field %d: cannot parse %q: %s",
			e.Field, e.Input, e.Reason)
	}
	return fmt.Sprintf("cannot parse color %q: %s", e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrParse) hold for any *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

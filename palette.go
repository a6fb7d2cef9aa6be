package img2paint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// MaxPaletteSize is the number of palette fields a commit accepts.
	MaxPaletteSize = 16

	// BackgroundLabel marks cells that should read as unpainted. Commit
	// never produces it; explicit palettes may.
	BackgroundLabel = 0
)

// PaletteEntry is a reference color tagged with the number painted into
// cells that match it.
type PaletteEntry struct {
	Color Color
	Label int
}

// Palette is an ordered list of entries. Order breaks ties in Nearest:
// the earliest entry wins. Label uniqueness is the caller's responsibility.
type Palette []PaletteEntry

// NewPalette builds a palette from explicit entries. It accepts at most
// MaxPaletteSize entries with labels between BackgroundLabel and
// MaxPaletteSize.
func NewPalette(entries ...PaletteEntry) (Palette, error) {
	if len(entries) > MaxPaletteSize {
		return nil, fmt.Errorf("%w: %d palette entries, at most %d",
			ErrInvalidArgument, len(entries), MaxPaletteSize)
	}
	p := make(Palette, len(entries))
	for i, e := range entries {
		if e.Label < BackgroundLabel || e.Label > MaxPaletteSize {
			return nil, fmt.Errorf("%w: palette label %d out of range",
				ErrInvalidArgument, e.Label)
		}
		p[i] = e
	}
	return p, nil
}

// Labels returns the entry labels in palette order.
func (p Palette) Labels() []int {
	labels := make([]int, len(p))
	for i, e := range p {
		labels[i] = e.Label
	}
	return labels
}

// Contains reports whether any entry carries label.
func (p Palette) Contains(label int) bool {
	for _, e := range p {
		if e.Label == label {
			return true
		}
	}
	return false
}

// Strings returns the MaxPaletteSize textual fields that Commit turns back
// into this palette. Fields for labels without an entry are empty. Entries
// labelled BackgroundLabel have no field and are omitted.
func (p Palette) Strings() []string {
	fields := make([]string, MaxPaletteSize)
	for _, e := range p {
		if e.Label >= 1 && e.Label <= MaxPaletteSize {
			fields[e.Label-1] = e.Color.String()
		}
	}
	return fields
}

var integerPattern = regexp.MustCompile(`\d+`)

// ParseColor reads a color from text. Any string holding exactly three
// decimal integers is read as r, g, b in that order, so "rgb(12, 34, 56)"
// and "12 34 56" are equivalent. A leading '#' selects a #rrggbb hex code.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex, err := colorful.Hex(s)
		if err != nil {
			return Color{}, &ParseError{Input: s, Reason: "invalid hex code"}
		}
		r, g, b := hex.RGB255()
		return Color{r, g, b}, nil
	}

	matches := integerPattern.FindAllString(s, -1)
	if len(matches) != 3 {
		return Color{}, &ParseError{
			Input:  s,
			Reason: fmt.Sprintf("found %d integers, want 3", len(matches)),
		}
	}
	var c [3]uint8
	for i, m := range matches {
		v, err := strconv.Atoi(m)
		if err != nil || v > 255 {
			return Color{}, &ParseError{
				Input:  s,
				Reason: fmt.Sprintf("component %s out of range", m),
			}
		}
		c[i] = uint8(v)
	}
	return Color{c[0], c[1], c[2]}, nil
}

// PaletteStore holds the active palette. The palette only changes through
// a wholesale Commit or Set.
type PaletteStore struct {
	palette Palette
}

// Commit parses up to MaxPaletteSize fields and replaces the active
// palette. Field i becomes label i+1; blank fields are skipped. If any
// field fails to parse the previous palette stays active.
func (s *PaletteStore) Commit(fields []string) error {
	if len(fields) > MaxPaletteSize {
		return fmt.Errorf("%w: %d palette fields, at most %d",
			ErrInvalidArgument, len(fields), MaxPaletteSize)
	}
	p := make(Palette, 0, len(fields))
	for i, field := range fields {
		if strings.TrimSpace(field) == "" {
			continue
		}
		c, err := ParseColor(field)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Field = i + 1
			}
			return err
		}
		p = append(p, PaletteEntry{Color: c, Label: i + 1})
	}
	s.palette = p
	return nil
}

// Set replaces the active palette with a copy of p.
func (s *PaletteStore) Set(p Palette) {
	s.palette = append(Palette(nil), p...)
}

// Palette returns a copy of the active palette.
func (s *PaletteStore) Palette() Palette {
	return append(Palette(nil), s.palette...)
}

// Len returns the number of active entries.
func (s *PaletteStore) Len() int {
	return len(s.palette)
}

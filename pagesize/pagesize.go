// Package pagesize resolves symbolic target page sizes and margin
// geometry for fixed-geometry e-ink readers. All page dimensions are in
// PostScript points (1/72 inch); pixel dimensions are derived from a
// point value and a rendering DPI.
package pagesize

import (
	"fmt"
	"math"
	"strings"
)

// Size represents a page size in PostScript points.
type Size struct {
	WidthPt  float64
	HeightPt float64
}

// Predefined page sizes.
var (
	// Scribe is the e-ink reader target size (~6.2" x 8.26" at 72dpi).
	Scribe = Size{WidthPt: 446, HeightPt: 595}

	// A5 is a standard A5 page.
	A5 = Size{WidthPt: 420, HeightPt: 595}
)

// Mode is a symbolic page size selection.
type Mode int

const (
	// ModeScribe targets the Scribe page size.
	ModeScribe Mode = iota
	// ModeA5 targets the A5 page size.
	ModeA5
	// ModeSource keeps the source document's own page geometry,
	// resolved at conversion time from the first page.
	ModeSource
	// ModeCustom uses caller-supplied dimensions.
	ModeCustom
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeScribe:
		return "scribe"
	case ModeA5:
		return "a5"
	case ModeSource:
		return "source"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseMode parses a symbolic page size name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scribe":
		return ModeScribe, nil
	case "a5":
		return ModeA5, nil
	case "source":
		return ModeSource, nil
	case "custom":
		return ModeCustom, nil
	default:
		return ModeScribe, fmt.Errorf("unknown page size %q (want scribe, a5, source, or custom)", s)
	}
}

// Resolve maps a mode to a concrete Size. The second return value is
// false when resolution must be deferred until the source document's
// first page geometry is known: ModeSource always defers, and ModeCustom
// defers when either custom dimension is missing.
func Resolve(m Mode, customWidthPt, customHeightPt float64) (Size, bool) {
	switch m {
	case ModeScribe:
		return Scribe, true
	case ModeA5:
		return A5, true
	case ModeCustom:
		if customWidthPt > 0 && customHeightPt > 0 {
			return Size{WidthPt: customWidthPt, HeightPt: customHeightPt}, true
		}
		return Size{}, false
	default:
		return Size{}, false
	}
}

// Pixels converts a point dimension to pixels at the given DPI.
func Pixels(pt float64, dpi int) int {
	return int(math.Round(pt / 72 * float64(dpi)))
}

// Pixels returns the page's pixel dimensions at the given DPI.
func (s Size) Pixels(dpi int) (width, height int) {
	return Pixels(s.WidthPt, dpi), Pixels(s.HeightPt, dpi)
}

// Margins holds per-side page margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Uniform returns margins with the same value on every side.
func Uniform(pt float64) Margins {
	return Margins{Top: pt, Right: pt, Bottom: pt, Left: pt}
}

// Zero reports whether all four margins are zero.
func (m Margins) Zero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// Insets holds per-side margins in pixels.
type Insets struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Pixels converts the margins to pixel insets at the given DPI.
func (m Margins) Pixels(dpi int) Insets {
	return Insets{
		Top:    Pixels(m.Top, dpi),
		Right:  Pixels(m.Right, dpi),
		Bottom: Pixels(m.Bottom, dpi),
		Left:   Pixels(m.Left, dpi),
	}
}

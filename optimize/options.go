// Package optimize converts a PDF into a raster-optimized form for a
// fixed-geometry e-ink reader: vector-preserving grayscale via
// Ghostscript when available, per-page content bounding-box detection
// and margin cropping, fit/scale/composition onto a target canvas, and
// optional bilevel dithering.
package optimize

import (
	"fmt"

	"github.com/tsawler/stylus/pagesize"
)

// FitMode governs how cropped page content is scaled into the available
// (margin-inset) area of the target canvas.
type FitMode string

const (
	// FitContain scales uniformly so content fits entirely within the
	// available area, centered. No cropping, no stretching.
	FitContain FitMode = "contain"
	// FitWidth scales so content width equals the available width,
	// cropping any bottom excess.
	FitWidth FitMode = "fit_width"
	// FitHeight scales so content height equals the available height,
	// cropping any right excess.
	FitHeight FitMode = "fit_height"
	// FitStretch scales both axes independently to fill the available
	// area exactly. Aspect ratio is not preserved.
	FitStretch FitMode = "stretch"
)

// ParseFitMode parses a fit mode name.
func ParseFitMode(s string) (FitMode, error) {
	switch FitMode(s) {
	case FitContain, FitWidth, FitHeight, FitStretch:
		return FitMode(s), nil
	default:
		return FitContain, fmt.Errorf("unknown fit mode %q (want contain, fit_width, fit_height, or stretch)", s)
	}
}

// Quality is a Ghostscript PDFSETTINGS preset.
type Quality string

// Ghostscript quality presets.
const (
	QualityScreen   Quality = "screen"
	QualityEbook    Quality = "ebook"
	QualityPrinter  Quality = "printer"
	QualityPrepress Quality = "prepress"
	QualityDefault  Quality = "default"
)

// ParseQuality parses a Ghostscript quality preset name.
func ParseQuality(s string) (Quality, error) {
	switch Quality(s) {
	case QualityScreen, QualityEbook, QualityPrinter, QualityPrepress, QualityDefault:
		return Quality(s), nil
	default:
		return QualityPrepress, fmt.Errorf("unknown quality preset %q", s)
	}
}

// Options holds configuration for a raster optimization run.
// Zero values are not meaningful defaults; start from DefaultOptions.
type Options struct {
	// Target page geometry.
	PageSize       pagesize.Mode
	CustomWidthPt  float64
	CustomHeightPt float64

	// MarginPt is the default margin applied to every side.
	// Each side may be overridden independently; a nil override keeps
	// the default.
	MarginPt       float64
	MarginTopPt    *float64
	MarginRightPt  *float64
	MarginBottomPt *float64
	MarginLeftPt   *float64

	// DPI drives both point-to-pixel scaling and page rasterization.
	DPI int

	// Contrast stretching of rendered pages.
	AutoContrast       bool
	AutoContrastCutoff int

	// Content bounding-box cropping.
	Crop          bool
	CropThreshold uint8
	CropPad       int

	Fit     FitMode
	Sharpen bool

	// Bilevel output with optional error-diffusion dithering.
	Bilevel bool
	Dither  bool

	// RotateLandscape rotates content 90 degrees when the target canvas
	// is portrait but the scaled content is wider than tall.
	RotateLandscape bool

	// Ghostscript pre-pass control.
	GSQuality   Quality
	ForceGS     bool
	ForceRaster bool
}

// DefaultOptions returns the default optimization options.
func DefaultOptions() Options {
	return Options{
		PageSize:           pagesize.ModeScribe,
		MarginPt:           14,
		DPI:                300,
		AutoContrast:       true,
		AutoContrastCutoff: 1,
		Crop:               true,
		CropThreshold:      245,
		CropPad:            10,
		Fit:                FitContain,
		Dither:             true,
		GSQuality:          QualityPrepress,
	}
}

// margins resolves the per-side margins, applying overrides over the
// scalar default.
func (o Options) margins() pagesize.Margins {
	m := pagesize.Uniform(o.MarginPt)
	if o.MarginTopPt != nil {
		m.Top = *o.MarginTopPt
	}
	if o.MarginRightPt != nil {
		m.Right = *o.MarginRightPt
	}
	if o.MarginBottomPt != nil {
		m.Bottom = *o.MarginBottomPt
	}
	if o.MarginLeftPt != nil {
		m.Left = *o.MarginLeftPt
	}
	return m
}

package stylus

import (
	"context"

	"github.com/tsawler/stylus/epub"
	"github.com/tsawler/stylus/optimize"
	"github.com/tsawler/stylus/pagesize"
)

// Converter provides a fluent interface for configuring and running a
// conversion. Each configuration method returns a new Converter
// instance, making it safe for concurrent use and allowing method
// chaining.
type Converter struct {
	filename string

	optimize optimize.Options
	epub     epub.Options

	// Accumulated error (fail-fast)
	err error
}

func defaultOptimizeOptions() optimize.Options {
	return optimize.DefaultOptions()
}

func defaultEPUBOptions() epub.Options {
	return epub.DefaultOptions()
}

// clone creates a copy of the Converter with the per-side margin
// overrides deep-copied, so chained instances stay independent.
func (c *Converter) clone() *Converter {
	nc := &Converter{
		filename: c.filename,
		optimize: c.optimize,
		epub:     c.epub,
		err:      c.err,
	}
	nc.optimize.MarginTopPt = clonePtr(c.optimize.MarginTopPt)
	nc.optimize.MarginRightPt = clonePtr(c.optimize.MarginRightPt)
	nc.optimize.MarginBottomPt = clonePtr(c.optimize.MarginBottomPt)
	nc.optimize.MarginLeftPt = clonePtr(c.optimize.MarginLeftPt)
	return nc
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// PageSize selects the target page geometry by name: "scribe", "a5",
// "source", or "custom".
func (c *Converter) PageSize(mode string) *Converter {
	nc := c.clone()
	m, err := pagesize.ParseMode(mode)
	if err != nil {
		nc.err = err
		return nc
	}
	nc.optimize.PageSize = m
	return nc
}

// CustomPageSize targets an explicit page geometry in points.
func (c *Converter) CustomPageSize(widthPt, heightPt float64) *Converter {
	nc := c.clone()
	nc.optimize.PageSize = pagesize.ModeCustom
	nc.optimize.CustomWidthPt = widthPt
	nc.optimize.CustomHeightPt = heightPt
	return nc
}

// Margin sets a uniform margin in points.
func (c *Converter) Margin(pt float64) *Converter {
	nc := c.clone()
	nc.optimize.MarginPt = pt
	return nc
}

// MarginTop overrides the top margin in points.
func (c *Converter) MarginTop(pt float64) *Converter {
	nc := c.clone()
	nc.optimize.MarginTopPt = &pt
	return nc
}

// MarginRight overrides the right margin in points.
func (c *Converter) MarginRight(pt float64) *Converter {
	nc := c.clone()
	nc.optimize.MarginRightPt = &pt
	return nc
}

// MarginBottom overrides the bottom margin in points.
func (c *Converter) MarginBottom(pt float64) *Converter {
	nc := c.clone()
	nc.optimize.MarginBottomPt = &pt
	return nc
}

// MarginLeft overrides the left margin in points.
func (c *Converter) MarginLeft(pt float64) *Converter {
	nc := c.clone()
	nc.optimize.MarginLeftPt = &pt
	return nc
}

// DPI sets the rasterization resolution.
func (c *Converter) DPI(dpi int) *Converter {
	nc := c.clone()
	nc.optimize.DPI = dpi
	return nc
}

// NoAutoContrast disables the contrast stretch.
func (c *Converter) NoAutoContrast() *Converter {
	nc := c.clone()
	nc.optimize.AutoContrast = false
	return nc
}

// AutoContrastCutoff sets the percentage of histogram mass trimmed from
// each end before the contrast stretch.
func (c *Converter) AutoContrastCutoff(pct int) *Converter {
	nc := c.clone()
	nc.optimize.AutoContrastCutoff = pct
	return nc
}

// NoCrop disables content cropping.
func (c *Converter) NoCrop() *Converter {
	nc := c.clone()
	nc.optimize.Crop = false
	return nc
}

// CropThreshold sets the gray level below which a pixel counts as
// content during crop detection.
func (c *Converter) CropThreshold(threshold uint8) *Converter {
	nc := c.clone()
	nc.optimize.CropThreshold = threshold
	return nc
}

// CropPad sets the padding in detection pixels kept around the detected
// content box.
func (c *Converter) CropPad(px int) *Converter {
	nc := c.clone()
	nc.optimize.CropPad = px
	return nc
}

// Fit selects how content maps onto the target page: "contain",
// "fit_width", "fit_height", or "stretch".
func (c *Converter) Fit(mode string) *Converter {
	nc := c.clone()
	m, err := optimize.ParseFitMode(mode)
	if err != nil {
		nc.err = err
		return nc
	}
	nc.optimize.Fit = m
	return nc
}

// Sharpen enables unsharp masking after the contrast stretch.
func (c *Converter) Sharpen() *Converter {
	nc := c.clone()
	nc.optimize.Sharpen = true
	return nc
}

// Bilevel reduces output to pure black and white. It applies to both
// conversion paths.
func (c *Converter) Bilevel() *Converter {
	nc := c.clone()
	nc.optimize.Bilevel = true
	nc.epub.Bilevel = true
	return nc
}

// NoDither uses a flat threshold instead of Floyd-Steinberg diffusion
// for bilevel reduction.
func (c *Converter) NoDither() *Converter {
	nc := c.clone()
	nc.optimize.Dither = false
	nc.epub.Dither = false
	return nc
}

// RotateLandscape rotates landscape content 90 degrees onto portrait
// target pages.
func (c *Converter) RotateLandscape() *Converter {
	nc := c.clone()
	nc.optimize.RotateLandscape = true
	return nc
}

// GSQuality selects the Ghostscript quality preset: "screen", "ebook",
// "printer", or "prepress".
func (c *Converter) GSQuality(quality string) *Converter {
	nc := c.clone()
	q, err := optimize.ParseQuality(quality)
	if err != nil {
		nc.err = err
		return nc
	}
	nc.optimize.GSQuality = q
	return nc
}

// ForceGS marks the Ghostscript pre-pass as explicitly requested. The
// selector already prefers Ghostscript whenever it is installed, so
// this is accepted for interface compatibility and changes nothing.
func (c *Converter) ForceGS() *Converter {
	nc := c.clone()
	nc.optimize.ForceGS = true
	return nc
}

// ForceRaster skips the Ghostscript pre-pass and rasterizes the
// original directly.
func (c *Converter) ForceRaster() *Converter {
	nc := c.clone()
	nc.optimize.ForceRaster = true
	return nc
}

// Title overrides the EPUB title.
func (c *Converter) Title(title string) *Converter {
	nc := c.clone()
	nc.epub.Title = title
	return nc
}

// Author sets the EPUB creator metadata.
func (c *Converter) Author(author string) *Converter {
	nc := c.clone()
	nc.epub.Author = author
	return nc
}

// Optimize runs the raster optimization pipeline and writes the result
// to dst.
func (c *Converter) Optimize(ctx context.Context, dst string) ([]Warning, error) {
	if c.err != nil {
		return nil, c.err
	}
	msgs, err := optimize.Run(ctx, c.filename, dst, c.optimize)
	return wrapWarnings(msgs), err
}

// EPUB rebuilds the document as a reflowable e-book and writes it to
// dst.
func (c *Converter) EPUB(ctx context.Context, dst string) ([]Warning, error) {
	if c.err != nil {
		return nil, c.err
	}
	msgs, err := epub.Convert(ctx, c.filename, dst, c.epub)
	return wrapWarnings(msgs), err
}

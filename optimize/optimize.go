package optimize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/stylus/pagesize"
	"github.com/tsawler/stylus/render"
)

// ErrRasterUnavailable is returned when the conversion requires page
// rasterization (crop, resize, or bilevel output) but rendering support
// was not compiled in and no Ghostscript-only degradation applies.
var ErrRasterUnavailable = errors.New("page rendering support required but not available")

// route identifies which pipeline sequence a conversion takes.
type route int

const (
	// routeRaster runs the raster pipeline directly on the original.
	routeRaster route = iota
	// routeGrayOnly uses the Ghostscript grayscale output as the final
	// result: the target keeps the source geometry and no crop was
	// requested, so no raster pass is needed.
	routeGrayOnly
	// routeGrayThenRaster runs the raster pipeline over the grayscale
	// intermediate, so color conversion stays vector-preserving.
	routeGrayThenRaster
	// routeGrayDegraded falls back to the grayscale-only output because
	// rasterization support is absent. Degraded but successful.
	routeGrayDegraded
)

// selectRoute chooses the pipeline sequence from the capability probes
// and request flags.
func selectRoute(gsAvailable, rasterAvailable, sizeResolved bool, opts Options) (route, error) {
	if !gsAvailable || opts.ForceRaster {
		if !rasterAvailable {
			return 0, ErrRasterUnavailable
		}
		return routeRaster, nil
	}
	if !sizeResolved && !opts.Crop {
		return routeGrayOnly, nil
	}
	if !rasterAvailable {
		return routeGrayDegraded, nil
	}
	return routeGrayThenRaster, nil
}

// Run converts the PDF at in and writes the raster-optimized result to
// out. It returns non-fatal warnings collected along the way. A fatal
// error never leaves a partial file at out.
func Run(ctx context.Context, in, out string, opts Options) ([]string, error) {
	return run(ctx, in, out, opts, NewGhostscript())
}

// run is the testable core of Run with an injectable Ghostscript stage.
func run(ctx context.Context, in, out string, opts Options, gs *Ghostscript) ([]string, error) {
	if _, err := os.Stat(in); err != nil {
		return nil, fmt.Errorf("input not found: %w", err)
	}

	size, resolved := pagesize.Resolve(opts.PageSize, opts.CustomWidthPt, opts.CustomHeightPt)

	r, err := selectRoute(gs.Available(), render.Available(), resolved, opts)
	if err != nil {
		return nil, err
	}

	if r == routeRaster {
		return rasterToPDF(ctx, in, in, out, size, resolved, opts)
	}

	// Vector-preserving grayscale pre-pass. The intermediate is removed
	// once consumed, on success and failure paths alike; after a
	// successful rename the deferred remove is a no-op.
	tmpGray := grayTempPath(out)
	defer os.Remove(tmpGray)
	if err := gs.Grayscale(ctx, in, tmpGray, opts.GSQuality); err != nil {
		return nil, err
	}

	switch r {
	case routeGrayOnly:
		return nil, os.Rename(tmpGray, out)
	case routeGrayDegraded:
		err := os.Rename(tmpGray, out)
		return []string{"page rendering unavailable; wrote grayscale-only output without crop/resize"}, err
	}

	warnings, err := rasterToPDF(ctx, tmpGray, in, out, size, resolved, opts)
	if err != nil {
		return warnings, err
	}
	return warnings, nil
}

// rasterToPDF runs the raster pipeline over src and writes out. When
// the target size is deferred, it is resolved from the first page's own
// geometry, trying the original document when src cannot supply it;
// Scribe is the last resort.
func rasterToPDF(ctx context.Context, src, original, out string, size pagesize.Size, resolved bool, opts Options) ([]string, error) {
	doc, err := render.Open(src)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if !resolved {
		size, err = doc.PageSize(0)
		if err != nil && original != src {
			size, err = sourcePageSize(original)
		}
		if err != nil {
			size = pagesize.Scribe
		}
	}

	pages, err := rasterize(ctx, doc, size, opts)
	if err != nil {
		return nil, err
	}
	return writePDF(out, pages, opts.DPI)
}

// sourcePageSize reads the first page's geometry from path.
func sourcePageSize(path string) (pagesize.Size, error) {
	doc, err := render.Open(path)
	if err != nil {
		return pagesize.Size{}, err
	}
	defer doc.Close()
	return doc.PageSize(0)
}

// grayTempPath derives the grayscale intermediate's path from the
// destination path.
func grayTempPath(out string) string {
	if strings.HasSuffix(strings.ToLower(out), ".pdf") {
		return out[:len(out)-len(".pdf")] + ".gray.tmp.pdf"
	}
	return out + ".gray.tmp.pdf"
}

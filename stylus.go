// Package stylus converts PDF documents for fixed-geometry e-ink
// readers. It offers two output paths: a raster-optimized PDF matched
// to the device panel, and a reflowable EPUB rebuilt from the
// document's text and images.
//
// Basic usage:
//
//	warnings, err := stylus.Open("paper.pdf").Optimize(ctx, "paper_scribe.pdf")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", stylus.FormatWarnings(warnings))
//	}
//
// With options:
//
//	warnings, err := stylus.Open("scan.pdf").
//	    PageSize("a5").
//	    Bilevel().
//	    Sharpen().
//	    Optimize(ctx, "scan_scribe.pdf")
//
// For finer control, the lower-level optimize and epub packages are
// also available.
package stylus

// Open prepares a PDF file for conversion and returns a Converter for
// fluent configuration. The input is not touched until a terminal
// operation runs.
//
// Example:
//
//	warnings, err := stylus.Open("document.pdf").EPUB(ctx, "document.epub")
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		optimize: defaultOptimizeOptions(),
		epub:     defaultEPUBOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

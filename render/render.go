//go:build !nofitz

// Package render rasterizes PDF pages via the MuPDF library.
//
// This package wraps MuPDF through go-fitz, which requires cgo and the
// MuPDF native library at build time. To build without it, use the
// "nofitz" build tag; all functions then return ErrRenderNotEnabled and
// Available reports false, and the conversion pipeline degrades to the
// operations that do not need page rasterization.
package render

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/tsawler/stylus/pagesize"
)

// Available reports whether page rasterization support was compiled in.
func Available() bool {
	return true
}

// Document is an open PDF ready for page rasterization.
type Document struct {
	doc *fitz.Document
}

// Open opens a PDF file for rendering.
// The returned Document must be closed when done.
func Open(filename string) (*Document, error) {
	doc, err := fitz.New(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Close releases the underlying MuPDF resources.
// It is safe to call Close multiple times.
func (d *Document) Close() error {
	if d.doc != nil {
		err := d.doc.Close()
		d.doc = nil
		return err
	}
	return nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// PageSize returns the page's media box dimensions in points.
// Pages are 0-indexed.
func (d *Document) PageSize(page int) (pagesize.Size, error) {
	bounds, err := d.doc.Bound(page)
	if err != nil {
		return pagesize.Size{}, fmt.Errorf("failed to read page %d bounds: %w", page+1, err)
	}
	// Bound reports the page box at 72 DPI, so pixels equal points.
	return pagesize.Size{
		WidthPt:  float64(bounds.Dx()),
		HeightPt: float64(bounds.Dy()),
	}, nil
}

// Render rasterizes the page at the given DPI. Pages are 0-indexed.
func (d *Document) Render(page int, dpi float64) (image.Image, error) {
	img, err := d.doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page+1, err)
	}
	return img, nil
}

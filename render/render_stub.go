//go:build nofitz

// Package render rasterizes PDF pages via the MuPDF library.
//
// This is the stub implementation used when the "nofitz" build tag is
// set, for environments where cgo or the MuPDF native library is
// unavailable. All functions return ErrRenderNotEnabled and Available
// reports false; the conversion pipeline degrades to the operations that
// do not need page rasterization.
package render

import (
	"errors"
	"image"

	"github.com/tsawler/stylus/pagesize"
)

// ErrRenderNotEnabled is returned when rendering functions are called
// but rasterization support was not compiled in. Rebuild without the
// nofitz tag to enable rendering.
var ErrRenderNotEnabled = errors.New("page rendering not enabled; rebuild without the nofitz tag")

// Available reports whether page rasterization support was compiled in.
func Available() bool {
	return false
}

// Document is a stub that cannot rasterize pages.
type Document struct{}

// Open returns ErrRenderNotEnabled.
func Open(filename string) (*Document, error) {
	return nil, ErrRenderNotEnabled
}

// Close is a no-op for the stub document.
func (d *Document) Close() error {
	return nil
}

// PageCount always returns 0 for the stub document.
func (d *Document) PageCount() int {
	return 0
}

// PageSize returns ErrRenderNotEnabled.
func (d *Document) PageSize(page int) (pagesize.Size, error) {
	return pagesize.Size{}, ErrRenderNotEnabled
}

// Render returns ErrRenderNotEnabled.
func (d *Document) Render(page int, dpi float64) (image.Image, error) {
	return nil, ErrRenderNotEnabled
}

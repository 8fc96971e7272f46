package optimize

import (
	"context"
	"image"
	"math"

	"github.com/tsawler/stylus/imaging"
	"github.com/tsawler/stylus/pagesize"
	"github.com/tsawler/stylus/render"
)

// composedPage is a finished output page awaiting PDF assembly.
type composedPage struct {
	img     *image.Gray
	bilevel bool
}

// detectionDPI returns the resolution used for the bounding-box
// detection pass. Detection runs at a reduced resolution to bound its
// cost; the detected box is rescaled into the output space afterwards.
func detectionDPI(dpi int) float64 {
	zoom := float64(dpi) / 150
	if zoom < 1 {
		zoom = 1
	}
	return 72 * zoom
}

// scaleBox maps a rectangle from the detection raster's coordinate
// space into the output raster's space and clamps it to the output
// bounds. The two rasters depict the same page at different
// resolutions, so the mapping is a uniform scale by their ratio.
func scaleBox(box image.Rectangle, ratio float64, out image.Rectangle) image.Rectangle {
	scaled := image.Rect(
		int(math.Floor(float64(box.Min.X)*ratio)),
		int(math.Floor(float64(box.Min.Y)*ratio)),
		int(math.Ceil(float64(box.Max.X)*ratio)),
		int(math.Ceil(float64(box.Max.Y)*ratio)),
	)
	scaled = scaled.Intersect(out)
	if scaled.Empty() {
		return out
	}
	return scaled
}

// preparePage renders one page and returns its cropped, contrast-
// adjusted content image in the output resolution.
func preparePage(doc *render.Document, page int, opts Options) (*image.Gray, error) {
	detDPI := detectionDPI(opts.DPI)

	// Detection pass.
	detImg, err := doc.Render(page, detDPI)
	if err != nil {
		return nil, err
	}
	detGray := imaging.Grayscale(detImg)
	if opts.AutoContrast {
		detGray = imaging.AutoContrast(detGray, opts.AutoContrastCutoff)
	}

	// Output pass.
	outImg, err := doc.Render(page, float64(opts.DPI))
	if err != nil {
		return nil, err
	}
	outGray := imaging.Grayscale(outImg)
	if opts.AutoContrast {
		outGray = imaging.AutoContrast(outGray, opts.AutoContrastCutoff)
	}

	if opts.Crop {
		box := imaging.DetectBBox(detGray, opts.CropThreshold, opts.CropPad)
		box = scaleBox(box, float64(opts.DPI)/detDPI, outGray.Bounds())
		outGray = imaging.Crop(outGray, box)
	}

	if opts.Sharpen {
		outGray = imaging.UnsharpMask(outGray, 120, 3)
	}

	return outGray, nil
}

// composePage scales the page content with the configured fit mode and
// pastes it centered within the margin-inset region of a white canvas
// of exactly the target pixel size.
func composePage(content *image.Gray, size pagesize.Size, opts Options) composedPage {
	targetW, targetH := size.Pixels(opts.DPI)
	in := opts.margins().Pixels(opts.DPI)

	availW := targetW - (in.Left + in.Right)
	if availW < 1 {
		availW = 1
	}
	availH := targetH - (in.Top + in.Bottom)
	if availH < 1 {
		availH = 1
	}

	img := content
	switch opts.Fit {
	case FitWidth:
		newH := int(float64(img.Bounds().Dy()) * float64(availW) / float64(img.Bounds().Dx()))
		img = imaging.Resize(img, availW, newH)
		if img.Bounds().Dy() > availH {
			img = imaging.Crop(img, image.Rect(0, 0, img.Bounds().Dx(), availH))
		}
	case FitHeight:
		newW := int(float64(img.Bounds().Dx()) * float64(availH) / float64(img.Bounds().Dy()))
		img = imaging.Resize(img, newW, availH)
		if img.Bounds().Dx() > availW {
			img = imaging.Crop(img, image.Rect(0, 0, availW, img.Bounds().Dy()))
		}
	case FitStretch:
		img = imaging.Resize(img, availW, availH)
	default: // FitContain
		img = imaging.Contain(img, availW, availH)
	}

	if opts.RotateLandscape && targetH >= targetW && img.Bounds().Dx() > img.Bounds().Dy() {
		img = imaging.Rotate90(img)
	}

	if opts.Bilevel {
		img = imaging.Bilevel(img, opts.Dither)
	}

	canvas := image.NewGray(image.Rect(0, 0, targetW, targetH))
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	x := in.Left + max(0, (availW-w)/2)
	y := in.Top + max(0, (availH-h)/2)
	pasteGray(canvas, img, x, y)

	return composedPage{img: canvas, bilevel: opts.Bilevel}
}

// pasteGray copies src into dst at (x, y), clipping to dst's bounds.
func pasteGray(dst, src *image.Gray, x, y int) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	for row := 0; row < h; row++ {
		dy := y + row
		if dy < 0 || dy >= dst.Bounds().Dy() {
			continue
		}
		for col := 0; col < w; col++ {
			dx := x + col
			if dx < 0 || dx >= dst.Bounds().Dx() {
				continue
			}
			dst.Pix[dy*dst.Stride+dx] = src.Pix[row*src.Stride+col]
		}
	}
}

// rasterize runs the per-page compositor over every page of the
// document, in order.
func rasterize(ctx context.Context, doc *render.Document, size pagesize.Size, opts Options) ([]composedPage, error) {
	count := doc.PageCount()
	pages := make([]composedPage, 0, count)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := preparePage(doc, i, opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, composePage(content, size, opts))
	}
	return pages, nil
}

package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resize scales the image to exactly width x height using Catmull-Rom
// interpolation. Dimensions are clamped to a minimum of 1 pixel.
func Resize(img *image.Gray, width, height int) *image.Gray {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Contain scales the image uniformly so it fits entirely within
// maxWidth x maxHeight, preserving aspect ratio. The image is scaled up
// or down as needed; neither axis ever exceeds its limit.
func Contain(img *image.Gray, maxWidth, maxHeight int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW > maxWidth {
		newW = maxWidth
	}
	if newH > maxHeight {
		newH = maxHeight
	}
	return Resize(img, newW, newH)
}

// Shrink scales the image down, preserving aspect ratio, so its longer
// edge does not exceed maxEdge. Images already within the limit are
// returned unchanged; Shrink never scales up.
func Shrink(img *image.Gray, maxEdge int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	long := w
	if h > long {
		long = h
	}
	if long <= maxEdge || long == 0 {
		return img
	}

	scale := float64(maxEdge) / float64(long)
	return Resize(img, int(float64(w)*scale), int(float64(h)*scale))
}

// Crop returns a copy of the sub-region of the image described by rect,
// clamped to the image bounds. The result has its origin at (0, 0).
func Crop(img *image.Gray, rect image.Rectangle) *image.Gray {
	rect = rect.Intersect(img.Bounds())
	dst := image.NewGray(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		srcOff := (rect.Min.Y-img.Rect.Min.Y+y)*img.Stride + (rect.Min.X - img.Rect.Min.X)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rect.Dx()], img.Pix[srcOff:srcOff+rect.Dx()])
	}
	return dst
}

// Rotate90 rotates the image 90 degrees counter-clockwise.
func Rotate90(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// (x, y) maps to (y, w-1-x) in the rotated image.
			dst.Pix[(w-1-x)*dst.Stride+y] = img.Pix[y*img.Stride+x]
		}
	}
	return dst
}

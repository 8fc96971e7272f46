// Package imaging provides the grayscale raster primitives used by the
// conversion pipelines: content bounding-box detection, contrast
// stretching, scaling, sharpening, rotation, and bilevel conversion.
//
// All operations work on 8-bit grayscale images (image.Gray) and return
// new images; inputs are never modified.
package imaging

import "image"

// DetectBBox finds the bounding box of non-background content in a
// grayscale image. Pixels strictly darker than threshold count as
// foreground. The minimal enclosing box is expanded by pad pixels on
// each side and clamped to the image bounds.
//
// If no pixel is darker than threshold (a blank page), the full image
// bounds are returned unchanged.
func DetectBBox(img *image.Gray, threshold uint8, pad int) image.Rectangle {
	bounds := img.Bounds()

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride : (y-bounds.Min.Y)*img.Stride+bounds.Dx()]
		for i, p := range row {
			if p >= threshold {
				continue
			}
			x := bounds.Min.X + i
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			found = true
		}
	}

	if !found {
		return bounds
	}

	box := image.Rect(minX-pad, minY-pad, maxX+1+pad, maxY+1+pad)
	return box.Intersect(bounds)
}

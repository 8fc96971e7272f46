package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// bilevelPalette holds the two levels a bilevel image may contain.
var bilevelPalette = color.Palette{color.Gray{Y: 0}, color.Gray{Y: 255}}

// Bilevel converts the image to pure black and white. With dither set,
// Floyd-Steinberg error diffusion approximates intermediate tones;
// otherwise a flat threshold at 128 is applied. The result is an 8-bit
// grayscale carrier whose pixels are all 0 or 255.
func Bilevel(img *image.Gray, dither bool) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	if !dither {
		for y := 0; y < h; y++ {
			src := img.Pix[y*img.Stride : y*img.Stride+w]
			out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
			for i, p := range src {
				if p < 128 {
					out[i] = 0
				} else {
					out[i] = 255
				}
			}
		}
		return dst
	}

	pal := image.NewPaletted(image.Rect(0, 0, w, h), bilevelPalette)
	draw.FloydSteinberg.Draw(pal, pal.Bounds(), img, bounds.Min)
	for y := 0; y < h; y++ {
		src := pal.Pix[y*pal.Stride : y*pal.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for i, idx := range src {
			if idx == 0 {
				out[i] = 0
			} else {
				out[i] = 255
			}
		}
	}
	return dst
}

// IsBilevel reports whether every pixel of the image is 0 or 255.
func IsBilevel(img *image.Gray) bool {
	bounds := img.Bounds()
	w := bounds.Dx()
	for y := 0; y < bounds.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for _, p := range row {
			if p != 0 && p != 255 {
				return false
			}
		}
	}
	return true
}

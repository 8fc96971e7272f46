package imaging

import (
	"image"
	"image/draw"
)

// Grayscale converts any image to 8-bit grayscale. If the input is
// already an image.Gray it is returned as-is.
func Grayscale(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

// AutoContrast stretches the image's tonal range to the full 0-255
// scale. The cutoff percentage of the darkest and lightest pixels is
// ignored when computing the range, so isolated extreme pixels do not
// prevent the stretch.
func AutoContrast(img *image.Gray, cutoff int) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	total := w * h
	if total == 0 {
		return img
	}

	var hist [256]int
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for _, p := range row {
			hist[p]++
		}
	}

	// Trim cutoff% of pixels from each end of the histogram.
	trim := total * cutoff / 100
	lo, hi := 0, 255

	n := 0
	for i := 0; i < 256; i++ {
		n += hist[i]
		if n > trim {
			lo = i
			break
		}
	}
	n = 0
	for i := 255; i >= 0; i-- {
		n += hist[i]
		if n > trim {
			hi = i
			break
		}
	}

	if hi <= lo {
		return img
	}

	var lut [256]uint8
	scale := 255.0 / float64(hi-lo)
	for i := 0; i < 256; i++ {
		switch {
		case i <= lo:
			lut[i] = 0
		case i >= hi:
			lut[i] = 255
		default:
			lut[i] = uint8(float64(i-lo)*scale + 0.5)
		}
	}

	dst := image.NewGray(bounds)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for i, p := range src {
			out[i] = lut[p]
		}
	}
	return dst
}

// UnsharpMask sharpens the image by subtracting a blurred copy.
// percent controls the strength (100 = full difference added back);
// pixels whose difference from the blur is at most threshold are left
// untouched, which keeps flat areas free of noise amplification.
func UnsharpMask(img *image.Gray, percent, threshold int) *image.Gray {
	blurred := boxBlur3(img)
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dst := image.NewGray(bounds)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		blur := blurred.Pix[y*blurred.Stride : y*blurred.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for i := range src {
			diff := int(src[i]) - int(blur[i])
			if diff < threshold && diff > -threshold {
				out[i] = src[i]
				continue
			}
			v := int(src[i]) + diff*percent/100
			out[i] = clamp8(v)
		}
	}
	return dst
}

// boxBlur3 applies a 3x3 box blur, clamping at the edges.
func boxBlur3(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(bounds)

	at := func(x, y int) int {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return int(img.Pix[y*img.Stride+x])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sum += at(x+dx, y+dy)
				}
			}
			dst.Pix[y*dst.Stride+x] = uint8((sum + 4) / 9)
		}
	}
	return dst
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

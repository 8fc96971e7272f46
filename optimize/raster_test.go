package optimize

import (
	"bytes"
	"image"
	"testing"

	"github.com/tsawler/stylus/imaging"
	"github.com/tsawler/stylus/pagesize"
)

// makeContent creates a mid-gray content image for composition tests.
func makeContent(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	return img
}

func TestDetectionDPI(t *testing.T) {
	cases := []struct {
		dpi  int
		want float64
	}{
		{300, 144}, // 72 * (300/150)
		{150, 72},
		{72, 72}, // zoom floors at 1
		{600, 288},
	}
	for _, c := range cases {
		if got := detectionDPI(c.dpi); got != c.want {
			t.Errorf("detectionDPI(%d) = %v, want %v", c.dpi, got, c.want)
		}
	}
}

func TestScaleBox(t *testing.T) {
	out := image.Rect(0, 0, 1000, 1000)

	// Detection at half the output resolution: coordinates double.
	box := scaleBox(image.Rect(10, 20, 100, 200), 2, out)
	want := image.Rect(20, 40, 200, 400)
	if box != want {
		t.Errorf("Expected %v, got %v", want, box)
	}

	// Identity when resolutions coincide.
	box = scaleBox(image.Rect(10, 20, 100, 200), 1, out)
	if box != image.Rect(10, 20, 100, 200) {
		t.Errorf("Identity scaling changed the box: %v", box)
	}

	// Result is always clamped to the output bounds.
	box = scaleBox(image.Rect(400, 400, 600, 600), 3, out)
	if !box.In(out) {
		t.Errorf("Box %v exceeds output bounds", box)
	}
}

func TestComposePage_CanvasDimensions(t *testing.T) {
	content := makeContent(500, 700)

	cases := []struct {
		size pagesize.Size
		dpi  int
	}{
		{pagesize.Scribe, 300},
		{pagesize.Scribe, 150},
		{pagesize.A5, 300},
		{pagesize.Size{WidthPt: 612, HeightPt: 792}, 96},
	}

	for _, c := range cases {
		opts := DefaultOptions()
		opts.DPI = c.dpi
		page := composePage(content, c.size, opts)

		wantW := pagesize.Pixels(c.size.WidthPt, c.dpi)
		wantH := pagesize.Pixels(c.size.HeightPt, c.dpi)
		b := page.img.Bounds()
		if b.Dx() != wantW || b.Dy() != wantH {
			t.Errorf("size=%+v dpi=%d: canvas %dx%d, want %dx%d",
				c.size, c.dpi, b.Dx(), b.Dy(), wantW, wantH)
		}
	}
}

func TestComposePage_ContainFitsWithinMargins(t *testing.T) {
	opts := DefaultOptions()
	targetW, targetH := pagesize.Scribe.Pixels(opts.DPI)
	in := pagesize.Uniform(opts.MarginPt).Pixels(opts.DPI)
	availW := targetW - in.Left - in.Right
	availH := targetH - in.Top - in.Bottom

	// Oversized content in both orientations.
	for _, dims := range [][2]int{{5000, 1000}, {1000, 5000}, {4000, 4000}} {
		page := composePage(makeContent(dims[0], dims[1]), pagesize.Scribe, opts)

		// Every pixel outside the margin-inset area must be background.
		img := page.img
		for y := 0; y < img.Bounds().Dy(); y++ {
			for x := 0; x < img.Bounds().Dx(); x++ {
				inside := x >= in.Left && x < targetW-in.Right &&
					y >= in.Top && y < targetH-in.Bottom
				if !inside && img.Pix[y*img.Stride+x] != 255 {
					t.Fatalf("content %v: non-background pixel at (%d,%d) outside the %dx%d available area",
						dims, x, y, availW, availH)
				}
			}
		}
	}
}

func TestComposePage_ContentCentered(t *testing.T) {
	opts := DefaultOptions()
	opts.DPI = 100
	// Content narrower than available area after contain scaling.
	content := makeContent(100, 400)
	page := composePage(content, pagesize.Scribe, opts)

	img := page.img
	// Find the content's horizontal extent on a middle row.
	midY := img.Bounds().Dy() / 2
	first, last := -1, -1
	for x := 0; x < img.Bounds().Dx(); x++ {
		if img.Pix[midY*img.Stride+x] != 255 {
			if first < 0 {
				first = x
			}
			last = x
		}
	}
	if first < 0 {
		t.Fatal("No content found on middle row")
	}

	leftGap := first
	rightGap := img.Bounds().Dx() - 1 - last
	if diff := leftGap - rightGap; diff < -2 || diff > 2 {
		t.Errorf("Content not centered: left gap %d, right gap %d", leftGap, rightGap)
	}
}

func TestComposePage_BilevelFlatThresholdDomain(t *testing.T) {
	opts := DefaultOptions()
	opts.Bilevel = true
	opts.Dither = false

	page := composePage(makeContent(800, 600), pagesize.Scribe, opts)
	if !page.bilevel {
		t.Error("Composed page should be marked bilevel")
	}
	if !imaging.IsBilevel(page.img) {
		t.Error("Bilevel page must contain only 0 and 255 pixel values")
	}
}

func TestComposePage_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Bilevel = true // dithering included

	content := makeContent(1200, 900)
	a := composePage(content, pagesize.Scribe, opts)
	b := composePage(content, pagesize.Scribe, opts)

	if !bytes.Equal(a.img.Pix, b.img.Pix) {
		t.Error("Identical input and options must produce byte-identical pages")
	}
}

func TestComposePage_RotateLandscape(t *testing.T) {
	opts := DefaultOptions()
	opts.RotateLandscape = true
	opts.Crop = false

	// Wide content onto a portrait canvas rotates 90 degrees: after
	// rotation the content column should be taller than wide.
	page := composePage(makeContent(3000, 500), pagesize.Scribe, opts)

	img := page.img
	minX, minY := img.Bounds().Dx(), img.Bounds().Dy()
	maxX, maxY := -1, -1
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if img.Pix[y*img.Stride+x] != 255 {
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
			}
		}
	}
	if maxX < 0 {
		t.Fatal("No content on canvas")
	}
	if (maxY - minY) <= (maxX - minX) {
		t.Errorf("Expected rotated content taller than wide, got %dx%d",
			maxX-minX+1, maxY-minY+1)
	}
}

func TestEncodePage_NormalizeModes(t *testing.T) {
	page := composedPage{img: imaging.Bilevel(makeContent(64, 64), false), bilevel: true}

	oneBit, err := encodePage(page, false)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	gray, err := encodePage(page, true)
	if err != nil {
		t.Fatalf("normalized encode failed: %v", err)
	}

	if bytes.Equal(oneBit, gray) {
		t.Error("1-bit and normalized encodings should differ")
	}
}

package optimize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// encodePage encodes a composed page as PNG. Bilevel pages are written
// as 1-bit paletted PNGs unless normalize is set, in which case every
// page is written as 8-bit grayscale.
func encodePage(p composedPage, normalize bool) ([]byte, error) {
	var src image.Image = p.img

	if p.bilevel && !normalize {
		bounds := p.img.Bounds()
		pal := image.NewPaletted(bounds, color.Palette{color.Gray{Y: 0}, color.Gray{Y: 255}})
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				if p.img.Pix[y*p.img.Stride+x] >= 128 {
					pal.Pix[y*pal.Stride+x] = 1
				}
			}
		}
		src = pal
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	return buf.Bytes(), nil
}

// buildPDF assembles the composed pages, in order, into a single
// multi-page PDF at path.
func buildPDF(path string, pages []composedPage, dpi int, normalize bool) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to write")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, p := range pages {
		data, err := encodePage(p, normalize)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}

		// Page size in points from pixel size and rendering DPI.
		wPt := float64(p.img.Bounds().Dx()) * 72 / float64(dpi)
		hPt := float64(p.img.Bounds().Dy()) * 72 / float64(dpi)

		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: wPt, Ht: hPt})
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(data))
		pdf.ImageOptions(name, 0, 0, wPt, hPt, false, imgOpts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// writePDF writes the composed pages to dst. The document is assembled
// at a temporary path and renamed into place, so a failed conversion
// never leaves a partial file at dst.
//
// A first write failure with mixed bilevel/grayscale pages triggers the
// single documented recovery path: all pages are normalized to 8-bit
// grayscale and the write is retried once. The returned warnings note
// when that retry was taken.
func writePDF(dst string, pages []composedPage, dpi int) ([]string, error) {
	tmp := dst + ".tmp"

	err := buildPDF(tmp, pages, dpi, false)
	if err == nil {
		return nil, os.Rename(tmp, dst)
	}
	os.Remove(tmp)

	warnings := []string{fmt.Sprintf("write failed (%v); normalized all pages to 8-bit grayscale and retried", err)}
	if err := buildPDF(tmp, pages, dpi, true); err != nil {
		os.Remove(tmp)
		return warnings, fmt.Errorf("failed to write PDF after normalizing retry: %w", err)
	}
	return warnings, os.Rename(tmp, dst)
}

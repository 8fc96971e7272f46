package epub

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/tiff"

	"github.com/tsawler/stylus/imaging"
)

const (
	// imageLongEdge caps the long edge of every image written into the
	// book. E-ink panels gain nothing from larger bitmaps.
	imageLongEdge = 1600

	imageJPEGQuality = 80
)

// imageBlob is one processed image ready to be placed in the archive.
// Index is the image's ordinal among the page's extracted images,
// counted before any skips, so figure numbering matches the source
// even when a broken image is dropped.
type imageBlob struct {
	ID        string
	Index     int
	Data      []byte
	MediaType string
}

// extractImages pulls the embedded raster images out of the document,
// keyed by 1-based page number. Images that cannot be decoded or
// re-encoded are skipped with a warning; extraction never fails the
// conversion as a whole.
func extractImages(rs io.ReadSeeker, opts Options) (map[int][]imageBlob, []string) {
	var warnings []string

	pageMaps, err := api.ExtractImagesRaw(rs, nil, model.NewDefaultConfiguration())
	if err != nil {
		return nil, []string{fmt.Sprintf("image extraction failed: %v", err)}
	}

	byPage := make(map[int][]imageBlob)
	counts := make(map[int]int)
	for _, m := range pageMaps {
		// Object-number order keeps output deterministic across runs.
		objNrs := make([]int, 0, len(m))
		for nr := range m {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			img := m[nr]
			if img.Thumb {
				continue
			}
			idx := counts[img.PageNr]
			counts[img.PageNr]++
			blob, err := processImage(img, nr, opts)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("page %d: skipped image %s: %v", img.PageNr, img.Name, err))
				continue
			}
			blob.Index = idx
			byPage[img.PageNr] = append(byPage[img.PageNr], blob)
		}
	}
	return byPage, warnings
}

// processImage decodes one extracted image and re-encodes it for the
// book: grayscale, long edge capped, optional bilevel, JPEG output.
func processImage(img model.Image, objNr int, opts Options) (imageBlob, error) {
	raw, err := io.ReadAll(img)
	if err != nil {
		return imageBlob{}, fmt.Errorf("read: %w", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return imageBlob{}, fmt.Errorf("decode %s: %w", img.FileType, err)
	}

	data, err := encodeBookImage(decoded, opts)
	if err != nil {
		return imageBlob{}, err
	}

	return imageBlob{
		ID:        fmt.Sprintf("img_%d_%d", img.PageNr, objNr),
		Data:      data,
		MediaType: "image/jpeg",
	}, nil
}

// encodeBookImage applies the standard image treatment and encodes the
// result as JPEG.
func encodeBookImage(src image.Image, opts Options) ([]byte, error) {
	gray := imaging.Grayscale(src)
	gray = imaging.Shrink(gray, imageLongEdge)
	if opts.Bilevel {
		gray = imaging.Bilevel(gray, opts.Dither)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gray, &jpeg.Options{Quality: imageJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

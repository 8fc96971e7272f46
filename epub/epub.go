package epub

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/stylus/imaging"
	"github.com/tsawler/stylus/render"
)

// coverWidth is the pixel width of the rendered cover and of whole-page
// fallback renders.
const coverWidth = 1600

// Options configures a PDF to EPUB conversion.
type Options struct {
	// Title overrides the book title. Empty derives it from the input
	// file name.
	Title string

	// Author sets the creator metadata. Optional.
	Author string

	// Bilevel reduces every image, cover included, to pure black and
	// white.
	Bilevel bool

	// Dither selects Floyd-Steinberg diffusion for bilevel reduction.
	Dither bool
}

// DefaultOptions returns the standard conversion settings.
func DefaultOptions() Options {
	return Options{Dither: true}
}

// Convert reads the PDF at in and writes a reflowable EPUB to out. It
// returns non-fatal warnings collected along the way. A fatal error
// never leaves a partial file at out.
func Convert(ctx context.Context, in, out string, opts Options) ([]string, error) {
	f, r, err := pdf.Open(in)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	data, err := os.ReadFile(in)
	if err != nil {
		return nil, err
	}

	var warnings []string

	byPage, imgWarnings := extractImages(bytes.NewReader(data), opts)
	warnings = append(warnings, imgWarnings...)

	base := filepath.Base(in)
	title := opts.Title
	if title == "" {
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	book := &Book{
		Identifier: base,
		Title:      title,
		Author:     opts.Author,
		Language:   "en",
	}

	// Page rendering backs the cover and whole-page fallbacks. Without
	// it those pages degrade to empty placeholders.
	var doc *render.Document
	if render.Available() {
		if d, err := render.Open(in); err == nil {
			doc = d
			defer doc.Close()
		} else {
			warnings = append(warnings, fmt.Sprintf("render open failed: %v", err))
		}
	}

	if doc != nil {
		if cover, err := renderPageJPEG(doc, 0, opts); err == nil {
			book.Cover = cover
		} else {
			warnings = append(warnings, fmt.Sprintf("cover render failed: %v", err))
		}
	}

	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return warnings, err
		}

		var nodes []string
		p := r.Page(i)
		if !p.V.IsNull() {
			nodes = blockNodes(blocksFromPage(p))
		}

		for _, blob := range byPage[i] {
			book.Images = append(book.Images, blob)
		}
		nodes = append(nodes, figureNodes(byPage[i])...)

		// A page with neither text nor images becomes a single image of
		// itself, so nothing silently disappears from the book.
		if len(nodes) == 0 && doc != nil {
			if data, err := renderPageJPEG(doc, i-1, opts); err == nil {
				blob := imageBlob{ID: fmt.Sprintf("page_%d", i), Data: data, MediaType: "image/jpeg"}
				book.Images = append(book.Images, blob)
				nodes = append(nodes, figureNode(blob.ID, fmt.Sprintf("Page %d", i)))
			} else {
				warnings = append(warnings, fmt.Sprintf("page %d: fallback render failed: %v", i, err))
			}
		}
		if len(nodes) == 0 {
			nodes = []string{"<p></p>"}
		}

		book.Chapters = append(book.Chapters, Chapter{
			Title:    fmt.Sprintf("Page %d", i),
			FileName: fmt.Sprintf("chap_%d.xhtml", i),
			Body:     strings.Join(nodes, "\n    "),
		})
	}

	return warnings, writeBook(out, book)
}

func figureNode(id, alt string) string {
	return fmt.Sprintf(`<figure><img src="images/%s.jpg" alt="%s"></figure>`, id, alt)
}

// figureNodes builds the figure markup for a page's extracted images.
// Numbering follows each blob's extraction index, so a skipped image
// leaves a gap instead of shifting the labels that follow it.
func figureNodes(blobs []imageBlob) []string {
	nodes := make([]string, 0, len(blobs))
	for _, b := range blobs {
		nodes = append(nodes, figureNode(b.ID, fmt.Sprintf("Figure %d", b.Index+1)))
	}
	return nodes
}

// renderPageJPEG renders one page at coverWidth pixels wide and encodes
// it with the standard image treatment. page is zero-based.
func renderPageJPEG(doc *render.Document, page int, opts Options) ([]byte, error) {
	size, err := doc.PageSize(page)
	if err != nil {
		return nil, err
	}

	dpi := 72.0
	if size.WidthPt > 0 {
		dpi = math.Max(72, coverWidth*72/size.WidthPt)
	}
	img, err := doc.Render(page, dpi)
	if err != nil {
		return nil, err
	}

	gray := imaging.Grayscale(img)
	if opts.Bilevel {
		gray = imaging.Bilevel(gray, opts.Dither)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gray, &jpeg.Options{Quality: imageJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBook writes the archive through a temp file so a failure never
// leaves a partial book at dst.
func writeBook(dst string, book *Book) error {
	tmp := dst + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := book.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

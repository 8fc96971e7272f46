// Package epub re-renders a PDF as a reflowable e-book: per-page text
// blocks are classified into headings and paragraphs by font size,
// embedded images are extracted and downscaled, and pages that yield
// neither are rasterized whole so no page is ever emitted empty.
package epub

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const (
	// defaultBodySize is assumed when a page carries no usable sizes.
	defaultBodySize = 12.0

	// minSpanSize filters out sub-script and decoration spans when
	// estimating font sizes.
	minSpanSize = 6.0

	// headingRatio is the minimum block-to-body font size ratio for a
	// block to qualify as a heading.
	headingRatio = 1.3

	// maxHeadingLen is the maximum rune length of a heading; longer
	// large-font blocks are kept as paragraphs.
	maxHeadingLen = 140

	// blockGapFactor times the row font size is the vertical gap that
	// starts a new block.
	blockGapFactor = 1.5
)

// Block is one contiguous text block of a page, in reading order, with
// its representative font size (the median of its span sizes).
type Block struct {
	Text     string
	FontSize float64
}

// textRow is one extracted line with its position and font sizes.
type textRow struct {
	pos   int64
	font  float64
	text  string
	sizes []float64
}

// blocksFromPage extracts text blocks from a page in reading order.
// Rows are grouped into blocks by vertical gap: a gap larger than
// blockGapFactor times the previous row's font size starts a new block.
func blocksFromPage(p pdf.Page) []Block {
	raw, err := p.GetTextByRow()
	if err != nil {
		return nil
	}

	// Top of page first. PDF Y grows upward.
	sort.Slice(raw, func(i, j int) bool { return raw[i].Position > raw[j].Position })

	var rows []textRow
	for _, r := range raw {
		row := textRow{pos: r.Position}
		var words []string
		for _, t := range r.Content {
			s := strings.TrimSpace(t.S)
			if s == "" {
				continue
			}
			words = append(words, s)
			if t.FontSize > 0 {
				row.sizes = append(row.sizes, t.FontSize)
				if t.FontSize > row.font {
					row.font = t.FontSize
				}
			}
		}
		if len(words) == 0 {
			continue
		}
		if row.font == 0 {
			row.font = defaultBodySize
		}
		row.text = strings.Join(words, " ")
		rows = append(rows, row)
	}

	var blocks []Block
	var parts []string
	var sizes []float64

	flush := func() {
		text := strings.TrimSpace(strings.Join(parts, " "))
		if text != "" {
			blocks = append(blocks, Block{Text: text, FontSize: medianSize(sizes)})
		}
		parts = parts[:0]
		sizes = sizes[:0]
	}

	for i, row := range rows {
		if i > 0 {
			gap := float64(rows[i-1].pos - row.pos)
			if gap > blockGapFactor*rows[i-1].font {
				flush()
			}
		}
		parts = append(parts, row.text)
		sizes = append(sizes, row.sizes...)
	}
	flush()

	return blocks
}

// medianSize returns the median of the given font sizes, ignoring
// values below minSpanSize. An empty set yields defaultBodySize.
func medianSize(sizes []float64) float64 {
	filtered := make([]float64, 0, len(sizes))
	for _, s := range sizes {
		if s >= minSpanSize {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return defaultBodySize
	}
	sort.Float64s(filtered)
	return filtered[len(filtered)/2]
}

// bodySize estimates the page's body font size as the median of its
// block sizes.
func bodySize(blocks []Block) float64 {
	sizes := make([]float64, 0, len(blocks))
	for _, b := range blocks {
		sizes = append(sizes, b.FontSize)
	}
	return medianSize(sizes)
}

// blockNodes classifies blocks into headings and paragraphs and
// returns the XHTML content nodes in page order.
//
// A block is a heading when its font size is at least headingRatio
// times the body size and its text is short enough. Heading depth
// alternates between h2 and h3 across consecutive qualifying blocks,
// so runs of short large-font lines never repeat a depth; the first
// heading after a non-heading is always h2.
func blockNodes(blocks []Block) []string {
	body := bodySize(blocks)

	nodes := make([]string, 0, len(blocks))
	lastWasHeading := false
	lastTag := ""
	for _, b := range blocks {
		safe := sanitize(b.Text)
		if b.FontSize >= body*headingRatio && len([]rune(b.Text)) <= maxHeadingLen {
			tag := "h2"
			if lastWasHeading && lastTag == "h2" {
				tag = "h3"
			}
			nodes = append(nodes, fmt.Sprintf("<%s>%s</%s>", tag, safe, tag))
			lastWasHeading = true
			lastTag = tag
		} else {
			nodes = append(nodes, fmt.Sprintf("<p>%s</p>", safe))
			lastWasHeading = false
		}
	}
	return nodes
}

// sanitize normalizes extracted text and escapes it for XHTML.
func sanitize(s string) string {
	return html.EscapeString(norm.NFC.String(s))
}

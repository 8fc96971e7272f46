package epub

import (
	"strings"
	"testing"
)

func TestMedianSize(t *testing.T) {
	cases := []struct {
		name  string
		sizes []float64
		want  float64
	}{
		{"typical body with one heading span", []float64{12, 12, 12, 20}, 12},
		{"empty falls back to default", nil, 12},
		{"decoration spans filtered out", []float64{2, 3, 14, 14, 14}, 14},
		{"all below threshold falls back", []float64{2, 3, 4}, 12},
	}
	for _, c := range cases {
		if got := medianSize(c.sizes); got != c.want {
			t.Errorf("%s: medianSize(%v) = %v, want %v", c.name, c.sizes, got, c.want)
		}
	}
}

func TestBodySize(t *testing.T) {
	blocks := []Block{
		{Text: "a", FontSize: 12},
		{Text: "b", FontSize: 12},
		{Text: "c", FontSize: 24},
	}
	if got := bodySize(blocks); got != 12 {
		t.Errorf("bodySize = %v, want 12", got)
	}
	if got := bodySize(nil); got != 12 {
		t.Errorf("bodySize(nil) = %v, want default 12", got)
	}
}

func TestBlockNodes_HeadingClassification(t *testing.T) {
	// Enough body-size blocks that the page median stays at 12.
	blocks := []Block{
		{Text: "Chapter One", FontSize: 18},
		{Text: "Some body text here.", FontSize: 12},
		{Text: "Almost large", FontSize: 15}, // below 1.3x of body 12
		{Text: "More body.", FontSize: 12},
		{Text: "Closing body.", FontSize: 12},
	}

	nodes := blockNodes(blocks)
	if len(nodes) != 5 {
		t.Fatalf("Expected 5 nodes, got %d", len(nodes))
	}
	if !strings.HasPrefix(nodes[0], "<h2>") {
		t.Errorf("Large short block should be a heading, got %q", nodes[0])
	}
	for _, n := range nodes[1:] {
		if !strings.HasPrefix(n, "<p>") {
			t.Errorf("Body-sized block should be a paragraph, got %q", n)
		}
	}
}

func TestBlockNodes_LongBlockStaysParagraph(t *testing.T) {
	long := strings.Repeat("word ", 40) // well over the rune limit
	blocks := []Block{
		{Text: long, FontSize: 20},
		{Text: "body", FontSize: 12},
		{Text: "body", FontSize: 12},
	}

	nodes := blockNodes(blocks)
	if !strings.HasPrefix(nodes[0], "<p>") {
		t.Errorf("Long large-font block should stay a paragraph, got %q", nodes[0][:20])
	}
}

func TestBlockNodes_ConsecutiveHeadingsAlternateDepth(t *testing.T) {
	// Five body blocks against four large ones keep the median at 12,
	// so every 20pt block qualifies as a heading.
	blocks := []Block{
		{Text: "Title", FontSize: 20},
		{Text: "Subtitle", FontSize: 20},
		{Text: "Another", FontSize: 20},
		{Text: "body text", FontSize: 12},
		{Text: "body text", FontSize: 12},
		{Text: "body text", FontSize: 12},
		{Text: "body text", FontSize: 12},
		{Text: "body text", FontSize: 12},
		{Text: "Next Section", FontSize: 20},
	}

	nodes := blockNodes(blocks)

	// No two consecutive headings may share a depth.
	prevTag := ""
	for _, n := range nodes {
		tag := ""
		if strings.HasPrefix(n, "<h2>") {
			tag = "h2"
		} else if strings.HasPrefix(n, "<h3>") {
			tag = "h3"
		}
		if tag != "" && tag == prevTag {
			t.Errorf("Consecutive headings share depth %s: %v", tag, nodes)
		}
		prevTag = tag
	}

	// The first heading after body text restarts at h2.
	if !strings.HasPrefix(nodes[0], "<h2>") {
		t.Errorf("First heading should be h2, got %q", nodes[0])
	}
	if !strings.HasPrefix(nodes[8], "<h2>") {
		t.Errorf("Heading after paragraphs should restart at h2, got %q", nodes[8])
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("a < b & c"); got != "a &lt; b &amp; c" {
		t.Errorf("Markup not escaped: %q", got)
	}

	// Decomposed e + combining acute normalizes to the composed form.
	if got := sanitize("cafe\u0301"); got != "caf\u00e9" {
		t.Errorf("Expected NFC normalization, got %q", got)
	}
}

package epub

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func TestFigureNodes_NumberingSurvivesSkips(t *testing.T) {
	// Index 1 missing: that image was skipped during extraction.
	blobs := []imageBlob{
		{ID: "img_4_10", Index: 0},
		{ID: "img_4_12", Index: 2},
	}

	nodes := figureNodes(blobs)
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	if !strings.Contains(nodes[0], `alt="Figure 1"`) {
		t.Errorf("First figure mislabeled: %q", nodes[0])
	}
	if !strings.Contains(nodes[1], `alt="Figure 3"`) {
		t.Errorf("Figure after a skip should keep its source number, got %q", nodes[1])
	}
	if !strings.Contains(nodes[1], `src="images/img_4_12.jpg"`) {
		t.Errorf("Figure source wrong: %q", nodes[1])
	}
}

func TestProcessImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	blob, err := processImage(model.Image{
		Reader:   bytes.NewReader(buf.Bytes()),
		PageNr:   1,
		Name:     "Im1",
		FileType: "png",
	}, 7, DefaultOptions())
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}

	if blob.ID != "img_1_7" {
		t.Errorf("Expected ID img_1_7, got %q", blob.ID)
	}
	if blob.MediaType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", blob.MediaType)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(blob.Data))
	if err != nil {
		t.Fatalf("Output is not a decodable JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("Unexpected output dimensions %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessImage_UndecodableIsError(t *testing.T) {
	_, err := processImage(model.Image{
		Reader:   bytes.NewReader([]byte("not an image")),
		PageNr:   2,
		Name:     "Im9",
		FileType: "jpx",
	}, 3, DefaultOptions())
	if err == nil {
		t.Fatal("Expected decode error for unsupported data")
	}
}

package optimize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/stylus/pagesize"
)

func TestSelectRoute_NoGhostscript(t *testing.T) {
	opts := DefaultOptions()

	r, err := selectRoute(false, true, true, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r != routeRaster {
		t.Errorf("No Ghostscript should rasterize the original, got %v", r)
	}

	// Raster capability is mandatory on this path.
	if _, err := selectRoute(false, false, true, opts); !errors.Is(err, ErrRasterUnavailable) {
		t.Errorf("Expected ErrRasterUnavailable, got %v", err)
	}
}

func TestSelectRoute_ForceRaster(t *testing.T) {
	opts := DefaultOptions()
	opts.ForceRaster = true

	r, err := selectRoute(true, true, true, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r != routeRaster {
		t.Errorf("ForceRaster should bypass Ghostscript, got %v", r)
	}
}

func TestSelectRoute_GrayscaleOnly(t *testing.T) {
	// Source geometry kept and no crop: the intermediate is final,
	// regardless of margins.
	opts := DefaultOptions()
	opts.Crop = false

	r, err := selectRoute(true, true, false, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r != routeGrayOnly {
		t.Errorf("Expected grayscale-only route, got %v", r)
	}
}

func TestSelectRoute_CropForcesRasterPass(t *testing.T) {
	// Crop requested while keeping source geometry still needs the
	// raster pipeline, run over the intermediate.
	opts := DefaultOptions()
	opts.Crop = true

	r, err := selectRoute(true, true, false, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r != routeGrayThenRaster {
		t.Errorf("Expected gray-then-raster route, got %v", r)
	}
}

func TestSelectRoute_ResolvedTargetUsesIntermediate(t *testing.T) {
	opts := DefaultOptions()

	r, err := selectRoute(true, true, true, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r != routeGrayThenRaster {
		t.Errorf("Explicit target size should raster over the intermediate, got %v", r)
	}
}

func TestSelectRoute_DegradedWithoutRaster(t *testing.T) {
	// Ghostscript present but rasterization absent: grayscale-only
	// output is returned even though cropping was requested.
	opts := DefaultOptions()
	opts.Crop = true

	r, err := selectRoute(true, false, true, opts)
	if err != nil {
		t.Fatalf("Degraded mode must not error, got %v", err)
	}
	if r != routeGrayDegraded {
		t.Errorf("Expected degraded grayscale route, got %v", r)
	}
}

// writingRunner creates the file named by -sOutputFile, standing in for
// a gs run that produced its output.
type writingRunner struct{}

func (writingRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	for _, a := range args {
		if rest, ok := strings.CutPrefix(a, "-sOutputFile="); ok {
			return "", os.WriteFile(rest, []byte("%PDF-1.4 gray"), 0o644)
		}
	}
	return "", nil
}

func TestRun_GrayscaleOnlyCleansIntermediateOnFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(in, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A directory at the destination path makes the final rename fail.
	out := filepath.Join(dir, "out.pdf")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}

	gs := &Ghostscript{
		Runner:   writingRunner{},
		LookPath: func(string) (string, error) { return "/usr/bin/gs", nil },
	}
	opts := DefaultOptions()
	opts.PageSize = pagesize.ModeSource
	opts.Crop = false

	_, err := run(context.Background(), in, out, opts, gs)
	if err == nil {
		t.Fatal("Expected the rename onto a directory to fail")
	}
	if _, statErr := os.Stat(grayTempPath(out)); !os.IsNotExist(statErr) {
		t.Error("Grayscale intermediate left behind after a failed conversion")
	}
}

func TestGrayTempPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/tmp/out.pdf", "/tmp/out.gray.tmp.pdf"},
		{"/tmp/OUT.PDF", "/tmp/OUT.gray.tmp.pdf"},
		{"/tmp/out", "/tmp/out.gray.tmp.pdf"},
	}
	for _, c := range cases {
		if got := grayTempPath(c.in); got != c.want {
			t.Errorf("grayTempPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseFitMode(t *testing.T) {
	for _, s := range []string{"contain", "fit_width", "fit_height", "stretch"} {
		if _, err := ParseFitMode(s); err != nil {
			t.Errorf("ParseFitMode(%q) returned error: %v", s, err)
		}
	}
	if _, err := ParseFitMode("cover"); err == nil {
		t.Error("Expected error for unknown fit mode")
	}
}

func TestOptionsMargins(t *testing.T) {
	opts := DefaultOptions()
	m := opts.margins()
	if m.Top != 14 || m.Right != 14 || m.Bottom != 14 || m.Left != 14 {
		t.Errorf("Default margins should be uniform 14pt, got %+v", m)
	}

	override := 28.0
	opts.MarginLeftPt = &override
	m = opts.margins()
	if m.Left != 28 {
		t.Errorf("Left override ignored: %+v", m)
	}
	if m.Top != 14 || m.Right != 14 || m.Bottom != 14 {
		t.Errorf("Override must not affect other sides: %+v", m)
	}
}

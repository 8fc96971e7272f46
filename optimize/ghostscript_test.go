package optimize

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner records the command it was asked to run.
type fakeRunner struct {
	name   string
	args   []string
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	return f.stderr, f.err
}

func TestGhostscript_GrayscaleCommand(t *testing.T) {
	runner := &fakeRunner{}
	gs := &Ghostscript{Runner: runner}

	err := gs.Grayscale(context.Background(), "in.pdf", "out.pdf", QualityPrepress)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if runner.name != "gs" {
		t.Errorf("Expected gs binary, got %q", runner.name)
	}

	joined := strings.Join(runner.args, " ")
	for _, want := range []string{
		"-sDEVICE=pdfwrite",
		"-sColorConversionStrategy=Gray",
		"-dPDFSETTINGS=/prepress",
		"-sOutputFile=out.pdf",
		"in.pdf",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Command missing %q: %s", want, joined)
		}
	}

	// Input must be the final argument.
	if runner.args[len(runner.args)-1] != "in.pdf" {
		t.Errorf("Input should be the last argument, got %v", runner.args)
	}
}

func TestGhostscript_FailureIsFatal(t *testing.T) {
	runner := &fakeRunner{stderr: "GPL Ghostscript: error", err: errors.New("exit status 1")}
	gs := &Ghostscript{Runner: runner}

	err := gs.Grayscale(context.Background(), "in.pdf", "out.pdf", QualityEbook)
	if err == nil {
		t.Fatal("Expected error from non-zero exit")
	}
	if !strings.Contains(err.Error(), "GPL Ghostscript: error") {
		t.Errorf("Error should carry stderr, got: %v", err)
	}
}

func TestGhostscript_Available(t *testing.T) {
	gs := &Ghostscript{LookPath: func(string) (string, error) { return "/usr/bin/gs", nil }}
	if !gs.Available() {
		t.Error("Expected available when LookPath succeeds")
	}

	gs = &Ghostscript{LookPath: func(string) (string, error) { return "", errors.New("not found") }}
	if gs.Available() {
		t.Error("Expected unavailable when LookPath fails")
	}
}

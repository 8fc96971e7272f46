package optimize

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner abstracts subprocess execution so the Ghostscript stage
// can be tested without a real gs binary.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run executes the command and captures stderr for error reporting.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

// Ghostscript converts PDFs to DeviceGray while preserving vector
// content, by invoking the gs binary.
type Ghostscript struct {
	// Runner executes the gs command. Defaults to ExecRunner.
	Runner CommandRunner

	// LookPath locates the gs binary. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewGhostscript creates a Ghostscript stage backed by the real binary.
func NewGhostscript() *Ghostscript {
	return &Ghostscript{
		Runner:   ExecRunner{},
		LookPath: exec.LookPath,
	}
}

// Available reports whether the gs binary is present on PATH.
func (g *Ghostscript) Available() bool {
	_, err := g.LookPath("gs")
	return err == nil
}

// Grayscale converts inPDF to a vector-preserving grayscale PDF at
// outPDF. A non-zero exit from gs is fatal to the whole conversion.
func (g *Ghostscript) Grayscale(ctx context.Context, inPDF, outPDF string, quality Quality) error {
	args := []string{
		"-dSAFER", "-dBATCH", "-dNOPAUSE", "-dCompatibilityLevel=1.7",
		"-sDEVICE=pdfwrite",
		"-sColorConversionStrategy=Gray",
		"-dProcessColorModel=/DeviceGray",
		"-dConvertCMYKImagesToRGB=false",
		"-dDetectDuplicateImages=true",
		fmt.Sprintf("-dPDFSETTINGS=/%s", quality),
		fmt.Sprintf("-sOutputFile=%s", outPDF),
		inPDF,
	}

	stderr, err := g.Runner.Run(ctx, "gs", args...)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("ghostscript failed: %s: %w", stderr, err)
		}
		return fmt.Errorf("ghostscript failed: %w", err)
	}
	return nil
}

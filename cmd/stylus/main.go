package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "stylus",
	Short:         "Convert PDFs for fixed-geometry e-ink readers",
	Long:          "stylus prepares PDF documents for e-ink devices: a raster-optimized\nPDF matched to the device panel, or a reflowable EPUB rebuilt from the\ndocument's text and images.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(optimizeCmd, epubCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printWarnings writes conversion warnings to stderr, one per line.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}

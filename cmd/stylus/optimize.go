package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/stylus/optimize"
	"github.com/tsawler/stylus/pagesize"
)

var optimizeFlags = struct {
	out          string
	pageSize     string
	customWidth  float64
	customHeight float64
	margin       float64
	marginTop    float64
	marginRight  float64
	marginBottom float64
	marginLeft   float64
	dpi          int
	noAutoContr  bool
	acCutoff     int
	noCrop       bool
	cropThresh   uint8
	cropPad      int
	fit          string
	sharpen      bool
	bilevel      bool
	noDither     bool
	rotateLand   bool
	gsQuality    string
	forceGS      bool
	forceRaster  bool
}{}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <input.pdf>",
	Short: "Write a raster-optimized PDF for the device panel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		out := optimizeFlags.out
		if out == "" {
			out = derivedOutput(in, "_scribe.pdf")
		}

		opts, err := optimizeOptions(cmd)
		if err != nil {
			return err
		}

		warnings, err := optimize.Run(cmd.Context(), in, out, opts)
		printWarnings(warnings)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	f := optimizeCmd.Flags()
	f.StringVarP(&optimizeFlags.out, "out", "o", "", "output path (default: <input>_scribe.pdf)")
	f.StringVar(&optimizeFlags.pageSize, "page-size", "scribe", "target page size: scribe, a5, source, custom")
	f.Float64Var(&optimizeFlags.customWidth, "custom-width-pt", 0, "custom page width in points")
	f.Float64Var(&optimizeFlags.customHeight, "custom-height-pt", 0, "custom page height in points")
	f.Float64Var(&optimizeFlags.margin, "margin-pt", 14, "margin on every side in points")
	f.Float64Var(&optimizeFlags.marginTop, "margin-top-pt", 0, "top margin override in points")
	f.Float64Var(&optimizeFlags.marginRight, "margin-right-pt", 0, "right margin override in points")
	f.Float64Var(&optimizeFlags.marginBottom, "margin-bottom-pt", 0, "bottom margin override in points")
	f.Float64Var(&optimizeFlags.marginLeft, "margin-left-pt", 0, "left margin override in points")
	f.IntVar(&optimizeFlags.dpi, "dpi", 300, "rasterization resolution")
	f.BoolVar(&optimizeFlags.noAutoContr, "no-autocontrast", false, "disable contrast stretching")
	f.IntVar(&optimizeFlags.acCutoff, "autocontrast-cutoff", 1, "histogram percentage trimmed per end before stretching")
	f.BoolVar(&optimizeFlags.noCrop, "no-crop", false, "disable content cropping")
	f.Uint8Var(&optimizeFlags.cropThresh, "crop-threshold", 245, "gray level below which a pixel counts as content")
	f.IntVar(&optimizeFlags.cropPad, "crop-pad", 10, "padding kept around the detected content box, in detection pixels")
	f.StringVar(&optimizeFlags.fit, "fit", "contain", "fit policy: contain, fit_width, fit_height, stretch")
	f.BoolVar(&optimizeFlags.sharpen, "sharpen", false, "apply unsharp masking")
	f.BoolVar(&optimizeFlags.bilevel, "bilevel", false, "reduce output to pure black and white")
	f.BoolVar(&optimizeFlags.noDither, "no-dither", false, "use a flat threshold instead of dithering for bilevel")
	f.BoolVar(&optimizeFlags.rotateLand, "rotate-landscape", false, "rotate landscape content onto portrait pages")
	f.StringVar(&optimizeFlags.gsQuality, "gs-quality", "prepress", "Ghostscript preset: screen, ebook, printer, prepress, default")
	f.BoolVar(&optimizeFlags.forceGS, "force-gs", false, "request the Ghostscript pre-pass explicitly")
	f.BoolVar(&optimizeFlags.forceRaster, "force-raster", false, "skip Ghostscript and rasterize the original directly")
}

// optimizeOptions translates the parsed flags into pipeline options.
// Margin overrides only apply when the flag was given on the command
// line, so a zero override is expressible.
func optimizeOptions(cmd *cobra.Command) (optimize.Options, error) {
	opts := optimize.DefaultOptions()

	mode, err := pagesize.ParseMode(optimizeFlags.pageSize)
	if err != nil {
		return opts, err
	}
	fit, err := optimize.ParseFitMode(optimizeFlags.fit)
	if err != nil {
		return opts, err
	}
	quality, err := optimize.ParseQuality(optimizeFlags.gsQuality)
	if err != nil {
		return opts, err
	}

	opts.PageSize = mode
	opts.CustomWidthPt = optimizeFlags.customWidth
	opts.CustomHeightPt = optimizeFlags.customHeight
	opts.MarginPt = optimizeFlags.margin
	opts.DPI = optimizeFlags.dpi
	opts.AutoContrast = !optimizeFlags.noAutoContr
	opts.AutoContrastCutoff = optimizeFlags.acCutoff
	opts.Crop = !optimizeFlags.noCrop
	opts.CropThreshold = optimizeFlags.cropThresh
	opts.CropPad = optimizeFlags.cropPad
	opts.Fit = fit
	opts.Sharpen = optimizeFlags.sharpen
	opts.Bilevel = optimizeFlags.bilevel
	opts.Dither = !optimizeFlags.noDither
	opts.RotateLandscape = optimizeFlags.rotateLand
	opts.GSQuality = quality
	opts.ForceGS = optimizeFlags.forceGS
	opts.ForceRaster = optimizeFlags.forceRaster

	flags := cmd.Flags()
	if flags.Changed("margin-top-pt") {
		opts.MarginTopPt = &optimizeFlags.marginTop
	}
	if flags.Changed("margin-right-pt") {
		opts.MarginRightPt = &optimizeFlags.marginRight
	}
	if flags.Changed("margin-bottom-pt") {
		opts.MarginBottomPt = &optimizeFlags.marginBottom
	}
	if flags.Changed("margin-left-pt") {
		opts.MarginLeftPt = &optimizeFlags.marginLeft
	}

	return opts, nil
}

// derivedOutput builds the default output path from the input path.
func derivedOutput(in, suffix string) string {
	ext := filepath.Ext(in)
	if strings.EqualFold(ext, ".pdf") {
		return strings.TrimSuffix(in, ext) + suffix
	}
	return in + suffix
}

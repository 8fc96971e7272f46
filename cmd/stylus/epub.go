package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/stylus/epub"
)

var epubFlags = struct {
	out      string
	title    string
	author   string
	bilevel  bool
	noDither bool
}{}

var epubCmd = &cobra.Command{
	Use:   "epub <input.pdf>",
	Short: "Rebuild the PDF as a reflowable EPUB",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		out := epubFlags.out
		if out == "" {
			out = derivedOutput(in, ".epub")
		}

		opts := epub.DefaultOptions()
		opts.Title = epubFlags.title
		opts.Author = epubFlags.author
		opts.Bilevel = epubFlags.bilevel
		opts.Dither = !epubFlags.noDither

		warnings, err := epub.Convert(cmd.Context(), in, out, opts)
		printWarnings(warnings)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	f := epubCmd.Flags()
	f.StringVarP(&epubFlags.out, "out", "o", "", "output path (default: <input>.epub)")
	f.StringVar(&epubFlags.title, "title", "", "book title (default: input file name)")
	f.StringVar(&epubFlags.author, "author", "", "book author")
	f.BoolVar(&epubFlags.bilevel, "bilevel", false, "reduce images to pure black and white")
	f.BoolVar(&epubFlags.noDither, "no-dither", false, "use a flat threshold instead of dithering for bilevel")
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/zoobzio/spanned"
)

var (
	spansFormat string
	spansColor  string
)

var spansCmd = &cobra.Command{
	Use:   "spans FILE",
	Short: "Print the span of every value in a document",
	Long: `Decode FILE and print one line per value: its path, byte span,
line:column, kind and a short preview.

The format is taken from --format, then the config file, then the file extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpans,
}

func init() {
	spansCmd.Flags().StringVarP(&spansFormat, "format", "f", "", "Input format (json, yaml, msgpack, bson, toml)")
	spansCmd.Flags().StringVar(&spansColor, "color", "", "Color output: auto, always, never")
}

type styles struct {
	path    *color.Color
	span    *color.Color
	unknown *color.Color
	kind    *color.Color
}

func newStyles() styles {
	return styles{
		path:    color.New(color.Bold),
		span:    color.New(color.FgHiGreen),
		unknown: color.New(color.FgYellow),
		kind:    color.New(color.FgHiBlue),
	}
}

// applyColorMode sets color.NoColor for mode.
func applyColorMode(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		color.NoColor = os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runSpans(cmd *cobra.Command, args []string) error {
	path := args[0]

	name := settings.Format
	if spansFormat != "" {
		name = spansFormat
	}
	name, format, err := resolveFormat(name, path)
	if err != nil {
		return err
	}

	mode := settings.Color
	if spansColor != "" {
		mode = spansColor
	}
	applyColorMode(mode)

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug().Str("file", path).Str("format", name).Int("bytes", len(src)).Msg("decoding")

	root, err := spanned.UnmarshalAs[spanned.Spanned[node]](context.Background(), format, src)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("decode failed")
		return err
	}

	entries := flatten(root)
	logger.Debug().Int("values", len(entries)).Bool("positions", root.Known()).Msg("decoded")
	return writeSpans(cmd.OutOrStdout(), entries, newLineIndex(src), newStyles())
}

// writeSpans prints entries as aligned columns.
func writeSpans(out io.Writer, entries []entry, li *lineIndex, s styles) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		span, loc := s.unknown.Sprint("?"), s.unknown.Sprint("?")
		if e.Start != spanned.Unknown && e.End != spanned.Unknown {
			span = s.span.Sprintf("%d..%d", e.Start, e.End)
			if line, col, ok := li.position(e.Start); ok {
				loc = fmt.Sprintf("%d:%d", line, col)
			}
		}
		fields := []string{s.path.Sprint(e.Path), span, loc, s.kind.Sprint(e.Kind)}
		if e.Value != "" {
			fields = append(fields, e.Value)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

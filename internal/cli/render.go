package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/casperflow/pkg/editor"
	errs "github.com/matzehuels/casperflow/pkg/errors"
	pkgio "github.com/matzehuels/casperflow/pkg/io"
	"github.com/matzehuels/casperflow/pkg/netlist"
	"github.com/matzehuels/casperflow/pkg/render/nodelink"
)

// Output formats accepted by --format.
const (
	formatSVG  = "svg"
	formatDOT  = "dot"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatJSON = "json"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "dot", "pdf", "png", "json"
	detailed bool     // show pin kinds and module ids
	pinned   bool     // pin modules at their stored positions
	scale    float64  // PNG scale factor
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render <design.json>",
		Short: "Render a design as a Graphviz diagram",
		Long: `Render a design as a left-to-right node-link diagram. Each module is a
record with its inputs on the left and outputs on the right; wires are
colored by signal kind.

PDF and PNG output require rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show pin kinds and module ids")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", false, "keep modules at their stored positions (neato)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatSVG: true, formatDOT: true, formatPDF: true, formatPNG: true, formatJSON: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %s (must be 'svg', 'dot', 'pdf', 'png' or 'json')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath picks the file for one format. A single format honours an
// explicit -o verbatim. The input file is never overwritten.
func outputPath(opts *renderOpts, input, format string) string {
	path := opts.output
	if len(opts.formats) != 1 || path == "" {
		path = basePath(opts.output, input) + "." + format
	}
	if filepath.Clean(path) == filepath.Clean(input) {
		ext := filepath.Ext(path)
		path = strings.TrimSuffix(path, ext) + ".out" + ext
	}
	return path
}

// runRender loads the design and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	c.Logger.Infof("Rendering %s", input)
	prog := newProgress(c.Logger)

	ed, g, err := c.openDesign(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded design: %d modules, %d wires", len(g.Modules), len(g.Wires))

	var dot string
	err = ed.View(func(n *netlist.Netlist) error {
		dot = nodelink.ToDOT(n, nodelink.Options{Detailed: opts.detailed, Pinned: opts.pinned})
		return nil
	})
	if err != nil {
		return err
	}

	for _, format := range opts.formats {
		var data []byte
		err := c.convert(ctx, format, func() (err error) {
			data, err = renderFormat(ed, dot, format, opts)
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := outputPath(opts, input, format)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d modules", len(g.Modules)))
	return nil
}

// convert runs fn, with a spinner for the formats that go through
// rsvg-convert.
func (c *CLI) convert(ctx context.Context, format string, fn func() error) error {
	if format != formatPDF && format != formatPNG {
		return fn()
	}
	return withSpinner(ctx, c.status, "Converting to "+format+"...", fn)
}

func renderFormat(ed *editor.Editor, dot, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return nodelink.RenderSVG(dot)
	case formatPDF:
		return nodelink.RenderPDF(dot)
	case formatPNG:
		return nodelink.RenderPNG(dot, opts.scale)
	case formatJSON:
		d, err := ed.ExportDesign()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := pkgio.WriteDesign(d, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format %q", format)
}

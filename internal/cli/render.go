package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodedesign/pkg/cache"
	"github.com/matzehuels/nodedesign/pkg/render"
	"github.com/matzehuels/nodedesign/pkg/render/nodelink"
	"github.com/matzehuels/nodedesign/pkg/workflow"
)

// defaultPNGScale is the rsvg-convert zoom for PNG output.
const defaultPNGScale = 2.0

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single format) or base path (multiple)
	formats   []string // output formats: "svg", "pdf", "png", "dot"
	placement string   // "positioned" (canvas coordinates) or "ranked"
	detailed  bool     // add position, size and level to labels
	scale     float64  // PNG zoom factor
	noCache   bool     // skip the preview cache
}

// renderCommand creates the render command for workflow previews.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render <workflow.json>",
		Short: "Render a workflow preview to SVG, PDF, PNG or DOT",
		Long: `Render a workflow as a Graphviz node-link preview.

By default every node is drawn at its canvas position, so the preview shows
the effect of layout operations. --placement ranked lets Graphviz rank the
nodes by flow instead. Selected nodes get a thick outline.

SVG output is cached locally; PDF and PNG are converted from the SVG with
rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.placement, "placement", "positioned", "node placement: positioned, ranked")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show position, size and flow level in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !render.ValidFormat(f) {
			return fmt.Errorf("invalid format: %s (must be one of %s)", f, strings.Join(render.Formats, ", "))
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
	if render.ValidFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath picks the file for one format. A single format honours an
// explicit -o as given.
func outputPath(opts renderOpts, input, format string) string {
	if len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

// runRender loads the workflow and writes one preview per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read workflow %s: %w", input, err)
	}
	doc, err := workflow.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("load workflow %s: %w", input, err)
	}
	placement, err := nodelink.ParsePlacement(opts.placement)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(doc.Nodes(), nodelink.Options{
		Placement: placement,
		Detailed:  opts.detailed,
		Selected:  doc.Selection(),
	})
	logger.Debugf("Generated DOT: %d bytes", len(dot))

	var (
		svg    []byte
		cached bool
	)
	needSVG := false
	for _, f := range opts.formats {
		needSVG = needSVG || f != render.FormatDOT
	}
	if needSVG {
		store, err := newCache(opts.noCache)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer store.Close()

		key := cache.NewDefaultKeyer().PreviewKey(cache.Hash(data), cache.PreviewKeyOpts{
			Format:    render.FormatSVG,
			Placement: opts.placement,
			Detailed:  opts.detailed,
		})
		svg, cached, err = cachedSVG(ctx, store, key, dot, placement)
		if err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Writing previews...")
	spinner.Start()
	var written []string
	for i, format := range opts.formats {
		spinner.Update("Writing %s (%d/%d)...", format, i+1, len(opts.formats))
		out, err := render.Convert(ctx, format, dot, svg, opts.scale)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("%s: %w", format, err)
		}
		path := outputPath(opts, input, format)
		if err := writeOutput(path, out); err != nil {
			spinner.Stop()
			return err
		}
		logger.Debugf("Wrote %s (%d bytes)", path, len(out))
		written = append(written, path)
	}
	spinner.Stop()
	if opts.output == "-" {
		return nil
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(len(doc.Nodes()), len(doc.Links()), cached)
	return nil
}

// cachedSVG returns the SVG for key, rendering and storing it on a miss.
func cachedSVG(ctx context.Context, c cache.Cache, key, dot string, placement nodelink.Placement) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)
	if data, hit, err := c.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "error", err)
	} else if hit {
		return data, true, nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot, placement)
	if err != nil {
		return nil, false, fmt.Errorf("render svg: %w", err)
	}
	if err := c.Set(ctx, key, svg, cache.DefaultTTL); err != nil {
		logger.Warn("cache write failed", "error", err)
	}
	return svg, false, nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}

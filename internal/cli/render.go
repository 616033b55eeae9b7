package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankorder/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "dot", "svg", "png"
	detailed bool     // show row, cluster and metadata in node labels
	weights  bool     // scale edge pen width by weight
	noCache  bool
	order    pipeline.Options
}

// renderCommand creates the render command for drawing ordered graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		flags      orderFlags
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Order a graph and render it as DOT, SVG or PNG",
		Long: `Order a graph and render it as DOT, SVG or PNG.

The graph is ordered exactly like 'order' does (cached results are reused)
and drawn as a node-link diagram whose ranks keep the computed order.
Rendering runs in-process; no Graphviz installation is needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			order, err := flags.options(c.Config.Ordering, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			opts.order = order
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show row, cluster and metadata in node labels")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "draw heavier edges thicker")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions("svg", "dot", "png"))
	flags.register(cmd)

	return cmd
}

// runRender orders the graph in input and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	res, err := c.order(ctx, input, opts.noCache, opts.order)
	if err != nil {
		return err
	}

	// Rendering does not touch the cache.
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	artifacts, err := runner.Render(ctx, res.Graph, res.Doc.LayeringOf(), pipeline.RenderOptions{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Weights:  opts.weights,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	var paths []string
	for _, f := range opts.formats {
		path := base + "." + f
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printResult(res)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .dot, .png), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

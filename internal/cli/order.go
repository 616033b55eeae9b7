package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankorder/pkg/graph"
	"github.com/matzehuels/rankorder/pkg/ordering"
	"github.com/matzehuels/rankorder/pkg/pipeline"
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

// orderCommand creates the order command for computing a low-crossing layering.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   orderFlags
	)

	cmd := &cobra.Command{
		Use:   "order [graph.json]",
		Short: "Compute a low-crossing layering for a layered graph",
		Long: `Compute a low-crossing layering for a layered graph.

The order command reads a graph document, subdivides edges that span more
than one row (or fully normalizes the graph with --normalize) and runs the
barycentric sweep heuristic. Constraints listed in the document and node
clusters are honored.

The result document (layering, crossings, sweeps, stop reason) is written to
<input>.order.json, or to stdout with -o -.

Results are cached; use --refresh to recompute or --no-cache to bypass the
cache entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Config.Ordering, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runOrder(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.order.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	flags.register(cmd)

	return cmd
}

// runOrder loads the graph, orders it, and writes the result document.
func (c *CLI) runOrder(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	res, err := c.order(ctx, input, noCache, opts)
	if err != nil {
		return err
	}

	if output == stdoutPath {
		return graph.WriteResult(res.Doc, os.Stdout)
	}
	if output == "" {
		output = derivePath(input, ".order.json")
	}
	if err := graph.WriteResultFile(res.Doc, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Ordering complete")
	printFile(output)
	printResult(res)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

// order runs the pipeline on the graph in input with a spinner and sweep
// reporting. Shared by order and render.
func (c *CLI) order(ctx context.Context, input string, noCache bool, opts pipeline.Options) (*pipeline.Result, error) {
	doc, err := graph.LoadGraphFile(input)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", input, err)
	}
	c.Logger.Debugf("Loaded graph: %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Ordering...")
	spinner.Start()
	opts.Progress = newSweepReporter(c.Logger, spinner).onSweep

	prog := newProgress(c.Logger)
	res, err := runner.Order(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Ordering failed")
		return nil, err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	prog.done(fmt.Sprintf("Ordered %d nodes in %d ranks", res.Graph.NodeCount(), len(res.Doc.Layering)))
	if res.Doc.Crossings > 0 && res.Doc.Stop == string(ordering.StopTimeout) {
		c.Logger.Warn("Time limit reached with crossings left; try --quality thorough or a longer --timeout")
	}
	return res, nil
}

// derivePath replaces the extension of input with suffix.
func derivePath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/rankorder/pkg/dag"
	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/graph"
	"github.com/matzehuels/rankorder/pkg/render/nodelink"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats  []string
	Detailed bool
	Weights  bool
}

// Render draws g in layering order in every requested format. It returns
// the artifacts keyed by format. An empty format list means DefaultFormat.
func (r *Runner) Render(ctx context.Context, g *dag.DAG, l dag.Layering, opts RenderOptions) (map[string][]byte, error) {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{DefaultFormat}
	}
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	dot := nodelink.ToDOT(g, l, nodelink.Options{Detailed: opts.Detailed, Weights: opts.Weights})
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := nodelink.Render(ctx, dot, f)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}

	r.Logger.Info("rendered outputs",
		"formats", formats,
		"duration", time.Since(start))
	return artifacts, nil
}

// ValidateFormat checks that a render format is supported.
func ValidateFormat(format string) error {
	switch format {
	case nodelink.FormatDOT, nodelink.FormatSVG, nodelink.FormatPNG:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png)", format)
}

// Crossings counts the weighted crossings of doc's layering, or of its rows
// when it has none. Long edges are subdivided first; the returned layering
// is the one that was counted.
func Crossings(doc graph.Graph) (float64, dag.Layering, error) {
	g, _, err := PrepareGraph(doc, false)
	if err != nil {
		return 0, nil, err
	}
	l := doc.InitialLayering()
	if l == nil {
		l = dag.LayeringFromRows(g)
	}
	if err := dag.ValidateLayering(g, l); err != nil {
		return 0, nil, err
	}
	c, err := dag.CountCrossings(g, l)
	if err != nil {
		return 0, nil, err
	}
	return c, l, nil
}

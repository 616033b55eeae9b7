package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/rankorder/pkg/dag"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes row numbers and metadata in node labels.
	// When false, only the node ID is shown.
	Detailed bool
	// Weights scales edge pen width by edge weight.
	Weights bool
}

// ToDOT converts a DAG and a layering of it to Graphviz DOT.
//
// Each rank becomes a rank=same subgraph whose members are chained by
// invisible edges in layering order, and the graph sets ordering=out, so
// dot keeps the left-to-right order computed by the ordering package
// instead of running its own crossing minimization. A nil layering falls
// back to the graph's rows.
//
// Subdivider nodes are drawn as small points so long edges read as one line.
func ToDOT(g *dag.DAG, l dag.Layering, opts Options) string {
	if l == nil {
		l = dag.LayeringFromRows(g)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for r, rank := range l {
		fmt.Fprintf(&buf, "\n  subgraph rank%d {\n    rank=same;\n", r)
		for _, id := range rank {
			n, ok := g.Node(id)
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(fmtAttrs(*n, opts.Detailed), ", "))
		}
		if len(rank) > 1 {
			quoted := make([]string, len(rank))
			for i, id := range rank {
				quoted[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "    %s [style=invis];\n", strings.Join(quoted, " -> "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := []string{}
		if to, ok := g.Node(e.To); ok && to.IsSubdivider() {
			attrs = append(attrs, "arrowhead=none")
		}
		if opts.Weights && e.EffectiveWeight() != dag.DefaultWeight {
			attrs = append(attrs, fmt.Sprintf("penwidth=%s", strconv.FormatFloat(penWidth(e.EffectiveWeight()), 'f', -1, 64)))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// penWidth maps an edge weight to a stroke width between 1 and 8.
func penWidth(w float64) float64 {
	return min(8, max(1, w))
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{fmt.Sprintf("row: %d", n.Row)}
	if n.Cluster != "" {
		parts = append(parts, "cluster: "+n.Cluster)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, detailed bool) []string {
	if n.IsSubdivider() {
		return []string{"shape=point", "width=0.05", "label=\"\""}
	}
	return []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

// Render renders DOT in the named format: "dot" returns the source
// unchanged, "svg" and "png" go through Graphviz.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format %q (want dot, svg or png)", format)
	}
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg tag with a plain
// viewBox so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

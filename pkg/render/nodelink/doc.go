// Package nodelink renders an ordered layered graph as a node-link diagram.
//
// # Overview
//
// [ToDOT] writes Graphviz DOT that reproduces a [dag.Layering] exactly: one
// rank=same subgraph per rank, members chained by invisible edges, and
// ordering=out on the graph. Graphviz then only assigns coordinates, so the
// picture shows the crossings of the computed order and nothing else.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, res.Layering, nodelink.Options{Weights: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [Render] dispatches on a format name ("dot", "svg" or "png").
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering;
// no Graphviz installation is needed.
//
// [dag.Layering]: github.com/matzehuels/rankorder/pkg/dag.Layering
package nodelink

// Package pkg provides the core libraries for rankorder crossing minimization.
//
// # Overview
//
// rankorder takes a layered graph (nodes assigned to rows, edges between
// rows) and reorders the nodes within each rank so that as few weighted
// edges cross as possible. The pkg directory is organized into four areas:
//
//  1. Core algorithms ([dag], [dag/transform], [ordering])
//  2. Serialization ([graph])
//  3. Orchestration ([pipeline], [render/nodelink])
//  4. Infrastructure ([cache], [config], [errors], [observability], [buildinfo])
//
// # Architecture
//
// The typical data flow through rankorder:
//
//	graph.json
//	     ↓
//	[graph] package (decode, validate, convert to *dag.DAG)
//	     ↓
//	[dag/transform] package (break cycles, assign rows, subdivide long edges)
//	     ↓
//	[ordering] package (barycentric sweeps, constraint resolution)
//	     ↓
//	result.json, DOT, SVG, PNG
//
// # Quick Start
//
// Order a graph without the pipeline:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rankorder/pkg/dag"
//	    "github.com/matzehuels/rankorder/pkg/dag/transform"
//	    "github.com/matzehuels/rankorder/pkg/ordering"
//	)
//
//	// 1. Build the graph
//	g := dag.New(nil)
//	_ = g.AddNode(dag.Node{ID: "app", Row: 0})
//	_ = g.AddNode(dag.Node{ID: "http", Row: 1})
//	_ = g.AddEdge(dag.Edge{From: "app", To: "http", Weight: 2})
//
//	// 2. Subdivide edges that skip rows
//	transform.Prepare(g)
//
//	// 3. Order
//	res, err := ordering.ForQuality(ordering.QualityBalanced).OrderRows(context.Background(), g)
//	fmt.Println(res.Layering, res.Crossings)
//
// # Main Packages
//
// ## Core Algorithms
//
// [dag] - Directed graph with row assignments, the [dag.Layering] type and
// its validation, and the weighted Fenwick-tree crossing counter.
//
// [dag/transform] - Graph preparation: cycle breaking, longest-path
// layering and edge subdivision. [transform.Normalize] runs all three.
//
// [ordering] - Barycenter estimation, the constraint graph, the conflict
// resolver and the barycentric sweep iterator with its quality presets.
//
// ## Serialization
//
// [graph] - JSON documents for input graphs (nodes, edges, optional
// layering and constraints) and ordering results.
//
// ## Orchestration
//
// [pipeline] - Prepare → order → render, with result caching. Used by both
// the CLI and the HTTP API so they apply the same defaults.
//
// [render/nodelink] - Graphviz DOT output that pins the computed order, and
// in-process SVG/PNG rendering.
//
// ## Infrastructure
//
// [cache] - Result cache with file, Redis and null backends.
//
// [config] - TOML configuration file.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hooks for ordering, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/ordering/...   # Specific package
//	go test -run Example ./...   # Examples only
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/dag/transform
// [ordering]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/ordering
// [graph]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/pipeline
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/buildinfo
// [dag.Layering]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/dag#Layering
// [transform.Normalize]: https://pkg.go.dev/github.com/matzehuels/rankorder/pkg/dag/transform#Normalize
package pkg

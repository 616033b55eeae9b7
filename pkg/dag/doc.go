// Package dag provides a directed graph partitioned into rows (ranks), the
// layering type that fixes the left-to-right order within each rank, and a
// weighted crossing counter.
//
// # Overview
//
// Layered drawings place every node on a horizontal rank and draw edges
// between adjacent ranks. Once ranks are assigned, the only remaining freedom
// is the order of nodes within a rank, and the quality of that order is
// measured by how many edges cross. This package holds the graph, the
// ordering ([Layering]) and the crossing measure; the search for a good
// ordering lives in the ordering package.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]. Edges carry an optional weight; zero means the default
// weight of 1 and negative weights are rejected:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app", Row: 0})
//	g.AddNode(dag.Node{ID: "lib", Row: 1})
//	g.AddEdge(dag.Edge{From: "app", To: "lib", Weight: 2})
//
// Parallel edges are kept; each one contributes to crossings on its own.
//
// # Layerings
//
// A [Layering] is a slice of ranks, each an ordered slice of node IDs.
// [LayeringFromRows] builds one from the node rows in insertion order, and
// [ValidateLayering] checks that every graph node appears exactly once and
// that every edge connects adjacent ranks. Failures are reported as a
// [*LayeringError] wrapping [ErrMalformedLayering] or [ErrDanglingEdge]:
//
//	var le *dag.LayeringError
//	if errors.As(err, &le) {
//		fmt.Println(le.Rank, le.Node)
//	}
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count weighted crossings with a
// Fenwick tree in O(E log V) per rank pair. Two crossing edges contribute
// the product of their weights. A [CrossingWorkspace] keeps the tree
// buffers between calls.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Read-only use,
// including counting crossings with separate workspaces, is safe from
// multiple goroutines.
//
// # Related Packages
//
// The [transform] subpackage turns an arbitrary directed graph into a
// properly layered one: cycle breaking, rank assignment and subdivision of
// long edges.
//
// [transform]: github.com/matzehuels/rankorder/pkg/dag/transform
package dag

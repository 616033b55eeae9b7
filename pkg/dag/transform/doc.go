// Package transform prepares an arbitrary directed graph for rank ordering.
//
// The ordering phase expects a proper layered graph: acyclic, every node on a
// row, and every edge between adjacent rows. [Normalize] produces one:
//
//	res := transform.Normalize(g) // modifies g in place
//	fmt.Println(res.EdgesReversed, res.SubdividersAdded)
//
// The steps are also available individually:
//
//   - [BreakCycles] reverses DFS back edges, keeping their weight
//   - [AssignLayers] places nodes by longest path from the sources
//   - [Subdivide] splits long edges into chains of dummy nodes
//
// [Prepare] is the variant for graphs whose rows are given by the caller.
package transform

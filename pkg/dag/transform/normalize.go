package transform

import "github.com/matzehuels/rankorder/pkg/dag"

// Result reports what [Normalize] changed.
type Result struct {
	// EdgesReversed is the number of back edges flipped by cycle breaking.
	EdgesReversed int
	// SelfLoopsRemoved is the number of self-loops dropped.
	SelfLoopsRemoved int
	// SubdividersAdded is the number of dummy nodes inserted for long edges.
	SubdividersAdded int
	// MaxRow is the deepest row after layering.
	MaxRow int
}

// Normalize turns an arbitrary directed graph into a proper layered graph in
// place: cycles are broken, rows are assigned by longest path, and long
// edges are subdivided so every edge connects adjacent rows.
func Normalize(g *dag.DAG) Result {
	var r Result
	r.EdgesReversed, r.SelfLoopsRemoved = BreakCycles(g)
	AssignLayers(g)
	r.SubdividersAdded = Subdivide(g)
	r.MaxRow = g.MaxRow()
	return r
}

// Prepare keeps the rows already assigned to g and only subdivides long
// edges. Self-loops are dropped since no layering can place them.
func Prepare(g *dag.DAG) Result {
	var r Result
	for _, n := range g.Nodes() {
		for _, e := range g.OutEdges(n.ID) {
			if e.To == n.ID {
				r.SelfLoopsRemoved++
			}
		}
		g.RemoveEdge(n.ID, n.ID)
	}
	r.SubdividersAdded = Subdivide(g)
	r.MaxRow = g.MaxRow()
	return r
}

package transform

import "github.com/matzehuels/rankorder/pkg/dag"

// BreakCycles makes g acyclic by reversing every DFS back edge and dropping
// self-loops. It returns the number of reversed edges and the number of
// removed self-loops.
//
// Reversed edges keep their weight and metadata, with Meta["reversed"] set
// to true, so they still count towards crossings after layering. Parallel
// back edges are reversed individually.
//
// The DFS starts from sources in row order and then from any node left
// unvisited, so the result is deterministic for a given insertion order.
func BreakCycles(g *dag.DAG) (reversed, selfLoops int) {
	const (
		white = iota
		gray
		black
	)

	for _, n := range g.Nodes() {
		loops := 0
		for _, e := range g.OutEdges(n.ID) {
			if e.To == n.ID {
				loops++
			}
		}
		if loops > 0 {
			g.RemoveEdge(n.ID, n.ID)
			selfLoops += loops
		}
	}

	color := make(map[string]int)
	seen := make(map[[2]string]bool)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				key := [2]string{node, child}
				if !seen[key] {
					seen[key] = true
					backEdges = append(backEdges, key)
				}
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, be := range backEdges {
		var flip []dag.Edge
		for _, e := range g.OutEdges(be[0]) {
			if e.To == be[1] {
				flip = append(flip, e)
			}
		}
		g.RemoveEdge(be[0], be[1])
		for _, e := range flip {
			e.From, e.To = e.To, e.From
			e.Meta = cloneMeta(e.Meta)
			e.Meta["reversed"] = true
			if err := g.AddEdge(e); err != nil {
				panic(err)
			}
			reversed++
		}
	}
	return reversed, selfLoops
}

func cloneMeta(m dag.Metadata) dag.Metadata {
	c := make(dag.Metadata, len(m)+1)
	for k, v := range m {
		c[k] = v
	}
	return c
}

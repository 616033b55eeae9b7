package dag

import (
	"fmt"
	"slices"
)

// CrossingWorkspace provides reusable buffers for crossing calculations to
// avoid repeated allocations. The ordering iterator evaluates the full
// layering after every sweep, so it keeps one workspace per run.
//
// The workspace grows on demand. It is not safe for concurrent use - each
// goroutine should have its own.
type CrossingWorkspace struct {
	ft    []float64  // Fenwick tree of edge weights by lower position
	pairs []edgePair // Edge endpoints mapped to positions
}

type edgePair struct {
	upper, lower int
	weight       float64
}

// NewCrossingWorkspace creates a workspace sized for rows of up to maxWidth
// nodes. Larger rows are handled by growing the buffers.
func NewCrossingWorkspace(maxWidth int) *CrossingWorkspace {
	return &CrossingWorkspace{ft: make([]float64, maxWidth+1)}
}

// CountCrossings returns the total weighted number of edge crossings of a
// layering, summed over every pair of adjacent ranks. Layerings with zero or
// one rank have no crossings.
//
// Edges are taken from g with [DAG.EdgesBetween], so edges that skip a rank
// are ignored here; use [ValidateLayering] to reject them up front.
//
// Example:
//
//	l := dag.Layering{{"app", "cli"}, {"lib1", "lib2", "lib3"}}
//	crossings, err := dag.CountCrossings(g, l)
func CountCrossings(g *DAG, l Layering) (float64, error) {
	return NewCrossingWorkspace(l.MaxWidth()).Count(g, l)
}

// Count is the workspace-backed form of [CountCrossings].
func (ws *CrossingWorkspace) Count(g *DAG, l Layering) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(l); i++ {
		c, err := ws.CountLayer(l[i], l[i+1], g.EdgesBetween(l[i], l[i+1]))
		if err != nil {
			return 0, fmt.Errorf("ranks %d/%d: %w", i, i+1, err)
		}
		total += c
	}
	return total, nil
}

// CountLayerCrossings counts weighted edge crossings between two adjacent
// rows using a Fenwick tree (binary indexed tree) for O(E log V) performance,
// where E is the number of edges and V the number of nodes in the lower row.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// and contribute weight(e1) * weight(e2) to the total. Edges sharing an
// endpoint never cross. Each edge may be stored in either direction, but
// must have one endpoint in upper and the other in lower; anything else is
// reported as [ErrDanglingEdge].
func CountLayerCrossings(upper, lower []string, edges []Edge) (float64, error) {
	return NewCrossingWorkspace(len(lower)).CountLayer(upper, lower, edges)
}

// CountLayer is the workspace-backed form of [CountLayerCrossings].
func (ws *CrossingWorkspace) CountLayer(upper, lower []string, edges []Edge) (float64, error) {
	if len(edges) == 0 {
		return 0, nil
	}
	upperPos, lowerPos := PosMap(upper), PosMap(lower)

	ws.pairs = ws.pairs[:0]
	for _, e := range edges {
		p, ok := mapEdge(e, upperPos, lowerPos)
		if !ok {
			return 0, dangling(-1, e, "endpoints not in adjacent ranks")
		}
		ws.pairs = append(ws.pairs, p)
	}
	if len(ws.pairs) < 2 {
		return 0, nil
	}

	// Sort edges by source position, then by target position
	slices.SortFunc(ws.pairs, func(a, b edgePair) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	ws.reset(len(lower) + 1)
	crossings, seen := 0.0, 0.0
	for _, p := range ws.pairs {
		// Weight of edges seen so far ending at a lower position > p.lower
		greater := seen - ws.prefix(p.lower)
		crossings += p.weight * greater
		ws.add(p.lower, p.weight)
		seen += p.weight
	}
	return crossings, nil
}

func mapEdge(e Edge, upperPos, lowerPos map[string]int) (edgePair, bool) {
	w := e.EffectiveWeight()
	if u, ok := upperPos[e.From]; ok {
		if l, ok := lowerPos[e.To]; ok {
			return edgePair{u, l, w}, true
		}
	}
	if u, ok := upperPos[e.To]; ok {
		if l, ok := lowerPos[e.From]; ok {
			return edgePair{u, l, w}, true
		}
	}
	return edgePair{}, false
}

func (ws *CrossingWorkspace) reset(size int) {
	if cap(ws.ft) < size {
		ws.ft = make([]float64, size)
		return
	}
	ws.ft = ws.ft[:size]
	clear(ws.ft)
}

// prefix returns the total weight recorded at positions 0..pos inclusive.
func (ws *CrossingWorkspace) prefix(pos int) float64 {
	sum := 0.0
	for q := pos + 1; q > 0; q -= q & (-q) {
		sum += ws.ft[q]
	}
	return sum
}

func (ws *CrossingWorkspace) add(pos int, w float64) {
	for idx := pos + 1; idx < len(ws.ft); idx += idx & (-idx) {
		ws.ft[idx] += w
	}
}

// EdgesBetween returns the edges connecting a node of upper with a node of
// lower, in either stored direction. Edges are listed in upper-row order,
// outgoing before incoming for each node.
func (d *DAG) EdgesBetween(upper, lower []string) []Edge {
	lowerSet := PosMap(lower)
	var edges []Edge
	for _, id := range upper {
		for _, e := range d.outgoing[id] {
			if _, ok := lowerSet[e.To]; ok {
				edges = append(edges, e)
			}
		}
		for _, e := range d.incoming[id] {
			if _, ok := lowerSet[e.From]; ok {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

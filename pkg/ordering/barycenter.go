package ordering

import (
	"github.com/matzehuels/rankorder/pkg/dag"
)

// Entry is the barycenter of one node with respect to a reference rank.
//
// Defined is false when the node has no edges into the reference rank;
// Barycenter and Weight are then zero and must not be used.
type Entry struct {
	Node       string
	Barycenter float64
	Weight     float64
	Defined    bool
}

// Barycenters computes one [Entry] per node of rank, in rank order.
//
// For a node v with edges to ref, Barycenter is the weighted mean of the
// positions of its neighbours in ref and Weight is the sum of the edge
// weights. Edges may be stored in either direction; an edge that does not
// connect a node of rank with a node of ref is reported as
// [dag.ErrDanglingEdge].
func Barycenters(rank, ref []string, edges []dag.Edge) ([]Entry, error) {
	rankPos, refPos := dag.PosMap(rank), dag.PosMap(ref)
	sums := make([]float64, len(rank))
	weights := make([]float64, len(rank))

	for _, e := range edges {
		v, p, ok := endpoint(e, rankPos, refPos)
		if !ok {
			edge := e
			return nil, &dag.LayeringError{
				Err:    dag.ErrDanglingEdge,
				Rank:   -1,
				Edge:   &edge,
				Detail: "edge does not connect the rank to its reference",
			}
		}
		w := e.EffectiveWeight()
		sums[v] += float64(p) * w
		weights[v] += w
	}

	entries := make([]Entry, len(rank))
	for i, id := range rank {
		entries[i] = Entry{Node: id}
		if weights[i] > 0 {
			entries[i].Barycenter = sums[i] / weights[i]
			entries[i].Weight = weights[i]
			entries[i].Defined = true
		}
	}
	return entries, nil
}

// endpoint returns the rank position of e's endpoint in rank and the
// reference position of the other endpoint.
func endpoint(e dag.Edge, rankPos, refPos map[string]int) (v, p int, ok bool) {
	if v, ok := rankPos[e.From]; ok {
		if p, ok := refPos[e.To]; ok {
			return v, p, true
		}
	}
	if v, ok := rankPos[e.To]; ok {
		if p, ok := refPos[e.From]; ok {
			return v, p, true
		}
	}
	return 0, 0, false
}

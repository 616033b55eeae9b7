package dag

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrMalformedLayering is returned when a layering does not place every
	// graph node exactly once, names a node the graph does not know, or
	// repeats an ID within a rank.
	ErrMalformedLayering = errors.New("malformed layering")

	// ErrDanglingEdge is returned when an edge handed to a crossing or
	// barycenter computation does not connect the two ranks being compared.
	ErrDanglingEdge = errors.New("dangling edge reference")
)

// LayeringError reports which rank, node or edge broke a layering invariant.
// Err is always [ErrMalformedLayering] or [ErrDanglingEdge], so callers can
// match with errors.Is.
type LayeringError struct {
	Err    error
	Rank   int    // Rank index, or -1 when not tied to a rank
	Node   string // Offending node, if any
	Edge   *Edge  // Offending edge, if any
	Detail string
}

func (e *LayeringError) Error() string {
	msg := e.Err.Error()
	if e.Rank >= 0 {
		msg += fmt.Sprintf(": rank %d", e.Rank)
	}
	if e.Edge != nil {
		msg += fmt.Sprintf(": edge %s->%s", e.Edge.From, e.Edge.To)
	} else if e.Node != "" {
		msg += fmt.Sprintf(": node %q", e.Node)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *LayeringError) Unwrap() error { return e.Err }

func malformed(rank int, node, detail string) error {
	return &LayeringError{Err: ErrMalformedLayering, Rank: rank, Node: node, Detail: detail}
}

func dangling(rank int, e Edge, detail string) error {
	return &LayeringError{Err: ErrDanglingEdge, Rank: rank, Edge: &e, Detail: detail}
}

// Layering is an ordered sequence of ranks, each an ordered sequence of node
// IDs from left to right. Index 0 is the top rank.
type Layering [][]string

// Clone returns an independent deep copy.
func (l Layering) Clone() Layering {
	if l == nil {
		return nil
	}
	out := make(Layering, len(l))
	for i, rank := range l {
		out[i] = slices.Clone(rank)
	}
	return out
}

// Equal reports whether two layerings hold the same ranks in the same order.
func (l Layering) Equal(other Layering) bool {
	return slices.EqualFunc(l, other, slices.Equal[[]string])
}

// NodeCount returns the total number of entries across all ranks.
func (l Layering) NodeCount() int {
	n := 0
	for _, rank := range l {
		n += len(rank)
	}
	return n
}

// MaxWidth returns the length of the widest rank.
func (l Layering) MaxWidth() int {
	w := 0
	for _, rank := range l {
		w = max(w, len(rank))
	}
	return w
}

// RankOf returns a lookup from node ID to rank index.
func (l Layering) RankOf() map[string]int {
	m := make(map[string]int, l.NodeCount())
	for r, rank := range l {
		for _, id := range rank {
			m[id] = r
		}
	}
	return m
}

// Validate checks that no ID appears more than once across the layering.
// It does not consult a graph; see [ValidateLayering] for the full check.
func (l Layering) Validate() error {
	seen := make(map[string]int, l.NodeCount())
	for r, rank := range l {
		for _, id := range rank {
			if prev, dup := seen[id]; dup {
				if prev == r {
					return malformed(r, id, "duplicate within rank")
				}
				return malformed(r, id, fmt.Sprintf("also placed in rank %d", prev))
			}
			seen[id] = r
		}
	}
	return nil
}

// LayeringFromRows builds a layering from the graph's row index, keeping
// insertion order within each row. Empty rows between populated rows are
// skipped, so the result is dense.
func LayeringFromRows(g *DAG) Layering {
	rows := g.RowIDs()
	l := make(Layering, 0, len(rows))
	for _, r := range rows {
		l = append(l, NodeIDs(g.NodesInRow(r)))
	}
	return l
}

// ValidateLayering checks a layering against a graph before ordering:
//
//  1. every ID appears exactly once and is a node of g ([ErrMalformedLayering])
//  2. every node of g is placed ([ErrMalformedLayering])
//  3. every edge connects two adjacent ranks ([ErrDanglingEdge])
//
// The returned error is a *[LayeringError] naming the offending rank, node
// or edge.
func ValidateLayering(g *DAG, l Layering) error {
	if err := l.Validate(); err != nil {
		return err
	}
	rankOf := l.RankOf()
	for r, rank := range l {
		for _, id := range rank {
			if _, ok := g.Node(id); !ok {
				return malformed(r, id, "not a graph node")
			}
		}
	}
	for _, n := range g.Nodes() {
		if _, ok := rankOf[n.ID]; !ok {
			return malformed(-1, n.ID, "node missing from layering")
		}
	}
	for _, e := range g.edges {
		rf, rt := rankOf[e.From], rankOf[e.To]
		if d := rf - rt; d != 1 && d != -1 {
			return dangling(rf, e, fmt.Sprintf("connects ranks %d and %d", rf, rt))
		}
	}
	return nil
}

package ordering

import (
	"github.com/matzehuels/rankorder/pkg/dag"
)

// Constraint requires Before to appear to the left of After within a rank.
type Constraint struct {
	Before string `json:"before" toml:"before"`
	After  string `json:"after" toml:"after"`
}

// ConstraintGraph is a small adjacency list over the node IDs of one rank.
// An edge a→b means a must appear before b. Edges are de-duplicated and
// enumerated in insertion order. Cycles are allowed; the resolver breaks
// them deterministically.
//
// The zero value is an empty graph ready to use. A nil *ConstraintGraph is
// a valid empty graph for reading; AddEdge on it records nothing.
type ConstraintGraph struct {
	edges []Constraint
	seen  map[Constraint]struct{}
	out   map[string][]string
	in    map[string][]string
}

// NewConstraintGraph creates a graph holding the given constraints.
func NewConstraintGraph(cs ...Constraint) *ConstraintGraph {
	cg := &ConstraintGraph{}
	for _, c := range cs {
		cg.AddEdge(c.Before, c.After)
	}
	return cg
}

// AddEdge records that before must precede after. It reports whether the
// edge was new; duplicates and self-constraints are ignored.
func (cg *ConstraintGraph) AddEdge(before, after string) bool {
	if cg == nil || before == "" || after == "" || before == after {
		return false
	}
	c := Constraint{Before: before, After: after}
	if _, ok := cg.seen[c]; ok {
		return false
	}
	if cg.seen == nil {
		cg.seen = make(map[Constraint]struct{})
		cg.out = make(map[string][]string)
		cg.in = make(map[string][]string)
	}
	cg.seen[c] = struct{}{}
	cg.edges = append(cg.edges, c)
	cg.out[before] = append(cg.out[before], after)
	cg.in[after] = append(cg.in[after], before)
	return true
}

// Edges returns the constraints in insertion order.
func (cg *ConstraintGraph) Edges() []Constraint {
	if cg == nil {
		return nil
	}
	return cg.edges
}

// Len returns the number of constraints.
func (cg *ConstraintGraph) Len() int {
	if cg == nil {
		return 0
	}
	return len(cg.edges)
}

// Successors returns the nodes that must follow id.
func (cg *ConstraintGraph) Successors(id string) []string {
	if cg == nil {
		return nil
	}
	return cg.out[id]
}

// Predecessors returns the nodes that must precede id.
func (cg *ConstraintGraph) Predecessors(id string) []string {
	if cg == nil {
		return nil
	}
	return cg.in[id]
}

// Satisfied reports whether order places every constrained pair whose
// endpoints both appear in order correctly.
func (cg *ConstraintGraph) Satisfied(order []string) bool {
	pos := dag.PosMap(order)
	for _, c := range cg.Edges() {
		b, okB := pos[c.Before]
		a, okA := pos[c.After]
		if okB && okA && b > a {
			return false
		}
	}
	return true
}

// Constrainer supplies the constraint graph for a rank during a sweep.
// order is the rank's order before the sweep reorders it. Returning nil
// means no constraints.
type Constrainer interface {
	Constraints(rank int, order []string) *ConstraintGraph
}

// ClusterConstraints keeps nodes that share a [dag.Node.Cluster] in their
// current relative order: for each cluster the members of a rank are
// chained left to right. The resolver then coalesces members whose
// barycenters would swap them, which also keeps them adjacent.
type ClusterConstraints struct {
	Graph *dag.DAG
}

func (c ClusterConstraints) Constraints(_ int, order []string) *ConstraintGraph {
	var cg *ConstraintGraph
	last := make(map[string]string)
	for _, id := range order {
		n, ok := c.Graph.Node(id)
		if !ok || n.Cluster == "" {
			continue
		}
		if prev, ok := last[n.Cluster]; ok {
			if cg == nil {
				cg = NewConstraintGraph()
			}
			cg.AddEdge(prev, id)
		}
		last[n.Cluster] = id
	}
	return cg
}

// StaticConstraints is a fixed set of constraints per rank index.
type StaticConstraints map[int][]Constraint

func (s StaticConstraints) Constraints(rank int, _ []string) *ConstraintGraph {
	cs := s[rank]
	if len(cs) == 0 {
		return nil
	}
	return NewConstraintGraph(cs...)
}

// MultiConstrainer merges the graphs of several providers.
type MultiConstrainer []Constrainer

func (m MultiConstrainer) Constraints(rank int, order []string) *ConstraintGraph {
	var cg *ConstraintGraph
	for _, c := range m {
		sub := c.Constraints(rank, order)
		if sub.Len() == 0 {
			continue
		}
		if cg == nil {
			cg = NewConstraintGraph()
		}
		for _, e := range sub.Edges() {
			cg.AddEdge(e.Before, e.After)
		}
	}
	return cg
}

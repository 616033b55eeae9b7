package graph

import (
	"maps"

	"github.com/matzehuels/rankorder/pkg/dag"
	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/ordering"
)

// Node kinds.
const (
	KindSubdivider = "subdivider"
)

// =============================================================================
// Graph - Input Document
// =============================================================================

// Graph is the serialization format for layered graphs.
//
// Node order is significant: the default initial layering places the nodes
// of each row in document order. Layering, when present, replaces that
// initial layering and must place every node exactly once.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Edges       []Edge       `json:"edges"`
	Layering    [][]string   `json:"layering,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
}

// Node is a vertex with its row assignment.
type Node struct {
	ID       string         `json:"id"`
	Row      int            `json:"row,omitempty"`
	Cluster  string         `json:"cluster,omitempty"`
	Kind     string         `json:"kind,omitempty"` // "subdivider" or empty
	MasterID string         `json:"master_id,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// IsSubdivider returns true if this is a subdivider node.
func (n *Node) IsSubdivider() bool { return n.Kind == KindSubdivider }

// Edge is a directed, weighted edge. A missing or zero weight means 1.
type Edge struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Weight float64        `json:"weight,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Constraint requires Before to the left of After within rank Rank. Rank is
// the nodes' row, or the layering index when the document carries an
// explicit layering. It is ignored when the graph is normalized.
type Constraint struct {
	Rank   int    `json:"rank"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format. Nodes keep insertion
// order so that the result re-imports with the same initial layering.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromDAG(n)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To, Weight: e.Weight, Meta: copyMeta(e.Meta)}
	}
	return out
}

// ToDAG validates the document and converts it to a DAG. Node IDs and
// weights are checked with the rules in pkg/errors; structural problems
// (duplicate IDs, unknown endpoints) come back as INVALID_GRAPH errors.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(nil)

	for _, nj := range gj.Nodes {
		if err := errs.ValidateNodeID(nj.ID); err != nil {
			return nil, err
		}
		if nj.Row < 0 {
			return nil, errs.New(errs.ErrCodeInvalidGraph, "node %q: row must not be negative", nj.ID)
		}
		n := dag.Node{
			ID:       nj.ID,
			Row:      nj.Row,
			Cluster:  nj.Cluster,
			Meta:     copyMeta(nj.Meta),
			Kind:     stringToDAGKind(nj.Kind),
			MasterID: nj.MasterID,
		}
		if err := d.AddNode(n); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "add node %s", nj.ID)
		}
	}

	for _, ej := range gj.Edges {
		if err := errs.ValidateWeight(ej.Weight); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "edge %s→%s", ej.From, ej.To)
		}
		e := dag.Edge{From: ej.From, To: ej.To, Weight: ej.Weight, Meta: copyMeta(ej.Meta)}
		if err := d.AddEdge(e); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "add edge %s→%s", ej.From, ej.To)
		}
	}

	for _, c := range gj.Constraints {
		if err := checkConstraint(d, c); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func checkConstraint(d *dag.DAG, c Constraint) error {
	if c.Rank < 0 {
		return errs.New(errs.ErrCodeInvalidGraph, "constraint %s<%s: rank must not be negative", c.Before, c.After)
	}
	for _, id := range []string{c.Before, c.After} {
		if _, ok := d.Node(id); !ok {
			return errs.New(errs.ErrCodeInvalidGraph, "constraint %s<%s: unknown node %q", c.Before, c.After, id)
		}
	}
	return nil
}

// InitialLayering returns the document's explicit layering, or nil when the
// rows should be used.
func (gj Graph) InitialLayering() dag.Layering {
	if len(gj.Layering) == 0 {
		return nil
	}
	return dag.Layering(gj.Layering).Clone()
}

// StaticConstraints groups the document's constraints by rank. It returns
// nil when there are none.
func (gj Graph) StaticConstraints() ordering.StaticConstraints {
	if len(gj.Constraints) == 0 {
		return nil
	}
	s := make(ordering.StaticConstraints)
	for _, c := range gj.Constraints {
		s[c.Rank] = append(s[c.Rank], ordering.Constraint{Before: c.Before, After: c.After})
	}
	return s
}

// HasClusters reports whether any node names a cluster.
func (gj Graph) HasClusters() bool {
	for _, n := range gj.Nodes {
		if n.Cluster != "" {
			return true
		}
	}
	return false
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeFromDAG(n *dag.Node) Node {
	return Node{
		ID:       n.ID,
		Row:      n.Row,
		Cluster:  n.Cluster,
		Kind:     dagKindToString(n.Kind),
		MasterID: n.MasterID,
		Meta:     copyMeta(n.Meta),
	}
}

// copyMeta returns a shallow copy, or nil for an empty map.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

func dagKindToString(k dag.NodeKind) string {
	switch k {
	case dag.NodeKindSubdivider:
		return KindSubdivider
	default:
		return ""
	}
}

func stringToDAGKind(s string) dag.NodeKind {
	switch s {
	case KindSubdivider:
		return dag.NodeKindSubdivider
	default:
		return dag.NodeKindRegular
	}
}

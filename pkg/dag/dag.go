package dag

import (
	"errors"
	"maps"
	"math"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNegativeWeight is returned by [DAG.AddEdge] when the edge weight is
	// below zero. Crossing weights are products of edge weights and must
	// stay non-negative.
	ErrNegativeWeight = errors.New("edge weight must not be negative")

	// ErrNonFiniteWeight is returned by [DAG.AddEdge] when the edge weight
	// is NaN or infinite.
	ErrNonFiniteWeight = errors.New("edge weight must be finite")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonConsecutiveRows is returned by [DAG.Validate] when an edge
	// connects nodes that are not in adjacent rows.
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")
)

// DefaultWeight is the weight of an edge whose Weight field is left at zero.
const DefaultWeight = 1.0

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
type Metadata map[string]any

// NodeKind distinguishes between original and synthetic nodes created during
// graph transformation.
type NodeKind int

const (
	// NodeKindRegular represents an original graph node.
	NodeKindRegular NodeKind = iota
	// NodeKindSubdivider represents a dummy node inserted to split an edge
	// spanning more than one row. Subdividers keep a MasterID linking to the
	// edge source.
	NodeKindSubdivider
)

// Node represents a vertex with an assigned row (rank).
//
// Cluster names the compound node the vertex belongs to, if any. Nodes that
// share a cluster are kept in their established relative order by
// cluster-aware constraint providers.
type Node struct {
	ID      string   // Unique identifier
	Row     int      // Rank assignment (0 = top, increasing downward)
	Cluster string   // Compound parent, empty for top-level nodes
	Meta    Metadata // Arbitrary key-value metadata (never nil after AddNode)

	Kind NodeKind
	// MasterID links subdivider chains back to the source of the split edge.
	MasterID string
}

// IsSubdivider reports whether the node was inserted to break a long edge.
func (n Node) IsSubdivider() bool { return n.Kind == NodeKindSubdivider }

// EffectiveID returns MasterID if set, otherwise the node's ID.
func (n Node) EffectiveID() string {
	if n.MasterID != "" {
		return n.MasterID
	}
	return n.ID
}

// Edge is a directed, weighted connection between two nodes.
//
// A zero Weight is read as [DefaultWeight]; use [Edge.EffectiveWeight]
// instead of reading the field directly.
type Edge struct {
	From   string
	To     string
	Weight float64
	Meta   Metadata
}

// EffectiveWeight returns the edge weight with the default applied.
func (e Edge) EffectiveWeight() float64 {
	if e.Weight == 0 {
		return DefaultWeight
	}
	return e.Weight
}

// DAG is a directed graph organised into rows for layered layouts.
// Despite the name, DAG tolerates cycles until [DAG.Validate] is called;
// the transform package breaks them before layering.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent mutation, but read-only use (counting
// crossings, ordering) can run from multiple goroutines.
type DAG struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]Edge
	incoming map[string][]Edge
	rows     map[int][]*Node
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]Edge),
		incoming: make(map[string][]Edge),
		rows:     make(map[int][]*Node),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph and indexes it by its Row.
// Returns ErrInvalidNodeID if the ID is empty or ErrDuplicateNodeID if it
// is already in use.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.rows[node.Row] = append(d.rows[node.Row], node)
	return nil
}

// SetRows updates the row assignments for nodes and rebuilds the row index.
// Nodes not present in the rows map retain their current row. Row order
// within the index follows the previous index order, so repeated calls are
// deterministic.
func (d *DAG) SetRows(rows map[string]int) {
	prev := d.orderedNodes()
	d.rows = make(map[int][]*Node)
	for _, n := range prev {
		if newRow, ok := rows[n.ID]; ok {
			n.Row = newRow
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// AddEdge adds a directed edge between two existing nodes. Parallel edges
// are kept; each contributes to crossing counts independently.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
		return ErrNonFiniteWeight
	}
	if e.Weight < 0 {
		return ErrNegativeWeight
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e)
	d.incoming[e.To] = append(d.incoming[e.To], e)
	return nil
}

// RemoveEdge removes every edge from→to. No error is returned if none exist.
func (d *DAG) RemoveEdge(from, to string) {
	match := func(e Edge) bool { return e.From == from && e.To == to }
	d.edges = slices.DeleteFunc(d.edges, match)
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], match)
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], match)
}

// Clone returns a deep copy of the graph structure. Metadata maps are
// copied shallowly.
func (d *DAG) Clone() *DAG {
	c := New(maps.Clone(d.meta))
	for _, n := range d.orderedNodes() {
		cp := *n
		cp.Meta = maps.Clone(n.Meta)
		_ = c.AddNode(cp)
	}
	for _, e := range d.edges {
		e.Meta = maps.Clone(e.Meta)
		_ = c.AddEdge(e)
	}
	return c
}

// Nodes returns all nodes in row order, and in insertion order within a row.
// The returned slice contains pointers to the graph's nodes.
func (d *DAG) Nodes() []*Node { return d.orderedNodes() }

func (d *DAG) orderedNodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, r := range d.RowIDs() {
		nodes = append(nodes, d.rows[r]...)
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// OutEdges returns the edges leaving id. The slice must not be modified.
func (d *DAG) OutEdges(id string) []Edge { return d.outgoing[id] }

// InEdges returns the edges entering id. The slice must not be modified.
func (d *DAG) InEdges(id string) []Edge { return d.incoming[id] }

// Children returns the targets of id's outgoing edges, one entry per edge.
func (d *DAG) Children(id string) []string {
	out := d.outgoing[id]
	if len(out) == 0 {
		return nil
	}
	ids := make([]string, len(out))
	for i, e := range out {
		ids[i] = e.To
	}
	return ids
}

// Parents returns the sources of id's incoming edges, one entry per edge.
func (d *DAG) Parents(id string) []string {
	in := d.incoming[id]
	if len(in) == 0 {
		return nil
	}
	ids := make([]string, len(in))
	for i, e := range in {
		ids[i] = e.From
	}
	return ids
}

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodesInRow returns all nodes assigned to the given row in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount returns the number of distinct rows in the graph.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int {
	return slices.Sorted(maps.Keys(d.rows))
}

// MaxRow returns the highest row index, or 0 if the graph is empty.
func (d *DAG) MaxRow() int {
	if len(d.rows) == 0 {
		return 0
	}
	rowIDs := d.RowIDs()
	return rowIDs[len(rowIDs)-1]
}

// Sources returns nodes with no incoming edges, in row order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.orderedNodes() {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in row order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.orderedNodes() {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate checks that every edge connects existing nodes in consecutive
// rows (From.Row+1 == To.Row). Run transform.Normalize on raw graphs first.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if dst.Row != src.Row+1 {
			return ErrNonConsecutiveRows
		}
	}
	return nil
}

// PosMap creates a position lookup map from a slice of node IDs.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

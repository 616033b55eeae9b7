package dag

import (
	"errors"
	"math"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: error = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a): %v", err)
	}
	if err := g.AddNode(Node{ID: "a", Row: 1}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: error = %v, want ErrDuplicateNodeID", err)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta should be initialised")
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 1})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
		{"negative weight", Edge{From: "a", To: "b", Weight: -1}, ErrNegativeWeight},
		{"NaN weight", Edge{From: "a", To: "b", Weight: math.NaN()}, ErrNonFiniteWeight},
		{"infinite weight", Edge{From: "a", To: "b", Weight: math.Inf(1)}, ErrNonFiniteWeight},
		{"negative infinite weight", Edge{From: "a", To: "b", Weight: math.Inf(-1)}, ErrNonFiniteWeight},
		{"ok", Edge{From: "a", To: "b", Weight: 2.5}, nil},
		{"parallel", Edge{From: "a", To: "b"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.want)
			}
		})
	}

	if g.EdgeCount() != 2 {
		t.Fatalf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	out := g.OutEdges("a")
	if out[0].EffectiveWeight() != 2.5 || out[1].EffectiveWeight() != DefaultWeight {
		t.Errorf("weights = %v, %v", out[0].EffectiveWeight(), out[1].EffectiveWeight())
	}
	if got := g.Parents("b"); len(got) != 2 || got[0] != "a" {
		t.Errorf("Parents(b) = %v", got)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	g.RemoveEdge("a", "b")
	if g.EdgeCount() != 0 || g.OutDegree("a") != 0 || g.InDegree("b") != 0 {
		t.Errorf("edges remain after RemoveEdge: %d", g.EdgeCount())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "a", To: "b", Weight: 4})

	c := g.Clone()
	_ = c.AddNode(Node{ID: "c", Row: 1})
	c.RemoveEdge("a", "b")

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("original changed: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if c.NodeCount() != 3 || c.EdgeCount() != 0 {
		t.Errorf("clone: %d nodes, %d edges", c.NodeCount(), c.EdgeCount())
	}
}

func TestSetRowsKeepsOrder(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	g.SetRows(map[string]int{"b": 1, "c": 1})

	if got := NodeIDs(g.NodesInRow(1)); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("NodesInRow(1) = %v, want [b c]", got)
	}
	if g.MaxRow() != 1 || g.RowCount() != 2 {
		t.Errorf("MaxRow/RowCount = %d/%d", g.MaxRow(), g.RowCount())
	}
}

func TestValidate(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 2})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	if err := g.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("Validate() = %v, want ErrNonConsecutiveRows", err)
	}
}

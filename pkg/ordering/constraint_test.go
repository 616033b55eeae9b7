package ordering

import (
	"context"
	"testing"

	"github.com/matzehuels/rankorder/pkg/dag"
)

func TestConstraintGraph(t *testing.T) {
	cg := NewConstraintGraph()
	if !cg.AddEdge("a", "b") {
		t.Error("AddEdge(a, b) should report a new edge")
	}
	if cg.AddEdge("a", "b") {
		t.Error("duplicate edge should be ignored")
	}
	if cg.AddEdge("a", "a") {
		t.Error("self constraint should be ignored")
	}
	cg.AddEdge("c", "b")

	if cg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cg.Len())
	}
	if got := cg.Predecessors("b"); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Predecessors(b) = %v, want [a c]", got)
	}
	if got := cg.Successors("a"); len(got) != 1 || got[0] != "b" {
		t.Errorf("Successors(a) = %v, want [b]", got)
	}
	if !cg.Satisfied([]string{"c", "a", "b"}) {
		t.Error("c a b should satisfy the constraints")
	}
	if cg.Satisfied([]string{"b", "a", "c"}) {
		t.Error("b a c should violate a->b")
	}
	if !cg.Satisfied([]string{"b"}) {
		t.Error("constraints with absent endpoints should be ignored")
	}
}

func TestConstraintGraph_Nil(t *testing.T) {
	var cg *ConstraintGraph
	if cg.Len() != 0 || cg.Edges() != nil || cg.Successors("a") != nil {
		t.Error("nil graph should behave as empty")
	}
	if !cg.Satisfied([]string{"a", "b"}) {
		t.Error("nil graph is always satisfied")
	}
}

func TestConstraintGraph_ZeroValue(t *testing.T) {
	var cg ConstraintGraph
	if !cg.AddEdge("a", "b") || cg.AddEdge("a", "b") {
		t.Fatal("zero value should accept one a->b edge")
	}
	if cg.Len() != 1 || cg.Predecessors("b")[0] != "a" {
		t.Errorf("Edges() = %v", cg.Edges())
	}

	var nilGraph *ConstraintGraph
	if nilGraph.AddEdge("a", "b") {
		t.Error("AddEdge on a nil graph should record nothing")
	}
}

// literalConstrainer hands out constraint graphs built from a composite
// literal rather than NewConstraintGraph.
type literalConstrainer struct{}

func (literalConstrainer) Constraints(_ int, order []string) *ConstraintGraph {
	cg := &ConstraintGraph{}
	if len(order) == 2 {
		cg.AddEdge("x", "y")
	}
	return cg
}

func TestBarycentric_LiteralConstraintGraph(t *testing.T) {
	g := dag.New(nil)
	for _, n := range []dag.Node{{ID: "a"}, {ID: "b"}, {ID: "x", Row: 1}, {ID: "y", Row: 1}} {
		_ = g.AddNode(n)
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	res, err := Barycentric{Constraints: literalConstrainer{}}.Order(context.Background(), g, dag.Layering{{"a", "b"}, {"x", "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if rank := res.Layering[1]; rank[0] != "x" || rank[1] != "y" {
		t.Errorf("rank 1 = %v, want x before y", rank)
	}
}

func TestClusterConstraints(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Cluster: "k"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddNode(dag.Node{ID: "c", Cluster: "k"})
	_ = g.AddNode(dag.Node{ID: "d", Cluster: "m"})
	_ = g.AddNode(dag.Node{ID: "e", Cluster: "k"})

	cg := ClusterConstraints{Graph: g}.Constraints(0, []string{"c", "a", "b", "d", "e"})
	want := []Constraint{{"c", "a"}, {"a", "e"}}
	got := cg.Edges()
	if len(got) != len(want) {
		t.Fatalf("Edges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, got[i], want[i])
		}
	}

	if cg := (ClusterConstraints{Graph: g}).Constraints(0, []string{"b", "d"}); cg != nil {
		t.Errorf("no shared cluster should give nil, got %v", cg.Edges())
	}
}

func TestStaticAndMultiConstrainer(t *testing.T) {
	s := StaticConstraints{1: {{Before: "x", After: "y"}}}
	if s.Constraints(0, nil) != nil {
		t.Error("rank without constraints should give nil")
	}

	m := MultiConstrainer{s, StaticConstraints{1: {{Before: "x", After: "y"}, {Before: "y", After: "z"}}}}
	cg := m.Constraints(1, []string{"x", "y", "z"})
	if cg.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after de-duplication", cg.Len())
	}
}

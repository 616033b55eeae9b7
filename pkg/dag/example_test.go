package dag_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/rankorder/pkg/dag"
)

func ExampleDAG_basic() {
	// A three-rank path: a → b → c
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 1})
	_ = g.AddNode(dag.Node{ID: "c", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "c", Weight: 3})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	fmt.Println("Weight a->b:", g.OutEdges("a")[0].EffectiveWeight())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 3
	// Weight a->b: 1
}

func ExampleCountCrossings() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a1", Row: 0})
	_ = g.AddNode(dag.Node{ID: "a2", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b1", Row: 1})
	_ = g.AddNode(dag.Node{ID: "b2", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "a1", To: "b1", Weight: 2})
	_ = g.AddEdge(dag.Edge{From: "a2", To: "b2", Weight: 3})

	straight, _ := dag.CountCrossings(g, dag.Layering{{"a1", "a2"}, {"b1", "b2"}})
	crossed, _ := dag.CountCrossings(g, dag.Layering{{"a1", "a2"}, {"b2", "b1"}})

	fmt.Println("Straight:", straight)
	fmt.Println("Crossed:", crossed)
	// Output:
	// Straight: 0
	// Crossed: 6
}

func ExampleCountLayerCrossings() {
	// Edges may be stored in either direction between the two ranks.
	edges := []dag.Edge{
		{From: "x", To: "q"},
		{From: "p", To: "y"},
	}
	c, _ := dag.CountLayerCrossings([]string{"x", "y"}, []string{"p", "q"}, edges)
	fmt.Println("Crossings:", c)
	// Output:
	// Crossings: 1
}

func ExampleValidateLayering() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})

	err := dag.ValidateLayering(g, dag.Layering{{"a", "b"}, {"b"}})
	fmt.Println(errors.Is(err, dag.ErrMalformedLayering))
	fmt.Println(err)
	// Output:
	// true
	// malformed layering: rank 1: node "b": also placed in rank 0
}

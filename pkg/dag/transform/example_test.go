package transform_test

import (
	"fmt"

	"github.com/matzehuels/rankorder/pkg/dag"
	"github.com/matzehuels/rankorder/pkg/dag/transform"
)

func ExampleNormalize() {
	// app → auth → db, app → db (spans two rows after layering), db → app (cycle)
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "auth"})
	_ = g.AddNode(dag.Node{ID: "db"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "auth"})
	_ = g.AddEdge(dag.Edge{From: "auth", To: "db"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "db", Weight: 3})
	_ = g.AddEdge(dag.Edge{From: "db", To: "app"})

	res := transform.Normalize(g)

	fmt.Println("Reversed:", res.EdgesReversed)
	fmt.Println("Subdividers:", res.SubdividersAdded)
	fmt.Println("Rows:", g.RowCount())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Reversed: 1
	// Subdividers: 2
	// Rows: 3
	// Valid: true
}

func ExampleAssignLayers() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "lib"})
	_ = g.AddNode(dag.Node{ID: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	transform.AssignLayers(g)

	for _, id := range []string{"app", "lib", "core"} {
		n, _ := g.Node(id)
		fmt.Printf("%s row: %d\n", id, n.Row)
	}
	// Output:
	// app row: 0
	// lib row: 1
	// core row: 2
}

func ExampleSubdivide() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app", Row: 0})
	_ = g.AddNode(dag.Node{ID: "deep", Row: 3})
	_ = g.AddEdge(dag.Edge{From: "app", To: "deep", Weight: 2})

	added := transform.Subdivide(g)

	fmt.Println("Added:", added)
	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s (%.0f)\n", e.From, e.To, e.EffectiveWeight())
	}
	// Output:
	// Added: 2
	// app -> app_sub_1 (2)
	// app_sub_1 -> app_sub_2 (2)
	// app_sub_2 -> deep (2)
}

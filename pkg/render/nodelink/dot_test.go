package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/rankorder/pkg/dag"
)

func testGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, n := range []dag.Node{
		{ID: "a", Row: 0},
		{ID: "x", Row: 1, Meta: dag.Metadata{"version": "2"}},
		{ID: "y", Row: 1},
		{ID: "s", Row: 1, Kind: dag.NodeKindSubdivider, MasterID: "a"},
		{ID: "z", Row: 2},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []dag.Edge{
		{From: "a", To: "x", Weight: 3},
		{From: "a", To: "y"},
		{From: "a", To: "s"},
		{From: "s", To: "z"},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, dag.Layering{{"a"}, {"y", "s", "x"}, {"z"}}, Options{Weights: true})

	for _, want := range []string{
		"ordering=out;",
		"subgraph rank1 {\n    rank=same;",
		`"y" -> "s" -> "x" [style=invis];`,
		`"a" -> "x" [penwidth=3];`,
		`"a" -> "y";`,
		`"a" -> "s" [arrowhead=none];`,
		`"s" [shape=point`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	yPos := strings.Index(dot, `"y" [label`)
	xPos := strings.Index(dot, `"x" [label`)
	if yPos < 0 || xPos < 0 || yPos > xPos {
		t.Error("nodes should be declared in layering order")
	}
}

func TestToDOTDetailedAndDefaults(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, nil, Options{Detailed: true})

	if !strings.Contains(dot, `label="x\nrow: 1\nversion: 2"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if strings.Contains(dot, "penwidth") {
		t.Error("penwidth should only appear with Weights")
	}
	if !strings.Contains(dot, `"x" -> "y" -> "s" [style=invis];`) {
		t.Errorf("nil layering should use row order:\n%s", dot)
	}
}

func TestRender(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, nil, Options{})
	ctx := context.Background()

	out, err := Render(ctx, dot, FormatDOT)
	if err != nil || string(out) != dot {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}

	svg, err := Render(ctx, dot, FormatSVG)
	if err != nil {
		t.Fatalf("Render(svg): %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}

	if _, err := Render(ctx, dot, "gif"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestPenWidth(t *testing.T) {
	tests := []struct{ in, want float64 }{{0.5, 1}, {2, 2}, {20, 8}}
	for _, tt := range tests {
		if got := penWidth(tt.in); got != tt.want {
			t.Errorf("penWidth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

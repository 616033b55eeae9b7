package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/rankorder/pkg/cache"
	"github.com/matzehuels/rankorder/pkg/dag"
	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/graph"
	"github.com/matzehuels/rankorder/pkg/observability"
	"github.com/matzehuels/rankorder/pkg/ordering"
)

// graph1 starts with one crossing (a→e over d→e's neighbours) and can be
// drawn without any.
func graph1() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "a"}, {ID: "d"},
			{ID: "b", Row: 1}, {ID: "e", Row: 1}, {ID: "f", Row: 1},
			{ID: "c", Row: 2}, {ID: "i", Row: 2},
		},
		Edges: []graph.Edge{
			{From: "a", To: "b"}, {From: "b", To: "c"},
			{From: "d", To: "e"}, {From: "e", To: "c"},
			{From: "a", To: "f"}, {From: "f", To: "i"},
			{From: "a", To: "e"},
		},
	}
}

func crossX() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "x", Row: 1}, {ID: "y", Row: 1}},
		Edges: []graph.Edge{{From: "a", To: "y"}, {From: "b", To: "x"}},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Quality != "balanced" || opts.Bias != "alternate" {
		t.Errorf("defaults = %q/%q", opts.Quality, opts.Bias)
	}

	b := opts.Orderer()
	if b.MaxSweeps != ordering.DefaultMaxSweeps || b.MaxStale != ordering.DefaultMaxStale || b.Timeout != 5*time.Second {
		t.Errorf("Orderer() = %+v", b)
	}
}

func TestOptionsOverridePreset(t *testing.T) {
	opts := Options{Quality: "Fast", MaxSweeps: 3, Parallel: true, Bias: "right", Init: "dfs"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Quality != "fast" {
		t.Errorf("Quality not normalized: %q", opts.Quality)
	}

	b := opts.Orderer()
	if b.MaxSweeps != 3 || b.MaxStale != 2 || b.Timeout != 100*time.Millisecond {
		t.Errorf("limits = %d/%d/%v", b.MaxSweeps, b.MaxStale, b.Timeout)
	}
	if !b.Parallel || b.Bias != ordering.BiasRight || b.Init != (ordering.DepthFirst{}) {
		t.Errorf("Orderer() = %+v", b)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"quality", Options{Quality: "best"}, errs.ErrCodeInvalidQuality},
		{"bias", Options{Bias: "up"}, errs.ErrCodeInvalidInput},
		{"init", Options{Init: "bfs"}, errs.ErrCodeInvalidInput},
		{"negative", Options{MaxStale: -1}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Quality: "thorough"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.KeyOpts()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.KeyOpts() != first {
		t.Error("second call changed options")
	}
}

func TestRunnerOrderAndCache(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Order(ctx, graph1(), Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if res.CacheHit {
		t.Error("first run should miss the cache")
	}
	if res.Doc.Crossings != 0 || res.Doc.InitialCrossings != 1 || res.Doc.Stop != string(ordering.StopOptimal) {
		t.Errorf("Doc = %+v", res.Doc)
	}
	if res.RunID == "" || res.Doc.RunID != res.RunID || len(res.GraphHash) != 64 {
		t.Errorf("RunID/GraphHash = %q/%q", res.RunID, res.GraphHash)
	}
	if c, _ := dag.CountCrossings(res.Graph, res.Doc.LayeringOf()); c != 0 {
		t.Errorf("layering has %v crossings", c)
	}

	again, err := r.Order(ctx, graph1(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || !again.Doc.CacheHit {
		t.Error("second run should hit the cache")
	}
	if again.RunID == res.RunID {
		t.Error("every run gets its own RunID")
	}
	if !again.Doc.LayeringOf().Equal(res.Doc.LayeringOf()) {
		t.Errorf("cached layering %v != %v", again.Doc.Layering, res.Doc.Layering)
	}

	other, _ := r.Order(ctx, graph1(), Options{Quality: "fast"})
	if other.CacheHit {
		t.Error("different options should not share a cache entry")
	}
	refreshed, _ := r.Order(ctx, graph1(), Options{Refresh: true})
	if refreshed.CacheHit {
		t.Error("Refresh should skip the cache lookup")
	}
}

func TestRunnerConstraints(t *testing.T) {
	doc := crossX()
	doc.Constraints = []graph.Constraint{{Rank: 1, Before: "x", After: "y"}}

	res, err := NewRunner(nil, nil, nil).Order(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := dag.Layering{{"b", "a"}, {"x", "y"}}
	if !res.Doc.LayeringOf().Equal(want) || res.Doc.Crossings != 0 {
		t.Errorf("Layering = %v (%v crossings), want %v", res.Doc.Layering, res.Doc.Crossings, want)
	}
}

func TestRunnerConstraintsFollowRows(t *testing.T) {
	doc := graph.Graph{
		Nodes: []graph.Node{{ID: "a", Row: 1}, {ID: "b", Row: 1}, {ID: "x", Row: 2}, {ID: "y", Row: 2}},
		Edges: []graph.Edge{{From: "a", To: "y"}, {From: "b", To: "x"}},
		Constraints: []graph.Constraint{{Rank: 2, Before: "x", After: "y"}},
	}

	res, err := NewRunner(nil, nil, nil).Order(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := dag.Layering{{"b", "a"}, {"x", "y"}}
	if !res.Doc.LayeringOf().Equal(want) {
		t.Errorf("Layering = %v, want %v", res.Doc.Layering, want)
	}
}

func TestRunnerConstraintsWrongRank(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	byRow := crossX()
	byRow.Constraints = []graph.Constraint{{Rank: 0, Before: "x", After: "y"}}
	if _, err := r.Order(ctx, byRow, Options{}); !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Errorf("row mismatch: error = %v", err)
	}

	byLayering := crossX()
	byLayering.Layering = [][]string{{"b", "a"}, {"y", "x"}}
	byLayering.Constraints = []graph.Constraint{{Rank: 0, Before: "x", After: "y"}}
	if _, err := r.Order(ctx, byLayering, Options{}); !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Errorf("layering mismatch: error = %v", err)
	}

	byLayering.Constraints[0].Rank = 1
	res, err := r.Order(ctx, byLayering, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rank := res.Doc.Layering[1]; rank[0] != "x" || rank[1] != "y" {
		t.Errorf("rank 1 = %v, want x before y", rank)
	}
}

func TestRunnerClusters(t *testing.T) {
	doc := crossX()
	doc.Nodes[2].Cluster = "k"
	doc.Nodes[3].Cluster = "k"

	res, err := NewRunner(nil, nil, nil).Order(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	rank := res.Doc.Layering[1]
	if rank[0] != "x" || rank[1] != "y" {
		t.Errorf("cluster members should keep their order, got %v", rank)
	}
}

func TestRunnerNormalize(t *testing.T) {
	doc := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
	}
	res, err := NewRunner(nil, nil, nil).Order(context.Background(), doc, Options{Normalize: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Doc.Transform == nil || res.Doc.Transform.EdgesReversed != 1 {
		t.Fatalf("Transform = %+v", res.Doc.Transform)
	}
	if res.Doc.Graph == nil || len(res.Doc.Graph.Nodes) != 2 {
		t.Errorf("prepared graph missing: %+v", res.Doc.Graph)
	}
	if !res.Doc.LayeringOf().Equal(dag.Layering{{"a"}, {"b"}}) {
		t.Errorf("Layering = %v", res.Doc.Layering)
	}
}

func TestRunnerSubdividesLongEdges(t *testing.T) {
	doc := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b", Row: 1}, {ID: "c", Row: 2}},
		Edges: []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "a", To: "c", Weight: 2}},
	}
	res, err := NewRunner(nil, nil, nil).Order(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Doc.Transform == nil || res.Doc.Transform.SubdividersAdded != 1 {
		t.Fatalf("Transform = %+v", res.Doc.Transform)
	}
	if len(res.Doc.Layering[1]) != 2 {
		t.Errorf("rank 1 = %v, want b and a subdivider", res.Doc.Layering[1])
	}
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	withLayering := crossX()
	withLayering.Layering = [][]string{{"a", "b"}, {"x", "y"}}
	if _, err := r.Order(ctx, withLayering, Options{Normalize: true}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("layering+normalize: error = %v", err)
	}

	malformed := crossX()
	malformed.Layering = [][]string{{"a", "b"}, {"x"}}
	_, err := r.Order(ctx, malformed, Options{})
	if got := errs.FromError(err).Code; got != errs.ErrCodeMalformedLayering {
		t.Errorf("missing node: code = %s (%v)", got, err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Order(canceled, graph1(), Options{})
	if got := errs.FromError(err).Code; got != errs.ErrCodeCanceled {
		t.Errorf("canceled: code = %s (%v)", got, err)
	}
}

type recordingHooks struct {
	mu        sync.Mutex
	starts    int
	sweeps    int
	completes int
	lastErr   error
}

func (h *recordingHooks) OnOrderStart(context.Context, string, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *recordingHooks) OnSweep(context.Context, string, int, float64, float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sweeps++
}

func (h *recordingHooks) OnOrderComplete(_ context.Context, _ string, _ float64, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
	h.lastErr = err
}

func TestRunnerHooksAndProgress(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetOrderingHooks(hooks)
	defer observability.Reset()

	progress := 0
	res, err := NewRunner(nil, nil, nil).Order(context.Background(), graph1(), Options{
		Progress: func(int, float64, float64) { progress++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	if hooks.starts != 1 || hooks.completes != 1 || hooks.lastErr != nil {
		t.Errorf("hooks = %+v", hooks)
	}
	if hooks.sweeps != res.Doc.Sweeps || progress != res.Doc.Sweeps {
		t.Errorf("sweep events = %d/%d, want %d", hooks.sweeps, progress, res.Doc.Sweeps)
	}
}

func TestCrossings(t *testing.T) {
	c, l, err := Crossings(graph1())
	if err != nil {
		t.Fatal(err)
	}
	if c != 1 || !l.Equal(dag.Layering{{"a", "d"}, {"b", "e", "f"}, {"c", "i"}}) {
		t.Errorf("Crossings() = %v on %v", c, l)
	}

	doc := graph1()
	doc.Layering = [][]string{{"d", "a"}, {"e", "b", "f"}, {"c", "i"}}
	if c, _, _ := Crossings(doc); c != 0 {
		t.Errorf("explicit layering: %v crossings, want 0", c)
	}
}

func TestRender(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Order(context.Background(), crossX(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(context.Background(), res.Graph, res.Doc.LayeringOf(), RenderOptions{Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out["dot"]), `"y" -> "x" [style=invis];`) {
		t.Errorf("DOT should pin the computed order:\n%s", out["dot"])
	}

	if _, err := r.Render(context.Background(), res.Graph, nil, RenderOptions{Formats: []string{"pdf"}}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("pdf: error = %v", err)
	}
}

func TestExampleDocuments(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	for _, tt := range []struct {
		file      string
		normalize bool
	}{
		{"services.json", false},
		{"cyclic.json", true},
	} {
		t.Run(tt.file, func(t *testing.T) {
			doc, err := graph.LoadGraphFile(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatal(err)
			}
			res, err := r.Order(context.Background(), doc, Options{Normalize: tt.normalize})
			if err != nil {
				t.Fatalf("Order: %v", err)
			}
			if res.Doc.Crossings > res.Doc.InitialCrossings {
				t.Errorf("crossings grew: %v > %v", res.Doc.Crossings, res.Doc.InitialCrossings)
			}
			if err := dag.ValidateLayering(res.Graph, res.Doc.LayeringOf()); err != nil {
				t.Errorf("result layering invalid: %v", err)
			}
		})
	}
}

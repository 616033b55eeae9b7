package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/rankorder/pkg/config"
	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/graph"
)

const testGraph = `{
  "nodes": [
    {"id": "a"}, {"id": "d"},
    {"id": "b", "row": 1}, {"id": "e", "row": 1}, {"id": "f", "row": 1},
    {"id": "c", "row": 2}, {"id": "i", "row": 2}
  ],
  "edges": [
    {"from": "a", "to": "b"}, {"from": "b", "to": "c"},
    {"from": "d", "to": "e"}, {"from": "e", "to": "c"},
    {"from": "a", "to": "f"}, {"from": "f", "to": "i"},
    {"from": "a", "to": "e"}
  ]
}`

// testEnv is a temp directory with a graph file and a config whose file
// cache lives inside the directory.
type testEnv struct {
	dir      string
	graph    string
	config   string
	cacheDir string
}

func newTestEnv(t *testing.T, extraConfig string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:      dir,
		graph:    filepath.Join(dir, "graph.json"),
		config:   filepath.Join(dir, "config.toml"),
		cacheDir: filepath.Join(dir, "cache"),
	}
	if err := os.WriteFile(env.graph, []byte(testGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf("[cache]\ndir = %q\n%s", env.cacheDir, extraConfig)
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e testEnv) run(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return c, root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"order", "crossings", "render", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestOrderCommand(t *testing.T) {
	env := newTestEnv(t, "")
	out := filepath.Join(env.dir, "result.json")

	if _, err := env.run(t, "order", env.graph, "-o", out); err != nil {
		t.Fatalf("order: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	res, err := graph.UnmarshalResult(data)
	if err != nil {
		t.Fatal(err)
	}
	if res.Crossings != 0 || res.InitialCrossings != 1 || len(res.Layering) != 3 {
		t.Errorf("result = %+v", res)
	}

	entries, _ := os.ReadDir(env.cacheDir)
	if len(entries) == 0 {
		t.Error("result should have been cached")
	}
}

func TestOrderCommandDefaultOutput(t *testing.T) {
	env := newTestEnv(t, "")
	if _, err := env.run(t, "order", env.graph, "--no-cache", "--quality", "fast"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "graph.order.json")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
	if _, err := os.Stat(env.cacheDir); !os.IsNotExist(err) {
		t.Error("--no-cache should not create the cache directory")
	}
}

func TestOrderCommandErrors(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"bad quality", []string{"order", env.graph, "--quality", "best"}, errs.ErrCodeInvalidQuality},
		{"bad bias", []string{"order", env.graph, "--bias", "up"}, errs.ErrCodeInvalidInput},
		{"missing file", []string{"order", filepath.Join(env.dir, "nope.json")}, errs.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := env.run(t, "order", env.graph, "--timeout", "soon"); err == nil {
		t.Error("invalid --timeout should fail")
	}
}

func TestConfigIsApplied(t *testing.T) {
	env := newTestEnv(t, "[ordering]\nquality = \"thorough\"\n[log]\nlevel = \"warn\"\nformat = \"json\"\n")
	c, err := env.run(t, "crossings", env.graph)
	if err != nil {
		t.Fatal(err)
	}
	if c.Config.Ordering.Quality != "thorough" || c.Config.Cache.Dir != env.cacheDir {
		t.Errorf("config not loaded: %+v", c.Config)
	}
	if c.Logger.GetLevel().String() != "warn" {
		t.Errorf("log level = %s, want warn", c.Logger.GetLevel())
	}
}

func TestConfigErrors(t *testing.T) {
	env := newTestEnv(t, "[ordering]\nquality = \"best\"\n")
	if _, err := env.run(t, "crossings", env.graph); !errs.Is(err, errs.ErrCodeInvalidQuality) {
		t.Errorf("invalid config: error = %v", err)
	}

	env.config = filepath.Join(env.dir, "missing.toml")
	if _, err := env.run(t, "crossings", env.graph); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing config: error = %v", err)
	}
}

func TestVerboseOverridesConfig(t *testing.T) {
	env := newTestEnv(t, "[log]\nlevel = \"error\"\n")
	c, err := env.run(t, "-v", "crossings", env.graph)
	if err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %s, want debug", c.Logger.GetLevel())
	}
}

func TestRenderCommand(t *testing.T) {
	env := newTestEnv(t, "")
	out := filepath.Join(env.dir, "graph.dot")

	if _, err := env.run(t, "render", env.graph, "-f", "dot", "-o", out, "--weights"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "rank=same;") {
		t.Errorf("unexpected DOT:\n%s", data)
	}

	if _, err := env.run(t, "render", env.graph, "-f", "pdf"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("pdf: error = %v", err)
	}
}

func TestRenderCommandMultipleFormats(t *testing.T) {
	env := newTestEnv(t, "")
	if _, err := env.run(t, "render", env.graph, "-f", "dot,svg", "-o", filepath.Join(env.dir, "out.svg")); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"out.dot", "out.svg"} {
		if _, err := os.Stat(filepath.Join(env.dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestCrossingsCommandMalformed(t *testing.T) {
	env := newTestEnv(t, "")
	bad := filepath.Join(env.dir, "bad.json")
	doc := `{"nodes": [{"id": "a"}, {"id": "b", "row": 1}], "edges": [], "layering": [["a"]]}`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := env.run(t, "crossings", bad)
	if got := errs.FromError(err).Code; got != errs.ErrCodeMalformedLayering {
		t.Errorf("code = %s (%v)", got, err)
	}
}

func TestCachePathCommand(t *testing.T) {
	env := newTestEnv(t, "")
	c, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if c.Config.Cache.Backend != config.BackendFile {
		t.Errorf("backend = %q", c.Config.Cache.Backend)
	}
}

package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rankorder/pkg/dag"
	"github.com/matzehuels/rankorder/pkg/dag/transform"
	"github.com/matzehuels/rankorder/pkg/ordering"
)

// =============================================================================
// Result - Ordering Output Document
// =============================================================================

// Result is the serialization format for an ordering run.
//
// Layering has the shape of the input: one entry per rank, each listing node
// IDs left to right. When the input was normalized, Graph holds the prepared
// graph (with subdivider nodes) that Layering refers to.
type Result struct {
	RunID            string     `json:"run_id,omitempty"`
	Layering         [][]string `json:"layering"`
	Crossings        float64    `json:"crossings"`
	InitialCrossings float64    `json:"initial_crossings"`
	Sweeps           int        `json:"sweeps"`
	Stop             string     `json:"stop"`
	CacheHit         bool       `json:"cache_hit,omitempty"`

	Transform *TransformStats `json:"transform,omitempty"`
	Graph     *Graph          `json:"graph,omitempty"`
}

// TransformStats reports what graph preparation changed.
type TransformStats struct {
	EdgesReversed    int `json:"edges_reversed,omitempty"`
	SelfLoopsRemoved int `json:"self_loops_removed,omitempty"`
	SubdividersAdded int `json:"subdividers_added,omitempty"`
	MaxRow           int `json:"max_row"`
}

// NewResult converts an ordering result. The layering is copied.
func NewResult(r *ordering.Result) Result {
	return Result{
		Layering:         r.Layering.Clone(),
		Crossings:        r.Crossings,
		InitialCrossings: r.InitialCrossings,
		Sweeps:           r.Sweeps,
		Stop:             string(r.Stop),
	}
}

// NewTransformStats converts a transform result.
func NewTransformStats(r transform.Result) *TransformStats {
	return &TransformStats{
		EdgesReversed:    r.EdgesReversed,
		SelfLoopsRemoved: r.SelfLoopsRemoved,
		SubdividersAdded: r.SubdividersAdded,
		MaxRow:           r.MaxRow,
	}
}

// LayeringOf returns Layering as a dag.Layering.
func (r Result) LayeringOf() dag.Layering {
	return dag.Layering(r.Layering)
}

// WriteResult writes r as indented JSON.
func WriteResult(r Result, w io.Writer) error {
	return encodeTo(r, w)
}

// WriteResultFile writes r to a JSON file.
func WriteResultFile(r Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return encodeTo(r, f)
}

// UnmarshalResult deserializes JSON bytes to a Result.
func UnmarshalResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, err
	}
	return r, nil
}

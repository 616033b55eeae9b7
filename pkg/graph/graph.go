package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rankorder/pkg/dag"
	errs "github.com/matzehuels/rankorder/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a DAG to indented JSON bytes.
func MarshalGraph(g *dag.DAG) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeTo(FromDAG(g), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a DAG as JSON to an io.Writer.
func WriteGraph(g *dag.DAG, w io.Writer) error {
	return encodeTo(FromDAG(g), w)
}

// WriteGraphFile writes a DAG to a JSON file.
func WriteGraphFile(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return encodeTo(FromDAG(g), f)
}

// ReadGraph decodes a JSON document from r and converts it to a DAG.
// Layering and constraints in the document are validated but otherwise
// ignored; use [DecodeGraph] to keep them.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	doc, err := DecodeGraph(r)
	if err != nil {
		return nil, err
	}
	return ToDAG(doc)
}

// ReadGraphFile reads a JSON file and returns the decoded DAG.
func ReadGraphFile(path string) (*dag.DAG, error) {
	doc, err := LoadGraphFile(path)
	if err != nil {
		return nil, err
	}
	return ToDAG(doc)
}

// DecodeGraph decodes a JSON document without converting it.
func DecodeGraph(r io.Reader) (Graph, error) {
	var doc Graph
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Graph{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}
	return doc, nil
}

// LoadGraphFile reads a JSON document from path without converting it.
func LoadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Graph{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeGraph(f)
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	return DecodeGraph(bytes.NewReader(data))
}

// Canonical returns the compact JSON encoding of the document. encoding/json
// sorts map keys, so equal documents produce equal bytes; the pipeline
// hashes this for cache keys.
func (gj Graph) Canonical() ([]byte, error) {
	return json.Marshal(gj)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func encodeTo(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Package graph provides the JSON documents exchanged by the CLI and the
// HTTP API: the input [Graph] and the ordering [Result].
//
// # Graph Documents
//
// A graph lists nodes with their rows and weighted edges, optionally with an
// explicit starting layering and per-rank ordering constraints:
//
//	{
//	  "nodes": [
//	    {"id": "app"},
//	    {"id": "http", "row": 1, "cluster": "net"},
//	    {"id": "tls", "row": 1, "cluster": "net"}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "http", "weight": 2},
//	    {"from": "app", "to": "tls"}
//	  ],
//	  "layering": [["app"], ["tls", "http"]],
//	  "constraints": [{"rank": 1, "before": "tls", "after": "http"}]
//	}
//
// Node order matters: without "layering", each rank starts in document
// order. A missing weight means 1; negative, NaN and infinite weights are
// rejected.
//
// Common operations:
//
//	doc, _ := graph.LoadGraphFile("deps.json")  // File → Graph
//	g, _ := graph.ToDAG(doc)                    // Graph → DAG (validated)
//	graph.WriteGraphFile(g, "out.json")         // DAG → File
//
// # Result Documents
//
// [Result] carries the final layering, its weighted crossing count, the
// count of the starting layering, the number of sweeps and the stop reason.
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct values.
package graph

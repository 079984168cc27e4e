// Package graph provides the file formats for weighted undirected graphs and
// run traces.
//
// This package sits at the serialization boundary between files, HTTP bodies
// and the cache on one side and the in-memory engine types of
// pkg/kruskal on the other. It never runs the algorithm itself.
//
// # Graph Files
//
// Graphs are stored as JSON or TOML. Both carry the same fields:
//
//	{
//	  "name": "triangle",
//	  "vertices": ["A", "B", "C"],
//	  "edges": [
//	    {"from": "A", "to": "B", "weight": 1},
//	    {"from": "B", "to": "C", "weight": 2.5}
//	  ]
//	}
//
// The TOML form uses an array of tables for edges:
//
//	name = "triangle"
//	vertices = ["A", "B", "C"]
//
//	[[edges]]
//	from = "A"
//	to = "B"
//	weight = 1
//
// The vertex list is authoritative: an edge that names a vertex missing from
// it is rejected when the engine is built. When the vertex list is omitted
// entirely, it is derived from the edge endpoints (sorted).
//
// # Formats
//
// [ReadGraphFile] picks the decoder from the file extension (.json, .toml).
// [ReadGraph] and [WriteGraph] take an explicit [Format].
//
// # Traces
//
// A [Trace] captures one complete run: the input graph, every decision, the
// final forest and decision statistics. Traces are what the CLI prints with
// --json, what the cache stores and what the history store persists.
//
// # Conversion
//
//	kg := g.ToKruskal()                  // Graph → kruskal.Graph[string]
//	g := graph.FromKruskal("name", kg)   // kruskal.Graph[string] → Graph
package graph

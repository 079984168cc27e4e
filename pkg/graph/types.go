package graph

import (
	"slices"
	"time"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

// Format identifies a graph file encoding.
type Format string

// Supported graph formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// =============================================================================
// Graph - Weighted Undirected Graph
// =============================================================================

// Graph is the serialization format for input graphs.
type Graph struct {
	Name        string   `json:"name,omitempty" toml:"name,omitempty"`
	Description string   `json:"description,omitempty" toml:"description,omitempty"`
	Vertices    []string `json:"vertices,omitempty" toml:"vertices,omitempty"`
	Edges       []Edge   `json:"edges" toml:"edges"`
}

// Edge is an undirected weighted edge between two vertex labels.
type Edge struct {
	From   string  `json:"from" toml:"from"`
	To     string  `json:"to" toml:"to"`
	Weight float64 `json:"weight" toml:"weight"`
}

// VertexSet returns the declared vertices, or the sorted set of edge
// endpoints when none are declared.
func (g Graph) VertexSet() []string {
	if len(g.Vertices) > 0 {
		return slices.Clone(g.Vertices)
	}
	seen := make(map[string]struct{}, 2*len(g.Edges))
	var out []string
	for _, e := range g.Edges {
		for _, v := range []string{e.From, e.To} {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	slices.Sort(out)
	return out
}

// VertexCount returns the number of vertices in [Graph.VertexSet].
func (g Graph) VertexCount() int { return len(g.VertexSet()) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Density returns |E| / (|V|·(|V|-1)/2), the fraction of possible vertex
// pairs that are joined. Graphs with fewer than two vertices have density 0.
func (g Graph) Density() float64 {
	n := float64(g.VertexCount())
	if n < 2 {
		return 0
	}
	return float64(len(g.Edges)) / (n * (n - 1) / 2)
}

// HasDuplicateWeights reports whether two edges share a weight. Unique
// weights guarantee a unique minimum spanning forest.
func (g Graph) HasDuplicateWeights() bool {
	seen := make(map[float64]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if _, ok := seen[e.Weight]; ok {
			return true
		}
		seen[e.Weight] = struct{}{}
	}
	return false
}

// ToKruskal converts the graph to the engine's input type.
func (g Graph) ToKruskal() kruskal.Graph[string] {
	out := kruskal.Graph[string]{
		Vertices: g.VertexSet(),
		Edges:    make([]kruskal.Edge[string], len(g.Edges)),
	}
	for i, e := range g.Edges {
		out.Edges[i] = kruskal.Edge[string]{From: e.From, To: e.To, Weight: e.Weight}
	}
	return out
}

// FromKruskal converts an engine graph back to the serialization format.
func FromKruskal(name string, kg kruskal.Graph[string]) Graph {
	out := Graph{
		Name:     name,
		Vertices: slices.Clone(kg.Vertices),
		Edges:    make([]Edge, len(kg.Edges)),
	}
	for i, e := range kg.Edges {
		out.Edges[i] = Edge{From: e.From, To: e.To, Weight: e.Weight}
	}
	return out
}

// =============================================================================
// Trace - Complete Run Record
// =============================================================================

// Trace records a complete run of the engine over one graph.
type Trace struct {
	ID        string                     `json:"id,omitempty"`
	Name      string                     `json:"name"`
	CreatedAt time.Time                  `json:"created_at,omitzero"`
	GraphHash string                     `json:"graph_hash,omitempty"`
	Graph     Graph                      `json:"graph"`
	Decisions []kruskal.Decision[string] `json:"decisions"`
	Forest    kruskal.Forest[string]     `json:"forest"`
	Stats     kruskal.Stats              `json:"stats"`
}

// Accepted returns the accepted decisions in order.
func (t *Trace) Accepted() []kruskal.Decision[string] {
	var out []kruskal.Decision[string]
	for _, d := range t.Decisions {
		if d.Accepted {
			out = append(out, d)
		}
	}
	return out
}

// NewTrace runs e to completion from its current position and records the
// result together with g. The engine is reset first so the trace always
// starts from the first edge.
func NewTrace(name string, g Graph, e *kruskal.Engine[string]) *Trace {
	e.Reset()
	decisions := e.Run()
	return &Trace{
		Name:      name,
		Graph:     g,
		Decisions: decisions,
		Forest:    e.Forest(),
		Stats:     e.Stats(),
	}
}

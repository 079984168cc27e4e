package kruskal

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/kruskal/pkg/dsu"
)

// Engine is a resumable Kruskal run over a fixed graph.
//
// The zero value is not usable - use [New].
type Engine[V cmp.Ordered] struct {
	graph Graph[V]

	// Fixed at construction, never re-sorted.
	edges []Edge[V]
	ends  [][2]int // dense union-find indices of edges[i]

	sets      *dsu.DisjointSet[V]
	cursor    int
	forest    []Edge[V]
	total     float64
	decisions []Decision[V]
	status    []Status
}

// New validates g, sorts its edges once and returns an engine positioned
// before the first edge.
//
// Errors:
//   - ErrEmptyGraph: g has no vertices
//   - ErrDuplicateVertex: a vertex is listed twice
//   - ErrUnknownVertex: an edge endpoint is not in g.Vertices
//   - ErrInvalidEdge: self-loop, repeated unordered pair, or non-finite weight
//
// All validation happens here so that a constructed engine never fails.
func New[V cmp.Ordered](g Graph[V]) (*Engine[V], error) {
	if len(g.Vertices) == 0 {
		return nil, ErrEmptyGraph
	}
	sets, err := dsu.New(g.Vertices)
	if err != nil {
		return nil, err
	}

	type pair struct{ lo, hi V }
	seen := make(map[pair]struct{}, len(g.Edges))
	for i, e := range g.Edges {
		if _, ok := sets.Index(e.From); !ok {
			return nil, fmt.Errorf("edge %d (%v): %w: %v", i, e, ErrUnknownVertex, e.From)
		}
		if _, ok := sets.Index(e.To); !ok {
			return nil, fmt.Errorf("edge %d (%v): %w: %v", i, e, ErrUnknownVertex, e.To)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("edge %d (%v): %w: self-loop", i, e, ErrInvalidEdge)
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, fmt.Errorf("edge %d (%v): %w: weight is not finite", i, e, ErrInvalidEdge)
		}
		lo, hi := e.Endpoints()
		if _, dup := seen[pair{lo, hi}]; dup {
			return nil, fmt.Errorf("edge %d (%v): %w: duplicate edge between %v and %v", i, e, ErrInvalidEdge, lo, hi)
		}
		seen[pair{lo, hi}] = struct{}{}
	}

	edges := slices.Clone(g.Edges)
	slices.SortStableFunc(edges, compareEdges[V])

	ends := make([][2]int, len(edges))
	for i, e := range edges {
		u, _ := sets.Index(e.From)
		v, _ := sets.Index(e.To)
		ends[i] = [2]int{u, v}
	}

	e := &Engine[V]{
		graph: Graph[V]{Vertices: slices.Clone(g.Vertices), Edges: slices.Clone(g.Edges)},
		edges: edges,
		ends:  ends,
	}
	e.init(sets)
	return e, nil
}

// init installs a fresh union-find and clears all progress.
func (e *Engine[V]) init(sets *dsu.DisjointSet[V]) {
	e.sets = sets
	e.cursor = 0
	e.forest = nil
	e.total = 0
	e.decisions = nil
	e.status = make([]Status, len(e.edges))
}

// Step considers the next edge in sorted order. It returns the decision and
// true, or a zero Decision and false once every edge has been considered.
// Calling Step on a completed engine changes nothing.
func (e *Engine[V]) Step() (Decision[V], bool) {
	if e.cursor >= len(e.edges) {
		return Decision[V]{}, false
	}
	i := e.cursor
	edge := e.edges[i]
	u, v := e.ends[i][0], e.ends[i][1]

	accepted := e.sets.FindIndex(u) != e.sets.FindIndex(v)
	if accepted {
		e.sets.UnionIndex(u, v)
		e.forest = append(e.forest, edge)
		e.total += edge.Weight
		e.status[i] = StatusAccepted
	} else {
		e.status[i] = StatusRejected
	}
	e.cursor++

	d := Decision[V]{Edge: edge, Index: i, Accepted: accepted, TotalWeight: e.total}
	e.decisions = append(e.decisions, d)
	return d, true
}

// Run steps until every edge has been considered and returns the decisions
// made by this call, in order. It returns an empty slice on a completed engine.
func (e *Engine[V]) Run() []Decision[V] {
	out := make([]Decision[V], 0, len(e.edges)-e.cursor)
	for {
		d, ok := e.Step()
		if !ok {
			return out
		}
		out = append(out, d)
	}
}

// Reset discards the union-find and the forest and rewinds to the first
// edge. The sorted sequence is reused, so replaying reproduces the same
// decisions.
func (e *Engine[V]) Reset() {
	// Vertices were validated in New; a fresh set cannot fail.
	sets, _ := dsu.New(e.graph.Vertices)
	e.init(sets)
}

// Forest returns a snapshot of the accepted edges, the running total and the
// current number of union-find components.
func (e *Engine[V]) Forest() Forest[V] {
	return Forest[V]{
		Edges:       slices.Clone(e.forest),
		TotalWeight: e.total,
		Components:  e.sets.ComponentCount(),
	}
}

// Complete reports whether every edge has been considered.
func (e *Engine[V]) Complete() bool { return e.cursor == len(e.edges) }

// State returns the lifecycle phase.
func (e *Engine[V]) State() State {
	switch {
	case e.Complete():
		return StateCompleted
	case e.cursor == 0:
		return StateNotStarted
	default:
		return StateRunning
	}
}

// Cursor returns the index of the next edge to consider.
func (e *Engine[V]) Cursor() int { return e.cursor }

// Len returns the number of edges in the sorted sequence.
func (e *Engine[V]) Len() int { return len(e.edges) }

// Edges returns a copy of the sorted edge sequence.
func (e *Engine[V]) Edges() []Edge[V] { return slices.Clone(e.edges) }

// Decisions returns a copy of every decision since construction or the last reset.
func (e *Engine[V]) Decisions() []Decision[V] { return slices.Clone(e.decisions) }

// Status returns the outcome of the i-th edge of the sorted sequence.
// Out-of-range indices report StatusPending.
func (e *Engine[V]) Status(i int) Status {
	if i < 0 || i >= len(e.status) {
		return StatusPending
	}
	return e.status[i]
}

// Stats returns decision counts since construction or the last reset.
func (e *Engine[V]) Stats() Stats {
	return Stats{
		Considered: e.cursor,
		Accepted:   len(e.forest),
		Rejected:   e.cursor - len(e.forest),
		Total:      len(e.edges),
	}
}

// Graph returns a copy of the graph the engine was built from.
func (e *Engine[V]) Graph() Graph[V] {
	return Graph[V]{Vertices: slices.Clone(e.graph.Vertices), Edges: slices.Clone(e.graph.Edges)}
}

// Components returns the current union-find partition, members sorted.
func (e *Engine[V]) Components() [][]V { return e.sets.Components() }

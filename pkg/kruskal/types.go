package kruskal

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/matzehuels/kruskal/pkg/dsu"
)

var (
	// ErrEmptyGraph is returned by [New] when the graph has no vertices.
	// An engine over zero vertices is invalid rather than trivially complete.
	ErrEmptyGraph = errors.New("graph has no vertices")

	// ErrUnknownVertex is returned by [New] when an edge references a vertex
	// that is not in the graph's vertex set.
	ErrUnknownVertex = dsu.ErrUnknownVertex

	// ErrDuplicateVertex is returned by [New] when the vertex set lists the
	// same vertex twice.
	ErrDuplicateVertex = dsu.ErrDuplicateVertex

	// ErrInvalidEdge is returned by [New] for self-loops, for a second edge
	// between the same unordered pair, and for NaN or infinite weights.
	ErrInvalidEdge = errors.New("invalid edge")
)

// Edge is an undirected weighted edge. From and To are interchangeable; the
// engine keeps them in the order the caller supplied.
type Edge[V cmp.Ordered] struct {
	From   V       `json:"from"`
	To     V       `json:"to"`
	Weight float64 `json:"weight"`
}

// Endpoints returns the endpoints ordered smallest first.
func (e Edge[V]) Endpoints() (V, V) {
	if cmp.Less(e.To, e.From) {
		return e.To, e.From
	}
	return e.From, e.To
}

// String formats the edge as "from-to (weight)".
func (e Edge[V]) String() string {
	return fmt.Sprintf("%v-%v (%g)", e.From, e.To, e.Weight)
}

// compareEdges orders edges by weight, then smaller endpoint, then larger endpoint.
func compareEdges[V cmp.Ordered](a, b Edge[V]) int {
	if c := cmp.Compare(a.Weight, b.Weight); c != 0 {
		return c
	}
	alo, ahi := a.Endpoints()
	blo, bhi := b.Endpoints()
	if c := cmp.Compare(alo, blo); c != 0 {
		return c
	}
	return cmp.Compare(ahi, bhi)
}

// Graph is the input to an [Engine]: a vertex set and undirected weighted
// edges over it. The graph may be disconnected.
type Graph[V cmp.Ordered] struct {
	Vertices []V       `json:"vertices"`
	Edges    []Edge[V] `json:"edges"`
}

// Decision records the outcome of considering one edge.
type Decision[V cmp.Ordered] struct {
	Edge        Edge[V] `json:"edge"`
	Index       int     `json:"index"`    // Position in the sorted edge sequence
	Accepted    bool    `json:"accepted"` // False means the edge would have closed a cycle
	TotalWeight float64 `json:"total_weight"`
}

// Forest is a read-only snapshot of the edges accepted so far.
type Forest[V cmp.Ordered] struct {
	Edges       []Edge[V] `json:"edges"`
	TotalWeight float64   `json:"total_weight"`
	// Components is the number of union-find components at the current
	// cursor, not the component count of the input graph.
	Components int `json:"components"`
}

// IsTree reports whether the forest currently spans a single component.
func (f Forest[V]) IsTree() bool { return f.Components == 1 }

// State is the lifecycle phase of an [Engine].
type State int

const (
	// StateNotStarted means no edge has been considered since construction or the last reset.
	StateNotStarted State = iota
	// StateRunning means at least one edge has been considered and more remain.
	StateRunning
	// StateCompleted means every edge has been considered.
	StateCompleted
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is the outcome of a single edge in the sorted sequence.
type Status int

const (
	// StatusPending marks an edge that has not been considered yet.
	StatusPending Status = iota
	// StatusAccepted marks an edge added to the forest.
	StatusAccepted
	// StatusRejected marks an edge skipped because it would close a cycle.
	StatusRejected
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Stats counts decisions made since construction or the last reset.
type Stats struct {
	Considered int `json:"considered"`
	Accepted   int `json:"accepted"`
	Rejected   int `json:"rejected"`
	Total      int `json:"total"` // Number of edges in the sorted sequence
}

// RejectRate returns the fraction of considered edges that were rejected,
// or 0 when nothing has been considered.
func (s Stats) RejectRate() float64 {
	if s.Considered == 0 {
		return 0
	}
	return float64(s.Rejected) / float64(s.Considered)
}

// Progress returns the fraction of edges considered. A graph without edges
// is always fully progressed.
func (s Stats) Progress() float64 {
	if s.Total == 0 {
		return 1
	}
	return float64(s.Considered) / float64(s.Total)
}

// Package history persists completed run traces so they can be listed,
// reviewed and deleted later from the CLI.
//
// Every saved trace gets a random UUID. Traces are immutable once saved:
// saving the same graph twice produces two entries.
//
// # Usage
//
//	store, err := history.NewFileStore("")  // ~/.config/kruskal/history/
//	id, err := store.Save(ctx, trace)
//	entries, err := store.List(ctx)
//	trace, err := store.Get(ctx, id)
package history

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/kruskal/pkg/graph"
)

// ErrNotFound is returned when no trace has the requested ID.
var ErrNotFound = errors.New("trace not found")

// Entry summarizes a saved trace for listings.
type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	Vertices   int       `json:"vertices"`
	Edges      int       `json:"edges"`
	Weight     float64   `json:"weight"`
	Components int       `json:"components"`
}

// EntryOf builds the listing summary of t.
func EntryOf(t *graph.Trace) Entry {
	return Entry{
		ID:         t.ID,
		Name:       t.Name,
		CreatedAt:  t.CreatedAt,
		Vertices:   t.Graph.VertexCount(),
		Edges:      t.Graph.EdgeCount(),
		Weight:     t.Forest.TotalWeight,
		Components: t.Forest.Components,
	}
}

// Store is the interface for trace storage backends.
type Store interface {
	// Save assigns a new ID and creation time to t, stores it and returns the ID.
	Save(ctx context.Context, t *graph.Trace) (string, error)

	// Get returns the trace with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*graph.Trace, error)

	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes a trace. Deleting an unknown ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

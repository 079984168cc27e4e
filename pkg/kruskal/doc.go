// Package kruskal implements an incremental, inspectable Kruskal engine for
// minimum spanning forests.
//
// An [Engine] is built once from a [Graph]: construction validates the input,
// sorts the edges a single time and creates a fresh union-find over the
// vertex set. From then on the engine advances one decision at a time:
//
//	e, err := kruskal.New(g)
//	if err != nil {
//	    return err // ErrEmptyGraph, ErrUnknownVertex, ErrInvalidEdge, ErrDuplicateVertex
//	}
//	for {
//	    d, ok := e.Step()
//	    if !ok {
//	        break // every edge has been considered
//	    }
//	    fmt.Println(d.Edge, d.Accepted, d.TotalWeight)
//	}
//
// [Engine.Run] steps to completion in one call, [Engine.Reset] rewinds to the
// initial state without re-sorting, and [Engine.Forest] returns a read-only
// snapshot of the accepted edges, total weight and current component count.
//
// # Edge Order
//
// Edges are processed by ascending weight. Ties are broken by the smaller
// endpoint, then by the larger endpoint, so two engines built from the same
// graph always emit identical decision sequences.
//
// # Lifecycle
//
//	NotStarted --Step--> Running --last Step--> Completed
//	     ^                  |                       |
//	     +------Reset-------+-----------Reset-------+
//
// Pausing is simply not calling Step. The engine holds no timers, goroutines
// or clocks and never fails after construction.
//
// # Comparison
//
// [Dual] advances two independent engines in lockstep for side-by-side
// comparison. A finished engine keeps returning no decision while the other
// one catches up.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Separate engines share no state,
// so each may be driven from its own goroutine.
package kruskal

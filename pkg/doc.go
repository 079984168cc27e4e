// Package pkg provides the libraries behind the kruskal command, a stepwise
// minimum spanning tree explorer.
//
// # Overview
//
// Kruskal's algorithm sorts every edge by weight once and then considers
// them in order, accepting an edge when it joins two separate trees and
// rejecting it when it would close a cycle. The engine here exposes that
// loop one decision at a time so that a run can be paused, narrated,
// replayed and compared against a second graph in lockstep.
//
// The pkg directory is organized into three areas:
//
//  1. Algorithm - [dsu] and [kruskal]
//  2. Data - [graph], [catalog] and [render/dot]
//  3. Infrastructure - [pipeline], [cache], [history], [httputil],
//     [observability], [server], [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	JSON/TOML file, URL or catalog name
//	         ↓
//	    [pipeline] package (validate, load, cache lookup)
//	         ↓
//	    [graph] package (wire format → kruskal.Graph)
//	         ↓
//	    [kruskal] package (sorted edges + union-find, step by step)
//	         ↓
//	    Trace (decisions, forest, stats) → terminal, history, JSON, DOT/SVG
//
// # Quick Start
//
// Step through a small graph:
//
//	e, err := kruskal.New(kruskal.Graph[string]{
//	    Vertices: []string{"A", "B", "C"},
//	    Edges: []kruskal.Edge[string]{
//	        {From: "A", To: "B", Weight: 1},
//	        {From: "B", To: "C", Weight: 2},
//	        {From: "A", To: "C", Weight: 4},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	for {
//	    d, ok := e.Step()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(d.Edge, d.Accepted)
//	}
//	fmt.Println(e.Forest().TotalWeight) // 3
//
// Compare two catalog graphs side by side:
//
//	cat, _ := catalog.GetCategory("connectivity")
//	a, b, _ := cat.Pair()
//	ea, _ := pipeline.Build(a)
//	eb, _ := pipeline.Build(b)
//	d := kruskal.NewDual(ea, eb)
//	d.RunBoth()
//	fmt.Println(d.Summary().A.Components, d.Summary().B.Components)
//
// # Main Packages
//
// ## Algorithm
//
//   - [dsu]: Generic disjoint-set union with path compression and union
//     by rank.
//   - [kruskal]: The stepwise engine ([kruskal.Engine]) and the lockstep
//     pair ([kruskal.Dual]).
//
// ## Data
//
//   - [graph]: Graph files (JSON and TOML) and run traces.
//   - [catalog]: Built-in example graphs and the comparison categories
//     that pair them.
//   - [render/dot]: DOT and SVG rendering of an engine snapshot.
//
// ## Infrastructure
//
//   - [pipeline]: Input validation, loading and cached batch execution.
//   - [cache]: Content-addressed trace cache on disk.
//   - [history]: Saved runs.
//   - [httputil]: Graph downloads with retry.
//   - [observability]: Hooks for pipeline and server events.
//   - [server]: HTTP API with stepping sessions.
//   - [errors]: Error codes shared by the CLI and the API.
//   - [buildinfo]: Version information set at link time.
//
// # Command Line
//
// The kruskal command (cmd/kruskal) wraps these packages:
//
//	kruskal run --catalog classic
//	kruskal step roads.toml
//	kruskal compare --category density
//	kruskal export --catalog grid --format svg -o grid.svg
//	kruskal serve
package pkg

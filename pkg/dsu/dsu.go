// Package dsu implements a disjoint-set (union-find) structure over an
// arbitrary ordered vertex type.
//
// A [DisjointSet] partitions a fixed vertex universe into disjoint trees.
// Every vertex starts as its own singleton component. [DisjointSet.Union]
// merges two components and [DisjointSet.Find] returns the root that
// represents a vertex's component.
//
// # Optimizations
//
// Find performs full path compression: every node visited on the way to the
// root is re-pointed directly at the root. Union attaches the root of lower
// rank under the root of higher rank; on a tie the second root goes under the
// first and the first root's rank grows by one. Together these give amortized
// O(α(n)) operations.
//
// # Storage
//
// Vertices are mapped to dense indices at construction time and the parent
// and rank tables are plain slices. The index-level API ([DisjointSet.Index],
// [DisjointSet.FindIndex], [DisjointSet.UnionIndex]) lets callers that have
// already validated their vertices operate without error returns.
//
// There is no removal operation: the structure only ever merges.
//
// A DisjointSet is not safe for concurrent use.
package dsu

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateVertex is returned by [New] when the vertex list contains
	// the same vertex twice.
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrUnknownVertex is returned by [DisjointSet.Find] and
	// [DisjointSet.Union] when a vertex was not part of the universe given to [New].
	ErrUnknownVertex = errors.New("unknown vertex")
)

// DisjointSet is a union-find structure over vertices of type V.
//
// The zero value is not usable - use [New].
type DisjointSet[V cmp.Ordered] struct {
	vertices []V
	index    map[V]int
	parent   []int
	rank     []int
}

// New creates a DisjointSet in which every vertex is its own component.
// Returns ErrDuplicateVertex if a vertex appears more than once.
func New[V cmp.Ordered](vertices []V) (*DisjointSet[V], error) {
	d := &DisjointSet[V]{
		vertices: slices.Clone(vertices),
		index:    make(map[V]int, len(vertices)),
		parent:   make([]int, len(vertices)),
		rank:     make([]int, len(vertices)),
	}
	for i, v := range vertices {
		if _, exists := d.index[v]; exists {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateVertex, v)
		}
		d.index[v] = i
		d.parent[i] = i
	}
	return d, nil
}

// Len returns the size of the vertex universe.
func (d *DisjointSet[V]) Len() int { return len(d.vertices) }

// Index returns the dense index of v and true, or -1 and false if v is unknown.
func (d *DisjointSet[V]) Index(v V) (int, bool) {
	i, ok := d.index[v]
	if !ok {
		return -1, false
	}
	return i, true
}

// Vertex returns the vertex stored at index i.
func (d *DisjointSet[V]) Vertex(i int) V { return d.vertices[i] }

// Find returns the root of v's component, compressing the path it walked.
func (d *DisjointSet[V]) Find(v V) (V, error) {
	i, ok := d.index[v]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrUnknownVertex, v)
	}
	return d.vertices[d.FindIndex(i)], nil
}

// FindIndex is the index-level form of [DisjointSet.Find].
// i must be a valid index; it panics otherwise.
func (d *DisjointSet[V]) FindIndex(i int) int {
	root := i
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[i] != root {
		next := d.parent[i]
		d.parent[i] = root
		i = next
	}
	return root
}

// Union merges the components of a and b. It reports true if they were in
// different components and false if they were already joined.
func (d *DisjointSet[V]) Union(a, b V) (bool, error) {
	i, ok := d.index[a]
	if !ok {
		return false, fmt.Errorf("%w: %v", ErrUnknownVertex, a)
	}
	j, ok := d.index[b]
	if !ok {
		return false, fmt.Errorf("%w: %v", ErrUnknownVertex, b)
	}
	return d.UnionIndex(i, j), nil
}

// UnionIndex is the index-level form of [DisjointSet.Union].
func (d *DisjointSet[V]) UnionIndex(i, j int) bool {
	ri, rj := d.FindIndex(i), d.FindIndex(j)
	if ri == rj {
		return false
	}
	switch {
	case d.rank[ri] < d.rank[rj]:
		d.parent[ri] = rj
	case d.rank[ri] > d.rank[rj]:
		d.parent[rj] = ri
	default:
		d.parent[rj] = ri
		d.rank[ri]++
	}
	return true
}

// Connected reports whether a and b are in the same component.
// Unknown vertices are never connected to anything.
func (d *DisjointSet[V]) Connected(a, b V) bool {
	i, ok := d.index[a]
	if !ok {
		return false
	}
	j, ok := d.index[b]
	if !ok {
		return false
	}
	return d.FindIndex(i) == d.FindIndex(j)
}

// ComponentCount returns the number of roots. It is recomputed on every
// call so it can be queried at any point of a union sequence.
func (d *DisjointSet[V]) ComponentCount() int {
	n := 0
	for i, p := range d.parent {
		if i == p {
			n++
		}
	}
	return n
}

// Rank returns the rank recorded for v's slot, or -1 if v is unknown.
// Ranks are only meaningful for roots.
func (d *DisjointSet[V]) Rank(v V) int {
	i, ok := d.index[v]
	if !ok {
		return -1
	}
	return d.rank[i]
}

// Components returns the current partition. Members of each component are
// sorted and components are ordered by their smallest member.
func (d *DisjointSet[V]) Components() [][]V {
	groups := make(map[int][]V)
	for i, v := range d.vertices {
		root := d.FindIndex(i)
		groups[root] = append(groups[root], v)
	}
	out := make([][]V, 0, len(groups))
	for _, members := range groups {
		slices.Sort(members)
		out = append(out, members)
	}
	slices.SortFunc(out, func(a, b []V) int { return cmp.Compare(a[0], b[0]) })
	return out
}

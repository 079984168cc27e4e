package kruskal

import "cmp"

// Dual advances two independent engines together for comparison.
// The engines never share union-find or edge-sequence state.
type Dual[V cmp.Ordered] struct {
	a, b *Engine[V]
}

// NewDual pairs two engines. They may be built from different graphs.
func NewDual[V cmp.Ordered](a, b *Engine[V]) *Dual[V] {
	return &Dual[V]{a: a, b: b}
}

// DualStep holds the outcome of one [Dual.StepBoth] call. OKA or OKB is
// false when that engine was already complete.
type DualStep[V cmp.Ordered] struct {
	A   Decision[V]
	OKA bool
	B   Decision[V]
	OKB bool
}

// Side is one engine's part of a [Summary].
type Side struct {
	Edges      int     `json:"edges"`
	Weight     float64 `json:"weight"`
	Components int     `json:"components"`
	Stats      Stats   `json:"stats"`
}

// Summary is a comparative snapshot of both engines.
type Summary struct {
	A Side `json:"a"`
	B Side `json:"b"`
}

// A returns the first engine.
func (d *Dual[V]) A() *Engine[V] { return d.a }

// B returns the second engine.
func (d *Dual[V]) B() *Engine[V] { return d.b }

// StepBoth steps A, then B. A completed engine is still stepped; its step is
// a no-op, so neither engine is ever held back by the other.
func (d *Dual[V]) StepBoth() DualStep[V] {
	var s DualStep[V]
	s.A, s.OKA = d.a.Step()
	s.B, s.OKB = d.b.Step()
	return s
}

// RunBoth steps both engines until both are complete and returns every
// lockstep round.
func (d *Dual[V]) RunBoth() []DualStep[V] {
	var out []DualStep[V]
	for !d.BothComplete() {
		out = append(out, d.StepBoth())
	}
	return out
}

// ResetBoth resets both engines.
func (d *Dual[V]) ResetBoth() {
	d.a.Reset()
	d.b.Reset()
}

// BothComplete reports whether both engines have considered every edge.
func (d *Dual[V]) BothComplete() bool {
	return d.a.Complete() && d.b.Complete()
}

// Summary returns forest statistics of both engines.
func (d *Dual[V]) Summary() Summary {
	return Summary{A: sideOf(d.a), B: sideOf(d.b)}
}

func sideOf[V cmp.Ordered](e *Engine[V]) Side {
	f := e.Forest()
	return Side{
		Edges:      len(f.Edges),
		Weight:     f.TotalWeight,
		Components: f.Components,
		Stats:      e.Stats(),
	}
}

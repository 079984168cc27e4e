package kruskal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

func triangle() kruskal.Graph[int] {
	return kruskal.Graph[int]{
		Vertices: []int{0, 1, 2},
		Edges: []kruskal.Edge[int]{
			{From: 0, To: 1, Weight: 1},
			{From: 1, To: 2, Weight: 2},
			{From: 0, To: 2, Weight: 3},
		},
	}
}

func TestDual_StepBothUnevenLengths(t *testing.T) {
	a, err := kruskal.New(triangle())
	require.NoError(t, err)
	b, err := kruskal.New(scenarioGraph())
	require.NoError(t, err)
	d := kruskal.NewDual(a, b)

	for round := 0; round < 3; round++ {
		s := d.StepBoth()
		assert.True(t, s.OKA)
		assert.True(t, s.OKB)
		assert.Equal(t, round, s.A.Index)
		assert.Equal(t, round, s.B.Index)
	}
	assert.True(t, a.Complete())
	assert.False(t, d.BothComplete())

	// A is finished; B keeps advancing on its own.
	for round := 3; round < 6; round++ {
		s := d.StepBoth()
		assert.False(t, s.OKA)
		assert.True(t, s.OKB)
		assert.Equal(t, round, s.B.Index)
	}
	assert.True(t, d.BothComplete())

	s := d.StepBoth()
	assert.False(t, s.OKA)
	assert.False(t, s.OKB)
}

func TestDual_Summary(t *testing.T) {
	a, err := kruskal.New(triangle())
	require.NoError(t, err)
	b, err := kruskal.New(scenarioGraph())
	require.NoError(t, err)
	d := kruskal.NewDual(a, b)

	rounds := d.RunBoth()
	assert.Len(t, rounds, 6)
	require.True(t, d.BothComplete())

	sum := d.Summary()
	assert.Equal(t, 2, sum.A.Edges)
	assert.Equal(t, 3.0, sum.A.Weight)
	assert.Equal(t, 1, sum.A.Components)
	assert.Equal(t, 4, sum.B.Edges)
	assert.Equal(t, 12.0, sum.B.Weight)
	assert.Equal(t, 1, sum.B.Components)
	assert.Equal(t, 2, sum.B.Stats.Rejected)
}

func TestDual_Independent(t *testing.T) {
	// Same graph on both sides: results must match but state is never shared.
	a, err := kruskal.New(scenarioGraph())
	require.NoError(t, err)
	b, err := kruskal.New(scenarioGraph())
	require.NoError(t, err)
	d := kruskal.NewDual(a, b)

	d.A().Step()
	assert.Equal(t, 1, a.Cursor())
	assert.Equal(t, 0, b.Cursor())

	d.RunBoth()
	assert.Equal(t, a.Decisions(), b.Decisions())

	d.ResetBoth()
	assert.Equal(t, 0, a.Cursor())
	assert.Equal(t, 0, b.Cursor())
	assert.False(t, d.BothComplete())
}

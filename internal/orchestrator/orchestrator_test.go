package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regwindow/scheduler/internal/dag"
	"github.com/regwindow/scheduler/pkg/schederr"
)

func buildChain(t *testing.T, n int, lastOffset int) *dag.Graph {
	t.Helper()
	g := dag.NewGraph()
	for i := 0; i < n; i++ {
		var offsets []int
		switch {
		case i == 0:
			offsets = nil
		case i == n-1 && lastOffset > 0:
			offsets = []int{lastOffset}
		default:
			offsets = []int{1}
		}
		_, err := g.AppendNode("op", offsets)
		require.NoError(t, err)
	}
	return g
}

// buildForcedChain builds a 10-node graph where node0..node8 form a strict
// def-use chain and node9 reads both node0 (directly, a 9-position gap) and
// node8 (its immediate predecessor). Because node9's read of node8 forces
// it after the entire chain, no permutation can bring it within DMax=7 of
// node0: reordering alone can never satisfy the strict validator here,
// only redirecting node9's far read through an inserted copy can.
func buildForcedChain(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.NewGraph()
	for i := 0; i < 9; i++ {
		var offsets []int
		if i > 0 {
			offsets = []int{1}
		}
		_, err := g.AppendNode("op", offsets)
		require.NoError(t, err)
	}
	_, err := g.AppendNode("op9", []int{9, 1})
	require.NoError(t, err)
	return g
}

func TestRun_NoReorderNeeded(t *testing.T) {
	g := buildChain(t, 5, 0)

	o := New(Options{DMax: 7, MaxIters: 2}, nil)
	res, err := o.Run(context.Background(), g)

	require.NoError(t, err)
	assert.True(t, res.NoReorderNeeded)
	assert.True(t, dag.Satisfies(res.Graph, true, 7))
}

func TestRun_ReorderOnlyFixesIt(t *testing.T) {
	// node9 reads node0 across eight independent nodes (a gap of 9), but
	// nodes 1..8 are unconstrained, so the search can place node9 within
	// DMax=7 of node0 without inserting any copies.
	g := dag.NewGraph()
	_, err := g.AppendNode("op0", nil)
	require.NoError(t, err)
	for i := 1; i < 9; i++ {
		_, err := g.AppendNode("op", nil)
		require.NoError(t, err)
	}
	_, err = g.AppendNode("op9", []int{9})
	require.NoError(t, err)

	o := New(Options{DMax: 7, MaxIters: 2}, nil)
	res, err := o.Run(context.Background(), g)

	require.NoError(t, err)
	assert.True(t, res.ReorderOnlyFixed)
	assert.True(t, dag.Satisfies(res.Graph, true, 7))
}

func TestRun_InsertionRequired(t *testing.T) {
	g := buildForcedChain(t)

	o := New(Options{DMax: 7, MaxIters: 2}, nil)
	res, err := o.Run(context.Background(), g)

	require.NoError(t, err)
	assert.True(t, res.InsertionRequired)
	assert.Greater(t, res.CopiesInserted, 0)
	assert.True(t, dag.Satisfies(res.Graph, true, 7))
}

func TestRun_InsertionOverflowReportsBestLooseResult(t *testing.T) {
	g := buildForcedChain(t)

	o := New(Options{DMax: 7, MaxIters: 0}, nil)
	res, err := o.Run(context.Background(), g)

	require.Error(t, err)
	assert.True(t, schederr.IsInsertionOverflow(err))
	require.NotNil(t, res)
	assert.False(t, res.Strict)
	assert.True(t, dag.Satisfies(res.Graph, false, 7))
}

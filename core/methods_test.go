// SPDX-License-Identifier: MIT
// Package core_test verifies core.Graph method-level contracts.
//
// Purpose:
//   - Lock in deterministic behaviors for vertex/edge lifecycle and query APIs.
//   - Validate constraint enforcement (loops, multi-edges).

package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuz43/hypergraph-cli/core"
)

func TestGraph_AddVertex(t *testing.T) {
	g := core.NewGraph()

	require.ErrorIs(t, g.AddVertex(""), core.ErrEmptyVertexID)
	require.NoError(t, g.AddVertex("cat"))
	assert.True(t, g.HasVertex("cat"))
	assert.False(t, g.HasVertex(""))

	// Duplicate AddVertex is a no-op.
	require.NoError(t, g.AddVertex("cat"))
	assert.Equal(t, 1, g.VertexCount())
}

func TestGraph_AddEdge_SimpleUndirected(t *testing.T) {
	g := core.NewGraph()

	eid, err := g.AddEdge("sat", "cat")
	require.NoError(t, err)
	assert.Equal(t, "e1", eid)

	// Undirected mirror.
	assert.True(t, g.HasEdge("sat", "cat"))
	assert.True(t, g.HasEdge("cat", "sat"))

	// Same pair in either orientation collapses to ErrMultiEdgeNotAllowed.
	_, err = g.AddEdge("sat", "cat")
	require.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)
	_, err = g.AddEdge("cat", "sat")
	require.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)

	// Self-loops are rejected.
	_, err = g.AddEdge("cat", "cat")
	require.ErrorIs(t, err, core.ErrLoopNotAllowed)

	_, err = g.AddEdge("", "cat")
	require.ErrorIs(t, err, core.ErrEmptyVertexID)

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.VertexCount())
}

func TestGraph_NeighborIDs_SortedAndErrors(t *testing.T) {
	g := core.NewGraph()
	for _, to := range []string{"mat", "cat", "on"} {
		_, err := g.AddEdge("sat", to)
		require.NoError(t, err)
	}

	nbrs, err := g.NeighborIDs("sat")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "mat", "on"}, nbrs)

	deg, err := g.Degree("cat")
	require.NoError(t, err)
	assert.Equal(t, 1, deg)

	_, err = g.NeighborIDs("missing")
	require.ErrorIs(t, err, core.ErrVertexNotFound)
	_, err = g.NeighborIDs("")
	require.ErrorIs(t, err, core.ErrEmptyVertexID)
}

func TestGraph_Degree(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddVertex("mat"))
	_, err := g.AddEdge("sat", "cat")
	require.NoError(t, err)
	_, err = g.AddEdge("sat", "on")
	require.NoError(t, err)

	for id, want := range map[string]int{"sat": 2, "cat": 1, "on": 1, "mat": 0} {
		deg, err := g.Degree(id)
		require.NoError(t, err)
		assert.Equal(t, want, deg, id)
	}

	_, err = g.Degree("")
	require.ErrorIs(t, err, core.ErrEmptyVertexID)
	_, err = g.Degree("missing")
	require.ErrorIs(t, err, core.ErrVertexNotFound)
}

func TestGraph_EdgesOrderAndStats(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddVertex("lonely"))
	for i := 0; i < 11; i++ {
		_, err := g.AddEdge("hub", string(rune('a'+i)))
		require.NoError(t, err)
	}

	edges := g.Edges()
	require.Len(t, edges, 11)
	assert.Equal(t, "e1", edges[0].ID)
	assert.Equal(t, "e2", edges[1].ID)
	assert.Equal(t, "e11", edges[10].ID)

	st := g.Stats()
	assert.Equal(t, 13, st.VertexCount)
	assert.Equal(t, 11, st.EdgeCount)
	assert.Equal(t, 1, st.IsolatedCount)

	assert.Equal(t, []string{"a", "b"}, g.Vertices()[:2])
}

func TestGraph_ConcurrentAddEdge(t *testing.T) {
	g := core.NewGraph()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = g.AddEdge("root", string(rune('a'+i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, g.EdgeCount())
	nbrs, err := g.NeighborIDs("root")
	require.NoError(t, err)
	assert.Len(t, nbrs, 8)
}

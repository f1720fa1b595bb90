// SPDX-License-Identifier: MIT

package bfs_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuz43/hypergraph-cli/bfs"
	"github.com/soyuz43/hypergraph-cli/core"
)

// conceptGraph builds the undirected graph
//
//	cat - sit - mat     dog - bark     tree
func conceptGraph(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for _, e := range [][2]string{{"sit", "cat"}, {"sit", "mat"}, {"bark", "dog"}} {
		_, err := g.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}
	require.NoError(t, g.AddVertex("tree"))

	return g
}

func TestBFS_Errors(t *testing.T) {
	_, err := bfs.BFS(nil, "A")
	require.ErrorIs(t, err, bfs.ErrGraphNil)

	g := core.NewGraph()
	_, err = bfs.BFS(g, "missing")
	require.ErrorIs(t, err, bfs.ErrStartVertexNotFound)
}

func TestBFS_OrderAndDepth(t *testing.T) {
	g := conceptGraph(t)

	res, err := bfs.BFS(g, "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "sit", "mat"}, res.Order)
	assert.Equal(t, map[string]int{"cat": 0, "sit": 1, "mat": 2}, res.Depth)

	var visits []string
	_, err = bfs.BFS(g, "mat", bfs.WithOnVisit(func(id string, depth int) error {
		visits = append(visits, fmt.Sprintf("%s@%d", id, depth))
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"mat@0", "sit@1", "cat@2"}, visits)
}

func TestBFS_OnVisitAbort(t *testing.T) {
	g := conceptGraph(t)
	stop := errors.New("stop")

	_, err := bfs.BFS(g, "sit", bfs.WithOnVisit(func(id string, _ int) error {
		if id == "mat" {
			return stop
		}
		return nil
	}))
	require.ErrorIs(t, err, stop)
}

func TestBFS_Cancelled(t *testing.T) {
	g := conceptGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bfs.BFS(g, "cat", bfs.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

func TestComponents(t *testing.T) {
	g := conceptGraph(t)

	comps, err := bfs.Components(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"cat", "mat", "sit"},
		{"bark", "dog"},
		{"tree"},
	}, comps)

	empty, err := bfs.Components(context.Background(), core.NewGraph())
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = bfs.Components(context.Background(), nil)
	require.ErrorIs(t, err, bfs.ErrGraphNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bfs.Components(ctx, g)
	require.ErrorIs(t, err, context.Canceled)
}

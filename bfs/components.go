// SPDX-License-Identifier: MIT

package bfs

import (
	"context"
	"sort"

	"github.com/soyuz43/hypergraph-cli/core"
)

// Components partitions the vertices of g into connected components.
//
// Each component lists its vertices sorted lexicographically; components are
// ordered by size (largest first), ties broken by their first vertex. Isolated
// vertices form singleton components.
//
// Errors: ErrGraphNil, context errors, ErrNeighbors.
// Complexity: O(V + E) traversal plus O(V log V) sorting.
func Components(ctx context.Context, g *core.Graph) ([][]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}

	seen := make(map[string]bool, g.VertexCount())
	var out [][]string
	for _, id := range g.Vertices() {
		if seen[id] {
			continue
		}
		var comp []string
		collect := func(v string, _ int) error {
			seen[v] = true
			comp = append(comp, v)
			return nil
		}
		if _, err := BFS(g, id, WithContext(ctx), WithOnVisit(collect)); err != nil {
			return nil, err
		}
		sort.Strings(comp)
		out = append(out, comp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})

	return out, nil
}

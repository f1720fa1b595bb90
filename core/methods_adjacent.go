// File: methods_adjacent.go
// Role: Neighborhood queries and adjacency bookkeeping.
// Determinism:
//   - NeighborIDs() returns unique IDs sorted ascending.
// Concurrency:
//   - Reads under muVert / muEdgeAdj read locks; helpers assume the caller holds muEdgeAdj.

package core

import "sort"

// NeighborIDs returns the unique IDs adjacent to id, sorted ascending.
//
// Implementation:
//   - Stage 1: Validate the vertex exists.
//   - Stage 2: Under muEdgeAdj read lock, collect the adjacency keys of id.
//   - Stage 3: Sort for deterministic output.
//
// Errors:
//   - ErrEmptyVertexID, ErrVertexNotFound.
//
// Complexity:
//   - Time O(d log d), Space O(d).
//
// AI-Hints:
//   - Diffusion relies on the sorted order to accumulate neighbor means deterministically.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	ids := make([]string, 0, len(g.adjacencyList[id]))
	for to := range g.adjacencyList[id] {
		ids = append(ids, to)
	}
	g.muEdgeAdj.RUnlock()

	sort.Strings(ids)

	return ids, nil
}

// ensureAdjacency creates the adjacency map of id. Caller must hold muEdgeAdj.
func ensureAdjacency(g *Graph, id string) {
	if _, ok := g.adjacencyList[id]; !ok {
		g.adjacencyList[id] = make(map[string]string)
	}
}

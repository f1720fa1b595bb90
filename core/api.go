// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: Thin, deterministic public facade exposing Stats().
// Policy:
//   - No algorithms or hidden state here.
//   - Concurrency model and invariants are defined in types.go/doc.go.

package core

// GraphStats is a read-only snapshot of catalog sizes.
type GraphStats struct {
	VertexCount   int // |V|
	EdgeCount     int // |E|
	IsolatedCount int // vertices with no incident edge
}

// Stats produces a deterministic snapshot of counts.
//
// Implementation:
//   - Stage 1: Acquire muVert.RLock, snapshot vertex IDs, then release.
//   - Stage 2: Acquire muEdgeAdj.RLock, count edges and isolated vertices, then release.
//
// Behavior highlights:
//   - Avoids holding both locks simultaneously.
//
// Complexity:
//   - Time O(V+E), Space O(V).
//
// AI-Hints:
//   - IsolatedCount tells callers how many concepts will be skipped by coherence averaging.
func (g *Graph) Stats() *GraphStats {
	g.muVert.RLock()
	stats := GraphStats{VertexCount: len(g.vertices)}
	ids := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	stats.EdgeCount = len(g.edges)
	for _, id := range ids {
		if len(g.adjacencyList[id]) == 0 {
			stats.IsolatedCount++
		}
	}
	g.muEdgeAdj.RUnlock()

	return &stats
}

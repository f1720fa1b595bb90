// Package core provides a small, thread-safe in-memory Graph used to hold
// the concept graph of a proposition.
//
// The Graph G = (V,E) is string-keyed and unweighted:
//
//   - Undirected: every edge is mirrored in the adjacency
//   - Simple: no self-loops, no parallel edges
//   - Edge IDs are generated atomically ("e1", "e2", …)
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj)
//
// Deterministic iteration: Vertices(), Edges() and NeighborIDs() return
// sorted results, so every algorithm layered on top (bfs, diffusion,
// stability scoring) produces identical output for identical input.
//
// Core Methods:
//
//	AddVertex(id string) error                       // O(1)
//	HasVertex(id string) bool                        // O(1)
//	AddEdge(from, to string) (edgeID string, err error) // O(1) amortized
//	HasEdge(from, to string) bool                    // O(1)
//	NeighborIDs(id string) ([]string, error)         // O(d·log d), unique, sorted
//	Degree(id string) (int, error)                   // O(1)
//	Vertices() []string                              // O(V·log V)
//	Edges() []*Edge                                  // O(E·log E)
//	VertexCount(), EdgeCount() int                   // O(1)
//	Stats() *GraphStats                              // O(V+E)
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrLoopNotAllowed      – self-loop
//	ErrMultiEdgeNotAllowed – second edge between the same pair
package core

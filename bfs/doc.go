// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a core.Graph, returning
// unweighted distances and visit order, plus connected components built on
// top of it.
//
// What
//
//   - BFS explores vertices in non-decreasing distance from a start vertex and
//     returns a Result{Order, Depth}. An OnVisit hook sees every vertex as it
//     is dequeued.
//   - Components groups every vertex of the graph, isolated ones included,
//     into its connected component.
//
// Determinism
//
//	core.Graph.NeighborIDs returns neighbors sorted by ID and BFS enqueues them
//	in that order, so the visit sequence is fully reproducible.
//
// Complexity (V = |Vertices|, E = |Edges|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Usage
//
//	res, err := bfs.BFS(g, "cat", bfs.WithOnVisit(visit))
//	comps, err := bfs.Components(ctx, g)
//
// Errors
//
//   - ErrGraphNil             if the graph pointer is nil.
//   - ErrStartVertexNotFound  if the start vertex does not exist.
//   - ErrNeighbors            if neighbor lookup fails for any vertex.
//   - Wrapped OnVisit errors and context cancellation errors.
package bfs

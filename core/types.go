// SPDX-License-Identifier: MIT

// Package core defines the central Graph, Vertex, and Edge types.
//
// This file declares Vertex, Edge, Graph, sentinel errors, and the NewGraph
// constructor.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided vertex ID is empty.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a second edge between the same two vertices.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// Vertex represents a node in the graph.
// ID uniquely identifies this Vertex within its Graph.
type Vertex struct {
	ID string
}

// Edge represents an undirected connection between two vertices.
//
// From/To are stored in insertion order; the edge is mirrored in the
// adjacency so both endpoints see each other as neighbors.
type Edge struct {
	// ID uniquely identifies this edge in the Graph ("e1", "e2", …).
	ID string

	// From is the first endpoint as passed to AddEdge.
	From string

	// To is the second endpoint.
	To string
}

// Graph is the core in-memory graph data structure: undirected and simple
// (no self-loops, no parallel edges).
//
// muVert protects the vertices map; muEdgeAdj protects the edges map and
// adjacencyList. Lock order is always muVert -> muEdgeAdj.
type Graph struct {
	muVert    sync.RWMutex // guards vertices
	muEdgeAdj sync.RWMutex // guards edges and adjacency

	// Storage
	nextEdgeID uint64             // atomic edge ID generator
	vertices   map[string]*Vertex // vertex ID → Vertex
	edges      map[string]*Edge   // edge ID → Edge

	// adjacencyList[from][to] = edgeID, mirrored for both endpoints
	adjacencyList map[string]map[string]string
}

// NewGraph creates an empty Graph.
// Complexity: O(1)
func NewGraph() *Graph {
	return &Graph{
		vertices:      make(map[string]*Vertex),
		edges:         make(map[string]*Edge),
		adjacencyList: make(map[string]map[string]string),
	}
}

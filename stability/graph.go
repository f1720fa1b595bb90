// SPDX-License-Identifier: MIT

package stability

import (
	"errors"
	"fmt"

	"github.com/soyuz43/hypergraph-cli/core"
	"github.com/soyuz43/hypergraph-cli/nlp"
)

// ConceptGraph is the per-proposition concept graph: the ordered concept list
// plus an undirected, loop-free, simple core.Graph over it.
type ConceptGraph struct {
	Concepts []string
	Graph    *core.Graph
}

// BuildGraph adds every distinct concept as a node, isolated ones included, and one
// undirected edge per pair. A repeated pair in either orientation is already
// present and is skipped.
//
// Errors: ErrUnknownConcept, core errors (empty IDs, self-loops).
// Complexity: O(V + P).
func BuildGraph(concepts []string, pairs []nlp.Pair) (*ConceptGraph, error) {
	g := core.NewGraph()
	known := make(map[string]bool, len(concepts))
	ordered := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if known[c] {
			continue
		}
		if err := g.AddVertex(c); err != nil {
			return nil, fmt.Errorf("stability: add concept %q: %w", c, err)
		}
		known[c] = true
		ordered = append(ordered, c)
	}

	for _, p := range pairs {
		if !known[p.Head] || !known[p.Dependent] {
			return nil, fmt.Errorf("%w: %q-%q", ErrUnknownConcept, p.Head, p.Dependent)
		}
		if _, err := g.AddEdge(p.Head, p.Dependent); err != nil {
			if errors.Is(err, core.ErrMultiEdgeNotAllowed) {
				continue
			}
			return nil, fmt.Errorf("stability: add pair %q-%q: %w", p.Head, p.Dependent, err)
		}
	}

	return &ConceptGraph{Concepts: ordered, Graph: g}, nil
}

// NodeCount is the number of distinct concepts.
func (cg *ConceptGraph) NodeCount() int { return cg.Graph.VertexCount() }

// EdgeCount is the number of distinct qualifying pairs.
func (cg *ConceptGraph) EdgeCount() int { return cg.Graph.EdgeCount() }

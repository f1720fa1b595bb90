// SPDX-License-Identifier: MIT

// Package diffusion smooths per-node vectors across a concept graph.
//
// Each round is synchronous: every node's new value is computed from the
// previous round only,
//
//	new(n) = α·old(n) + (1−α)·mean(old(m) for m in N(n))
//
// and isolated nodes keep their vector. The round count is a fixed budget,
// not a convergence test.
//
// Determinism: nodes come from core.Graph.Vertices and neighbors from
// core.Graph.NeighborIDs, both sorted, so identical inputs produce
// bit-identical outputs.
//
// Complexity: O(rounds · (V + E) · d).
package diffusion

import (
	"fmt"

	"github.com/soyuz43/hypergraph-cli/core"
	"github.com/soyuz43/hypergraph-cli/matrix"
)

// Diffuse runs the configured number of rounds over g and returns a new map.
//
// The input map and its slices are never written. Keys that are not graph
// nodes are copied through unchanged.
//
// Errors: ErrGraphNil, ErrOptionViolation, ErrMissingVector,
// ErrDimensionMismatch, context errors.
func Diffuse(g *core.Graph, vectors map[string][]float64, opts ...Option) (map[string][]float64, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	nodes := g.Vertices()
	dim := -1
	cur := make(map[string][]float64, len(vectors))
	for k, v := range vectors {
		if dim == -1 {
			dim = len(v)
		} else if len(v) != dim {
			return nil, fmt.Errorf("%w: %q has %d, want %d", ErrDimensionMismatch, k, len(v), dim)
		}
		cur[k] = append([]float64(nil), v...)
	}
	for _, n := range nodes {
		if _, ok := cur[n]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingVector, n)
		}
	}

	neighbors := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		ids, err := g.NeighborIDs(n)
		if err != nil {
			return nil, fmt.Errorf("diffusion: neighbors of %q: %w", n, err)
		}
		neighbors[n] = ids
	}

	for r := 0; r < o.Rounds; r++ {
		if err := o.Ctx.Err(); err != nil {
			return nil, err
		}
		next := make(map[string][]float64, len(cur))
		for k, v := range cur {
			next[k] = v
		}
		for _, n := range nodes {
			nbrs := neighbors[n]
			if len(nbrs) == 0 {
				continue
			}
			vs := make([][]float64, len(nbrs))
			for i, m := range nbrs {
				vs[i] = cur[m]
			}
			mean, err := matrix.MeanOf(vs)
			if err != nil {
				return nil, fmt.Errorf("diffusion: round %d node %q: %w", r, n, err)
			}
			blended, err := matrix.Blend(cur[n], mean, o.SelfWeight)
			if err != nil {
				return nil, fmt.Errorf("diffusion: round %d node %q: %w", r, n, err)
			}
			next[n] = blended
		}
		cur = next
	}

	return cur, nil
}

// SPDX-License-Identifier: MIT

package stability

import (
	"fmt"

	"github.com/soyuz43/hypergraph-cli/baseline"
	"github.com/soyuz43/hypergraph-cli/matrix"
)

// Score computes the stability metrics for cg from the (diffused) vectors.
//
// Implementation:
//   - Coherence: mean cosine over graph edges; isolated concepts do not
//     contribute. A graph without edges scores 0.
//   - Contrast: per concept, mean cosine against every baseline row; the
//     aggregate is the mean over all concepts, isolated ones included.
//   - Dispersion: per concept model.Distance; aggregate mean over concepts.
//   - Isolated and Degree come from the concept graph.
//   - A model fitted without ridge marks the report PseudoInverse.
//
// A nil model selects reduced mode: only coherence is computed and the
// report is marked Reduced.
//
// Errors: ErrNilGraph, ErrMissingVector, baseline.ErrDimensionMismatch,
// matrix.ErrDimensionMismatch.
// Complexity: O(E·d + V·n·d) for V concepts and n baseline rows.
func Score(cg *ConceptGraph, vectors map[string][]float64, model *baseline.Model) (*Report, error) {
	if cg == nil || cg.Graph == nil {
		return nil, ErrNilGraph
	}
	for _, c := range cg.Concepts {
		if _, ok := vectors[c]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingVector, c)
		}
	}

	r := &Report{
		Nodes:    cg.NodeCount(),
		Edges:    cg.EdgeCount(),
		Isolated: cg.Graph.Stats().IsolatedCount,
		Concepts: append([]string(nil), cg.Concepts...),
	}

	edges := cg.Graph.Edges()
	if len(edges) > 0 {
		var sum float64
		for _, e := range edges {
			c, err := matrix.Cosine(vectors[e.From], vectors[e.To])
			if err != nil {
				return nil, fmt.Errorf("stability: coherence %q-%q: %w", e.From, e.To, err)
			}
			sum += c
		}
		r.Coherence = sum / float64(len(edges))
	}

	if model == nil {
		r.Reduced = true
		return r, nil
	}

	r.PseudoInverse = model.Ridge() == 0

	refs := make([][]float64, model.Len())
	for i := range refs {
		row, err := model.Row(i)
		if err != nil {
			return nil, fmt.Errorf("stability: baseline row %d: %w", i, err)
		}
		refs[i] = row
	}

	var contrastSum, distSum float64
	r.Details = make([]ConceptScore, 0, len(cg.Concepts))
	for _, c := range cg.Concepts {
		vec := vectors[c]
		deg, err := cg.Graph.Degree(c)
		if err != nil {
			return nil, fmt.Errorf("stability: degree %q: %w", c, err)
		}
		dist, err := model.Distance(vec)
		if err != nil {
			return nil, fmt.Errorf("stability: mahalanobis %q: %w", c, err)
		}

		var cs float64
		for _, ref := range refs {
			cos, err := matrix.Cosine(vec, ref)
			if err != nil {
				return nil, fmt.Errorf("stability: contrast %q: %w", c, err)
			}
			cs += cos
		}
		cs /= float64(len(refs))

		r.Details = append(r.Details, ConceptScore{Concept: c, Degree: deg, Mahalanobis: dist, Contrast: cs})
		contrastSum += cs
		distSum += dist
	}

	if n := float64(len(cg.Concepts)); n > 0 {
		contrast, dispersion := contrastSum/n, distSum/n
		r.Contrast, r.Dispersion = &contrast, &dispersion
	}

	return r, nil
}

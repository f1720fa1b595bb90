// SPDX-License-Identifier: MIT

package stability

import (
	"fmt"
	"strings"
)

// ConceptScore holds one concept's scores against the baseline.
type ConceptScore struct {
	Concept     string  `json:"concept"`
	Degree      int     `json:"degree"`
	Mahalanobis float64 `json:"mahalanobis"`
	Contrast    float64 `json:"contrast_cosine"`
	Fallback    bool    `json:"fallback,omitempty"`
}

// Report is the outcome of scoring one proposition. Values keep full
// precision; String rounds to three decimals.
//
// Contrast and Dispersion are nil in reduced mode.
type Report struct {
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	Isolated   int            `json:"isolated"`
	Coherence  float64        `json:"coherence"`
	Contrast   *float64       `json:"contrast,omitempty"`
	Dispersion *float64       `json:"dispersion,omitempty"`
	Concepts   []string       `json:"concepts"`
	Details    []ConceptScore `json:"details,omitempty"`

	// Fallback lists concepts whose vector is random, in concept order.
	Fallback []string `json:"fallback_concepts,omitempty"`
	// Synthetic is set when no encoder ran and every vector is random.
	Synthetic bool `json:"synthetic_vectors,omitempty"`
	// Reduced is set when no baseline was loaded.
	Reduced bool `json:"reduced,omitempty"`
	// PseudoInverse is set when the baseline was fitted without ridge, so
	// directions outside its span add nothing to the distances.
	PseudoInverse bool `json:"pseudo_inverse,omitempty"`
	// Components are the connected components, largest first.
	Components [][]string `json:"components,omitempty"`
}

const detailHeader = "Detailed concept-level Mahalanobis and cosine similarity scores relative to baseline:"

// String renders the report in the fixed line format consumed by callers.
// Reduced and synthetic runs append an explanatory notice instead of
// printing numbers that were never computed.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Graph nodes: %d\n", r.Nodes)
	fmt.Fprintf(&b, "Graph edges: %d\n", r.Edges)
	fmt.Fprintf(&b, "Average internal coherence (cosine): %.3f\n", r.Coherence)
	fmt.Fprintf(&b, "Average contrast-to-baseline (cosine): %s\n", fmtOptional(r.Contrast))
	fmt.Fprintf(&b, "Average Mahalanobis dispersion (vs. baseline): %s\n", fmtOptional(r.Dispersion))
	fmt.Fprintf(&b, "Concepts: %s\n", quotedList(r.Concepts))

	if r.Reduced {
		b.WriteString("\nReduced mode: no baseline loaded; contrast and dispersion were not computed.\n")
	} else {
		b.WriteString("\n" + detailHeader + "\n")
		for _, d := range r.Details {
			fmt.Fprintf(&b, "  %-15s | Mahalanobis: %.3f | Contrast Cosine: %.3f\n", d.Concept, d.Mahalanobis, d.Contrast)
		}
		if r.PseudoInverse {
			b.WriteString("Pseudo-inverse baseline: components outside the baseline span are ignored by Mahalanobis.\n")
		}
	}

	switch {
	case r.Synthetic:
		b.WriteString("Synthetic vectors: no encoder configured; every concept vector is random.\n")
	case len(r.Fallback) > 0:
		fmt.Fprintf(&b, "Low-confidence concepts (random fallback vectors): %s\n", quotedList(r.Fallback))
	}

	return b.String()
}

func fmtOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}

	return fmt.Sprintf("%.3f", *v)
}

// quotedList renders items as a bracketed, quoted list: ['a', 'b'].
func quotedList(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = quoteItem(s)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// quoteItem quotes s with single quotes unless the text holds
// a single quote and no double quote.
func quoteItem(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)

	return b.String()
}

// Result is either a Report or the insufficient-structure sentinel.
type Result struct {
	Proposition  string  `json:"proposition"`
	Insufficient bool    `json:"insufficient"`
	Message      string  `json:"message,omitempty"`
	Report       *Report `json:"report,omitempty"`
}

// String returns the sentinel message or the rendered report.
func (r *Result) String() string {
	if r.Insufficient || r.Report == nil {
		return InsufficientStructureMessage
	}

	return r.Report.String()
}

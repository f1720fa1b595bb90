// SPDX-License-Identifier: MIT

package nlp

import (
	"strings"
)

// Canonical is the single normalization applied to concept text: surrounding
// whitespace removed, Unicode lower-case. Every later stage keys by its output.
func Canonical(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsConceptPOS reports whether a Universal POS tag marks a concept.
func IsConceptPOS(pos string) bool {
	switch pos {
	case PosNoun, PosVerb, PosAdj:
		return true
	default:
		return false
	}
}

// Extract selects concepts and head-dependent concept pairs from doc.
//
// Two occurrences of the same canonical text collapse to one concept, so a
// relation between them is dropped (head != dependent is checked by text).
// A Doc with fewer than two concepts always yields no pairs.
//
// Errors: ErrInvalidDoc.
// Complexity: O(n) over tokens.
func Extract(doc *Doc) (Extraction, error) {
	if err := doc.Validate(); err != nil {
		return Extraction{}, err
	}

	canon := make([]string, len(doc.Tokens))
	isConcept := make(map[string]bool)
	var out Extraction
	for i, t := range doc.Tokens {
		canon[i] = Canonical(t.Text)
		if canon[i] == "" || !IsConceptPOS(t.POS) {
			continue
		}
		if !isConcept[canon[i]] {
			isConcept[canon[i]] = true
			out.Concepts = append(out.Concepts, canon[i])
		}
	}

	seen := make(map[Pair]bool)
	for i, t := range doc.Tokens {
		head, dep := canon[t.Head], canon[i]
		if head == dep || !isConcept[head] || !isConcept[dep] {
			continue
		}
		p := Pair{Head: head, Dependent: dep}
		if seen[p] || seen[Pair{Head: dep, Dependent: head}] {
			continue
		}
		seen[p] = true
		out.Pairs = append(out.Pairs, p)
	}

	return out, nil
}

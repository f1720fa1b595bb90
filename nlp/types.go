// SPDX-License-Identifier: MIT

package nlp

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for parsing and extraction.
var (
	// ErrEmptyText is returned when the proposition is blank.
	ErrEmptyText = errors.New("nlp: empty text")

	// ErrInvalidDoc is returned when a Doc has out-of-range head indices or
	// tokens out of order.
	ErrInvalidDoc = errors.New("nlp: invalid parsed document")

	// ErrParseFailed wraps transport and decoding failures of a Parser.
	ErrParseFailed = errors.New("nlp: parse failed")
)

// Universal POS tags kept as concepts.
const (
	PosNoun = "NOUN"
	PosVerb = "VERB"
	PosAdj  = "ADJ"
)

// Token is one parsed word. Head is the index of the syntactic head within
// the same Doc; the root points at itself.
type Token struct {
	Index int    `json:"i"`
	Text  string `json:"text"`
	POS   string `json:"pos"`
	Head  int    `json:"head"`
	Dep   string `json:"dep"`
}

// Doc is an ordered sequence of tokens produced by one Parse call.
type Doc struct {
	Model  string  `json:"model"`
	Tokens []Token `json:"tokens"`
}

// Validate checks that token indices are sequential and every head is in range.
func (d *Doc) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil doc", ErrInvalidDoc)
	}
	n := len(d.Tokens)
	for i, t := range d.Tokens {
		if t.Index != i {
			return fmt.Errorf("%w: token %d has index %d", ErrInvalidDoc, i, t.Index)
		}
		if t.Head < 0 || t.Head >= n {
			return fmt.Errorf("%w: token %d head %d out of range [0,%d)", ErrInvalidDoc, i, t.Head, n)
		}
	}

	return nil
}

// Parser produces a dependency parse for a proposition.
type Parser interface {
	Parse(ctx context.Context, text string) (*Doc, error)
}

// Pair is a syntactic head-dependent relation between two concepts.
type Pair struct {
	Head      string `json:"head"`
	Dependent string `json:"dependent"`
}

// Extraction is the output of Extract.
type Extraction struct {
	// Concepts in order of first appearance, canonical and unique.
	Concepts []string
	// Pairs deduplicated as unordered pairs, in order of first appearance.
	Pairs []Pair
}

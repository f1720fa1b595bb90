// SPDX-License-Identifier: MIT

package embed

import (
	"context"
	"errors"
	"fmt"

	"github.com/soyuz43/hypergraph-cli/matrix"
)

// Sentinel errors for encoding and vector assignment.
var (
	// ErrEncodeFailed wraps transport and decoding failures of an Encoder.
	ErrEncodeFailed = errors.New("embed: encode failed")

	// ErrInvalidEncoding is returned when tokens and hidden states disagree.
	ErrInvalidEncoding = errors.New("embed: invalid encoding")

	// ErrNilRand is returned when a fallback vector is needed but no random
	// source was supplied.
	ErrNilRand = errors.New("embed: nil random source")

	// ErrInvalidDim is returned for a non-positive synthetic dimension.
	ErrInvalidDim = errors.New("embed: dimension must be > 0")
)

// Encoding is the output of one encoder pass: Tokens[i] owns row i of Hidden.
type Encoding struct {
	Model  string
	Tokens []string
	Hidden *matrix.Dense
}

// Dim returns the hidden size.
func (e *Encoding) Dim() int { return e.Hidden.Cols() }

// Validate checks that every token has exactly one hidden-state row.
func (e *Encoding) Validate() error {
	if e == nil || e.Hidden == nil {
		return fmt.Errorf("%w: missing hidden states", ErrInvalidEncoding)
	}
	if len(e.Tokens) != e.Hidden.Rows() {
		return fmt.Errorf("%w: %d tokens vs %d hidden rows", ErrInvalidEncoding, len(e.Tokens), e.Hidden.Rows())
	}

	return nil
}

// Encoder runs a contextual model over a whole sentence.
type Encoder interface {
	Encode(ctx context.Context, text string) (*Encoding, error)
}

// Vectors maps canonical concept text to its embedding for one proposition.
type Vectors struct {
	Dim    int
	Values map[string][]float64
	// Fallback lists concepts that received a random vector, in input order.
	Fallback []string
	// Synthetic is set when every vector is random because no encoder ran.
	Synthetic bool
}

// Get returns the vector for concept and whether it exists.
func (v *Vectors) Get(concept string) ([]float64, bool) {
	vec, ok := v.Values[concept]
	return vec, ok
}

// IsFallback reports whether concept was assigned a random vector.
func (v *Vectors) IsFallback(concept string) bool {
	if v.Synthetic {
		_, ok := v.Values[concept]
		return ok
	}
	for _, c := range v.Fallback {
		if c == concept {
			return true
		}
	}

	return false
}

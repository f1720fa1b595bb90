// SPDX-License-Identifier: MIT

package embed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/soyuz43/hypergraph-cli/matrix"
)

// Provider assigns contextual vectors to concepts.
type Provider struct {
	encoder Encoder
	logger  *zap.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderLogger sets the logger; nil keeps the no-op logger.
func WithProviderLogger(l *zap.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider wraps enc.
func NewProvider(enc Encoder, opts ...ProviderOption) *Provider {
	p := &Provider{encoder: enc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Matches reports whether a sub-word token belongs to concept: equal, the
// token extends the concept, or the token is a prefix of the concept.
// Comparison is case-insensitive; empty tokens never match.
func Matches(token, concept string) bool {
	tok := strings.ToLower(token)
	if tok == "" {
		return false
	}
	c := strings.ToLower(concept)

	return tok == c || strings.HasPrefix(tok, c) || strings.HasPrefix(c, tok)
}

// Vectors encodes proposition once and assigns a vector to every concept.
//
// Matching rows are averaged into a fresh slice; the encoder's hidden states
// are never written. Concepts without a match draw Dim uniform [0,1) values
// from rng, in the order they appear in concepts.
//
// Errors: encoder errors, ErrInvalidEncoding, ErrNilRand.
func (p *Provider) Vectors(ctx context.Context, proposition string, concepts []string, rng *rand.Rand) (*Vectors, error) {
	enc, err := p.encoder.Encode(ctx, proposition)
	if err != nil {
		return nil, err
	}

	return Assign(enc, concepts, rng, p.logger)
}

// Assign performs the concept-to-row matching on an existing encoding.
func Assign(enc *Encoding, concepts []string, rng *rand.Rand, logger *zap.Logger) (*Vectors, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	out := &Vectors{Dim: enc.Dim(), Values: make(map[string][]float64, len(concepts))}
	for _, c := range concepts {
		var rows [][]float64
		for i, tok := range enc.Tokens {
			if !Matches(tok, c) {
				continue
			}
			row, err := enc.Hidden.Row(i)
			if err != nil {
				return nil, fmt.Errorf("embed: row %d: %w", i, err)
			}
			rows = append(rows, row)
		}

		if len(rows) == 0 {
			vec, err := uniform(out.Dim, rng)
			if err != nil {
				return nil, err
			}
			out.Values[c] = vec
			out.Fallback = append(out.Fallback, c)
			logger.Warn("concept not found in tokenization, using random vector", zap.String("concept", c))
			continue
		}

		mean, err := matrix.MeanOf(rows)
		if err != nil {
			return nil, fmt.Errorf("embed: pool %q: %w", c, err)
		}
		out.Values[c] = mean
	}

	return out, nil
}

// Synthetic assigns a random vector to every concept. It backs reduced mode
// when no encoder is configured.
//
// Errors: ErrInvalidDim, ErrNilRand.
func Synthetic(concepts []string, dim int, rng *rand.Rand) (*Vectors, error) {
	if dim <= 0 {
		return nil, ErrInvalidDim
	}
	out := &Vectors{Dim: dim, Values: make(map[string][]float64, len(concepts)), Synthetic: true}
	for _, c := range concepts {
		vec, err := uniform(dim, rng)
		if err != nil {
			return nil, err
		}
		out.Values[c] = vec
	}

	return out, nil
}

// MeanPool averages every token row into one sentence vector.
func MeanPool(enc *Encoding) ([]float64, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	rows := make([][]float64, enc.Hidden.Rows())
	for i := range rows {
		row, err := enc.Hidden.Row(i)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	mean, err := matrix.MeanOf(rows)
	if err != nil {
		return nil, fmt.Errorf("embed: mean pool: %w", err)
	}

	return mean, nil
}

func uniform(dim int, rng *rand.Rand) ([]float64, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = rng.Float64()
	}

	return vec, nil
}

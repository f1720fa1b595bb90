// SPDX-License-Identifier: MIT

package diffusion

import (
	"context"
	"errors"
	"fmt"
)

// DefaultRounds is the fixed number of synchronous smoothing rounds.
const DefaultRounds = 10

// DefaultSelfWeight is α in new = α·old + (1−α)·mean(neighbors).
const DefaultSelfWeight = 0.5

// Sentinel errors for diffusion.
var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("diffusion: graph is nil")

	// ErrMissingVector is returned when a graph node has no initial vector.
	ErrMissingVector = errors.New("diffusion: node has no vector")

	// ErrDimensionMismatch is returned when vectors differ in length.
	ErrDimensionMismatch = errors.New("diffusion: vector dimension mismatch")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("diffusion: invalid option supplied")
)

// Option configures Diffuse via functional arguments.
type Option func(*Options)

// Options holds the diffusion parameters.
type Options struct {
	Ctx        context.Context
	Rounds     int
	SelfWeight float64

	err error
}

// DefaultOptions returns 10 rounds, α = 0.5, background context.
func DefaultOptions() Options {
	return Options{Ctx: context.Background(), Rounds: DefaultRounds, SelfWeight: DefaultSelfWeight}
}

// WithContext sets a context checked between rounds.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithRounds overrides the round count. 0 returns copies of the inputs.
func WithRounds(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: rounds cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.Rounds = n
	}
}

// WithSelfWeight overrides α; it must lie in [0, 1].
func WithSelfWeight(alpha float64) Option {
	return func(o *Options) {
		if !(alpha >= 0 && alpha <= 1) {
			o.err = fmt.Errorf("%w: self weight %v outside [0,1]", ErrOptionViolation, alpha)
			return
		}
		o.SelfWeight = alpha
	}
}

// SPDX-License-Identifier: MIT

package baseline

import "errors"

// Sentinel errors. Callers at startup wrap them in stability.ConfigurationError.
var (
	// ErrArtifactMissing indicates the reference-vector file does not exist.
	ErrArtifactMissing = errors.New("baseline: reference artifact missing")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// cloud's embedding dimension. Queries are never broadcast.
	ErrDimensionMismatch = errors.New("baseline: dimension mismatch")

	// ErrTooFewVectors indicates fewer than MinVectors reference rows.
	ErrTooFewVectors = errors.New("baseline: too few reference vectors")

	// ErrUnsupportedFormat indicates an unknown extension or npy layout.
	ErrUnsupportedFormat = errors.New("baseline: unsupported artifact format")

	// ErrMalformed indicates a truncated or syntactically invalid artifact.
	ErrMalformed = errors.New("baseline: malformed artifact")

	// ErrInvalidOption indicates an out-of-range FitOption.
	ErrInvalidOption = errors.New("baseline: invalid option")
)

// SPDX-License-Identifier: MIT

package stability

import (
	"errors"
	"fmt"
)

// InsufficientStructureMessage is the whole output for a proposition whose
// concept graph has no edges. It is a valid terminal outcome, not an error.
const InsufficientStructureMessage = "Insufficient structure to analyze. Graph has no meaningful edges."

// Sentinel errors for stability.
var (
	// ErrNilParser is returned by NewAnalyzer without a parser.
	ErrNilParser = errors.New("stability: parser is nil")

	// ErrNoBaseline is returned when full mode is requested without a model.
	ErrNoBaseline = errors.New("stability: no baseline model configured")

	// ErrNoEncoder is returned when full mode is requested without an encoder.
	ErrNoEncoder = errors.New("stability: no encoder configured")

	// ErrInvalidOption is returned when an Option carries an invalid value.
	ErrInvalidOption = errors.New("stability: invalid option supplied")

	// ErrNilGraph is returned by Score for a nil concept graph.
	ErrNilGraph = errors.New("stability: concept graph is nil")

	// ErrUnknownConcept is returned when a pair names a concept not in the list.
	ErrUnknownConcept = errors.New("stability: pair references unknown concept")

	// ErrMissingVector is returned by Score when a concept has no vector.
	ErrMissingVector = errors.New("stability: concept has no vector")
)

// ConfigurationError marks a startup failure: the baseline artifact is
// missing or unusable, or the analyzer was assembled inconsistently. It is
// never produced for a per-proposition condition, except when an encoder
// changes its output dimension after startup.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("stability: configuration: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err carries a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func configErr(op string, err error) error {
	return &ConfigurationError{Op: op, Err: err}
}

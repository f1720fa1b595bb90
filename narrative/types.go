// SPDX-License-Identifier: MIT

package narrative

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for narrative.
var (
	// ErrEmptyResponse is returned when a backend answers without content.
	ErrEmptyResponse = errors.New("narrative: empty response")

	// ErrRequestFailed wraps transport and status failures of a backend.
	ErrRequestFailed = errors.New("narrative: request failed")

	// ErrInvalidOption is returned for an invalid client or run option.
	ErrInvalidOption = errors.New("narrative: invalid option supplied")
)

// Generator produces text for a prompt. lensContext may be empty.
type Generator interface {
	Generate(ctx context.Context, prompt, lensContext string) (string, error)
	// Name is the backend name used in error-flagged output ("Ollama").
	Name() string
}

// Recorder counts backend requests. telemetry.Metrics implements it.
type Recorder interface {
	IncLLMRequest(backend, status string)
}

type nopRecorder struct{}

func (nopRecorder) IncLLMRequest(string, string) {}

// ErrorText is the error-flagged phase output for a failed request.
func ErrorText(backend string, err error) string {
	return fmt.Sprintf("[ERROR] %s request failed: %v", backend, err)
}

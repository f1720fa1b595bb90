// SPDX-License-Identifier: MIT

package narrative

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PhaseOutput is the text one phase produced.
type PhaseOutput struct {
	Phase  string `json:"phase"`
	Text   string `json:"text"`
	Failed bool   `json:"failed,omitempty"`
}

// Analysis is the combined narrative result for one proposition.
type Analysis struct {
	Original string        `json:"original"`
	Lenses   []string      `json:"lenses"`
	Output   string        `json:"output"`
	Phases   []PhaseOutput `json:"meta_analysis"`
}

// RunOption configures Run.
type RunOption func(*runOptions)

type runOptions struct {
	parallelism int
	logger      *zap.Logger
	recorder    Recorder
	err         error
}

// WithParallelism bounds concurrent phase requests; 1 runs them in order.
func WithParallelism(n int) RunOption {
	return func(o *runOptions) {
		if n < 1 {
			o.err = fmt.Errorf("%w: parallelism must be at least 1 (%d)", ErrInvalidOption, n)
			return
		}
		o.parallelism = n
	}
}

// WithRunLogger sets the logger. nil keeps the no-op logger.
func WithRunLogger(l *zap.Logger) RunOption {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRunRecorder counts requests per backend and status.
func WithRunRecorder(r Recorder) RunOption {
	return func(o *runOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

// Run executes every phase for proposition and synthesizes the output.
//
// lenses nil means "none". Backend failures become error-flagged phase text;
// Run itself fails only on an invalid option or a cancelled context.
func Run(ctx context.Context, gen Generator, proposition string, lenses []string, opts ...RunOption) (*Analysis, error) {
	o := runOptions{parallelism: len(Phases()), logger: zap.NewNop(), recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("narrative: run: %w", err)
	}
	if len(lenses) == 0 {
		lenses = []string{LensNone}
	}
	lensCtx := LensContext(lenses)

	phases := Phases()
	outputs := make([]PhaseOutput, len(phases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, p := range phases {
		g.Go(func() error {
			text, err := gen.Generate(gctx, p.Prompt(proposition), lensCtx)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				o.recorder.IncLLMRequest(gen.Name(), "error")
				o.logger.Warn("phase request failed", zap.String("phase", p.Title), zap.Error(err))
				outputs[i] = PhaseOutput{Phase: p.Title, Text: ErrorText(gen.Name(), err), Failed: true}
				return nil
			}
			o.recorder.IncLLMRequest(gen.Name(), "ok")
			outputs[i] = PhaseOutput{Phase: p.Title, Text: strings.TrimSpace(text)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("narrative: run: %w", err)
	}

	return &Analysis{
		Original: proposition,
		Lenses:   append([]string(nil), lenses...),
		Output:   Synthesize(outputs[0].Text, outputs[1].Text, outputs[2].Text),
		Phases:   outputs,
	}, nil
}

// Synthesize joins the three phase texts under their section headers.
func Synthesize(topology, equilibrium, reconstruction string) string {
	return fmt.Sprintf("--- %s ---\n%s\n\n--- %s ---\n%s\n\n--- %s ---\n%s",
		Topology.Key, strings.TrimSpace(topology),
		Equilibrium.Key, strings.TrimSpace(equilibrium),
		Reconstruction.Key, strings.TrimSpace(reconstruction))
}

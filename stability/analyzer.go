// SPDX-License-Identifier: MIT

package stability

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/soyuz43/hypergraph-cli/baseline"
	"github.com/soyuz43/hypergraph-cli/bfs"
	"github.com/soyuz43/hypergraph-cli/diffusion"
	"github.com/soyuz43/hypergraph-cli/embed"
	"github.com/soyuz43/hypergraph-cli/nlp"
)

var tracer = otel.Tracer("hypergraph.stability")

// DefaultSyntheticDim is the vector size used in reduced mode without an
// encoder. It matches BERT-base hidden states.
const DefaultSyntheticDim = 768

// Pipeline stage names reported to the Recorder.
const (
	StageParse   = "parse"
	StageEncode  = "encode"
	StageDiffuse = "diffuse"
	StageScore   = "score"
)

// Analysis outcomes reported to the Recorder.
const (
	OutcomeScored       = "scored"
	OutcomeInsufficient = "insufficient"
	OutcomeError        = "error"
)

// Recorder receives pipeline measurements. telemetry.Metrics implements it.
type Recorder interface {
	ObserveStage(stage string, d time.Duration)
	IncAnalysis(outcome string)
	AddFallbackConcepts(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) IncAnalysis(string)                 {}
func (nopRecorder) AddFallbackConcepts(int)            {}

// Analyzer carries everything one analysis needs: the parser, the encoder,
// the fitted baseline and the seed. It holds no per-call state, so a single
// Analyzer may serve concurrent calls if its Parser and Encoder can.
type Analyzer struct {
	parser       nlp.Parser
	encoder      embed.Encoder
	provider     *embed.Provider
	model        *baseline.Model
	seed         uint64
	rounds       int
	reduced      bool
	syntheticDim int
	encoderDim   int
	logger       *zap.Logger
	recorder     Recorder

	err error
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEncoder sets the contextual encoder.
func WithEncoder(enc embed.Encoder) Option {
	return func(a *Analyzer) { a.encoder = enc }
}

// WithModel sets the fitted baseline model.
func WithModel(m *baseline.Model) Option {
	return func(a *Analyzer) { a.model = m }
}

// WithSeed sets the base seed for fallback and synthetic vectors.
func WithSeed(seed uint64) Option {
	return func(a *Analyzer) { a.seed = seed }
}

// WithRounds overrides diffusion.DefaultRounds.
func WithRounds(n int) Option {
	return func(a *Analyzer) {
		if n < 0 {
			a.err = fmt.Errorf("%w: rounds cannot be negative (%d)", ErrInvalidOption, n)
			return
		}
		a.rounds = n
	}
}

// WithReducedMode opts into coherence-only analysis without a baseline.
// Without an encoder, vectors are synthetic.
func WithReducedMode() Option {
	return func(a *Analyzer) { a.reduced = true }
}

// WithSyntheticDim sets the synthetic vector size for reduced mode.
func WithSyntheticDim(dim int) Option {
	return func(a *Analyzer) {
		if dim <= 0 {
			a.err = fmt.Errorf("%w: synthetic dim must be positive (%d)", ErrInvalidOption, dim)
			return
		}
		a.syntheticDim = dim
	}
}

// WithEncoderDim declares the encoder's hidden size so a baseline of another
// dimension is rejected at construction.
func WithEncoderDim(dim int) Option {
	return func(a *Analyzer) { a.encoderDim = dim }
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder sets the metrics sink. nil keeps the no-op recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.recorder = r
		}
	}
}

// NewAnalyzer validates the assembly and returns a ready Analyzer.
//
// Full mode needs an encoder and a model whose dimension matches
// WithEncoderDim when given. Every failure is a *ConfigurationError.
func NewAnalyzer(parser nlp.Parser, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		parser:       parser,
		rounds:       diffusion.DefaultRounds,
		syntheticDim: DefaultSyntheticDim,
		logger:       zap.NewNop(),
		recorder:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.err != nil {
		return nil, configErr("options", a.err)
	}
	if parser == nil {
		return nil, configErr("parser", ErrNilParser)
	}

	if a.reduced {
		if a.model != nil {
			a.logger.Warn("reduced mode ignores the configured baseline model")
			a.model = nil
		}
	} else {
		if a.model == nil {
			return nil, configErr("baseline", ErrNoBaseline)
		}
		if a.encoder == nil {
			return nil, configErr("encoder", ErrNoEncoder)
		}
		if a.encoderDim > 0 && a.model.Dim() != a.encoderDim {
			return nil, configErr("baseline", fmt.Errorf("%w: baseline has %d, encoder produces %d",
				baseline.ErrDimensionMismatch, a.model.Dim(), a.encoderDim))
		}
	}
	if a.encoder != nil {
		a.provider = embed.NewProvider(a.encoder, embed.WithProviderLogger(a.logger))
	}

	return a, nil
}

// LoadBaseline loads and fits the baseline artifact, reporting any failure as
// a *ConfigurationError.
func LoadBaseline(path string, wantDim int, opts ...baseline.FitOption) (*baseline.Model, error) {
	m, err := baseline.LoadModel(path, wantDim, opts...)
	if err != nil {
		return nil, configErr("load baseline", err)
	}

	return m, nil
}

// Reduced reports whether the analyzer runs without a baseline.
func (a *Analyzer) Reduced() bool { return a.reduced }

// Analyze runs parse, extract, graph, encode, diffuse and score for one
// proposition.
//
// A blank proposition or a graph without edges returns the
// insufficient-structure Result before the encoder is called. Random vectors come from a generator seeded with the
// analyzer seed and a hash of the proposition, so repeated calls agree.
//
// Errors: parser and encoder errors, nlp.ErrInvalidDoc, *ConfigurationError
// when the encoder's dimension disagrees with the baseline, context errors.
func (a *Analyzer) Analyze(ctx context.Context, proposition string) (res *Result, err error) {
	ctx, span := tracer.Start(ctx, "Analyzer.Analyze")
	defer span.End()
	defer func() {
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			a.recorder.IncAnalysis(OutcomeError)
		case res.Insufficient:
			a.recorder.IncAnalysis(OutcomeInsufficient)
		default:
			a.recorder.IncAnalysis(OutcomeScored)
		}
	}()

	if strings.TrimSpace(proposition) == "" {
		return insufficient(proposition), nil
	}

	start := time.Now()
	doc, err := a.parser.Parse(ctx, proposition)
	if err != nil {
		return nil, fmt.Errorf("stability: parse: %w", err)
	}
	ext, err := nlp.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("stability: extract: %w", err)
	}
	cg, err := BuildGraph(ext.Concepts, ext.Pairs)
	if err != nil {
		return nil, err
	}
	a.recorder.ObserveStage(StageParse, time.Since(start))
	span.SetAttributes(attribute.Int("stability.nodes", cg.NodeCount()), attribute.Int("stability.edges", cg.EdgeCount()))

	if cg.EdgeCount() == 0 {
		a.logger.Debug("insufficient structure", zap.Int("concepts", len(ext.Concepts)))
		return insufficient(proposition), nil
	}

	start = time.Now()
	vectors, err := a.vectors(ctx, proposition, cg.Concepts)
	if err != nil {
		return nil, err
	}
	a.recorder.ObserveStage(StageEncode, time.Since(start))
	if !vectors.Synthetic && len(vectors.Fallback) > 0 {
		a.recorder.AddFallbackConcepts(len(vectors.Fallback))
		a.logger.Debug("fallback vectors assigned", zap.Strings("concepts", vectors.Fallback))
	}
	if a.model != nil && vectors.Dim != a.model.Dim() {
		return nil, configErr("encoder", fmt.Errorf("%w: encoder produced %d, baseline has %d",
			baseline.ErrDimensionMismatch, vectors.Dim, a.model.Dim()))
	}

	start = time.Now()
	diffused, err := diffusion.Diffuse(cg.Graph, vectors.Values, diffusion.WithContext(ctx), diffusion.WithRounds(a.rounds))
	if err != nil {
		return nil, fmt.Errorf("stability: diffuse: %w", err)
	}
	a.recorder.ObserveStage(StageDiffuse, time.Since(start))

	start = time.Now()
	report, err := Score(cg, diffused, a.model)
	if err != nil {
		return nil, err
	}
	report.Synthetic = vectors.Synthetic
	report.Fallback = append([]string(nil), vectors.Fallback...)
	for i := range report.Details {
		report.Details[i].Fallback = vectors.IsFallback(report.Details[i].Concept)
	}
	if report.Components, err = bfs.Components(ctx, cg.Graph); err != nil {
		return nil, fmt.Errorf("stability: components: %w", err)
	}
	a.recorder.ObserveStage(StageScore, time.Since(start))

	a.logger.Debug("proposition scored",
		zap.Int("nodes", report.Nodes),
		zap.Int("edges", report.Edges),
		zap.Int("isolated", report.Isolated),
		zap.Float64("coherence", report.Coherence),
		zap.Bool("reduced", report.Reduced))

	return &Result{Proposition: proposition, Report: report}, nil
}

func (a *Analyzer) vectors(ctx context.Context, proposition string, concepts []string) (*embed.Vectors, error) {
	rng := a.rng(proposition)
	if a.provider == nil {
		v, err := embed.Synthetic(concepts, a.syntheticDim, rng)
		if err != nil {
			return nil, fmt.Errorf("stability: synthetic vectors: %w", err)
		}
		return v, nil
	}

	v, err := a.provider.Vectors(ctx, proposition, concepts, rng)
	if err != nil {
		return nil, fmt.Errorf("stability: encode: %w", err)
	}

	return v, nil
}

// rng derives the per-call generator from the seed and the proposition.
func (a *Analyzer) rng(proposition string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(proposition))

	return rand.New(rand.NewPCG(a.seed, h.Sum64()))
}

func insufficient(proposition string) *Result {
	return &Result{Proposition: proposition, Insufficient: true, Message: InsufficientStructureMessage}
}

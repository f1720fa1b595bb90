// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soyuz43/hypergraph-cli/baseline"
	"github.com/soyuz43/hypergraph-cli/config"
	"github.com/soyuz43/hypergraph-cli/embed"
	"github.com/soyuz43/hypergraph-cli/nlp"
	"github.com/soyuz43/hypergraph-cli/stability"
)

type stabilityOutput struct {
	RunID  string            `json:"run_id"`
	Result *stability.Result `json:"result"`
}

func newStabilityCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		reduced bool
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "stability <proposition>",
		Short: "Score a proposition's semantic stability against the baseline",
		Long: `Extracts concepts from the proposition, builds the concept graph, diffuses
contextual embeddings over it and reports internal coherence, contrast to the
baseline cloud and Mahalanobis dispersion.

Example:
  hypergraph stability "The cat sat on the mat."
  hypergraph stability --json "Gravity pulls objects together."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("reduced") {
				a.cfg.Stability.Reduced = reduced
			}
			if cmd.Flags().Changed("seed") {
				a.cfg.Stability.Seed = seed
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			an, err := a.newAnalyzer()
			if err != nil {
				return err
			}
			res, err := an.Analyze(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				return a.writeJSON(stabilityOutput{RunID: a.runID, Result: res})
			}
			out := res.String()
			if !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			_, err = fmt.Fprint(a.stdout, out)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVar(&reduced, "reduced", false, "Coherence only, without a baseline")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for fallback vectors (default from config)")

	return cmd
}

// newAnalyzer assembles the stability pipeline from the configuration.
func (a *app) newAnalyzer() (*stability.Analyzer, error) {
	cfg := a.cfg

	parser, err := nlp.NewHTTPParser(cfg.Parser.URL,
		nlp.WithParserHTTPClient(&http.Client{Timeout: cfg.Parser.Timeout}),
		nlp.WithParserModel(cfg.Parser.Model),
		nlp.WithParserLogger(a.logger))
	if err != nil {
		return nil, &stability.ConfigurationError{Op: "parser", Err: err}
	}

	opts := []stability.Option{
		stability.WithSeed(cfg.Stability.Seed),
		stability.WithRounds(cfg.Stability.Rounds),
		stability.WithLogger(a.logger),
		stability.WithRecorder(a.metrics),
	}

	if cfg.Encoder.URL != "" {
		enc, err := embed.NewHTTPEncoder(cfg.Encoder.URL,
			embed.WithEncoderHTTPClient(&http.Client{Timeout: cfg.Encoder.Timeout}),
			embed.WithEncoderModel(cfg.Encoder.Model),
			embed.WithEncoderLogger(a.logger))
		if err != nil {
			return nil, &stability.ConfigurationError{Op: "encoder", Err: err}
		}
		opts = append(opts, stability.WithEncoder(enc), stability.WithEncoderDim(cfg.Encoder.HiddenSize))
	}

	if cfg.Stability.Reduced {
		a.logger.Info("reduced mode: baseline scores disabled")
		opts = append(opts, stability.WithReducedMode(), stability.WithSyntheticDim(cfg.Stability.SyntheticDim))
	} else {
		model, err := stability.LoadBaseline(cfg.Baseline.Path, cfg.Encoder.HiddenSize, fitOptions(cfg.Baseline)...)
		if err != nil {
			return nil, err
		}
		a.logger.Info("baseline loaded",
			zap.String("path", cfg.Baseline.Path),
			zap.Int("vectors", model.Len()),
			zap.Int("dim", model.Dim()),
			zap.Int("rank", model.Rank()),
			zap.Float64("ridge", model.Ridge()))
		if model.Ridge() == 0 {
			a.logger.Warn("baseline fitted without ridge: off-span directions do not add to Mahalanobis")
		}
		opts = append(opts, stability.WithModel(model))
	}

	return stability.NewAnalyzer(parser, opts...)
}

// fitOptions maps the baseline config onto fit options. An explicit ridge
// overrides the trace-scaled default.
func fitOptions(bc config.BaselineConfig) []baseline.FitOption {
	opts := []baseline.FitOption{baseline.WithRcond(bc.Rcond), baseline.WithRidgeScale(bc.RidgeScale)}
	if bc.Ridge > 0 {
		opts = append(opts, baseline.WithRidge(bc.Ridge))
	}

	return opts
}

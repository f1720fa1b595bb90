// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soyuz43/hypergraph-cli/config"
	"github.com/soyuz43/hypergraph-cli/narrative"
	"github.com/soyuz43/hypergraph-cli/stability"
)

type analyzeOutput struct {
	RunID     string              `json:"run_id"`
	Narrative *narrative.Analysis `json:"narrative"`
	Stability *stability.Result   `json:"stability,omitempty"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		lenses        []string
		asJSON        bool
		withStability bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <proposition>",
		Short: "Run the topology, equilibrium and reconstruction phases",
		Long: `Sends the proposition through the three narrative phases and prints each
phase followed by the synthesized output. Lenses add epistemological context:
` + strings.Join(narrative.Lenses(), ", ") + `.

Example:
  hypergraph analyze "Markets are efficient." --lens foucault --lens spivak
  hypergraph analyze --stability "The cat sat on the mat."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposition := strings.Join(args, " ")
			if !cmd.Flags().Changed("lens") {
				lenses = a.cfg.LLM.Lenses
			}
			for _, l := range lenses {
				if !narrative.IsLens(l) {
					a.logger.Warn("unknown lens ignored", zap.String("lens", l), zap.Strings("known", narrative.Lenses()))
				}
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			gen, err := a.newGenerator()
			if err != nil {
				return err
			}
			analysis, err := narrative.Run(ctx, gen, proposition, lenses,
				narrative.WithParallelism(a.cfg.LLM.Parallelism),
				narrative.WithRunLogger(a.logger),
				narrative.WithRunRecorder(a.metrics))
			if err != nil {
				return err
			}

			var stab *stability.Result
			if withStability {
				an, err := a.newAnalyzer()
				if err != nil {
					return err
				}
				if stab, err = an.Analyze(ctx, proposition); err != nil {
					return err
				}
			}

			if asJSON {
				return a.writeJSON(analyzeOutput{RunID: a.runID, Narrative: analysis, Stability: stab})
			}
			for _, p := range analysis.Phases {
				fmt.Fprintf(a.stdout, "\n%s:\n %s\n", p.Phase, p.Text)
			}
			fmt.Fprintf(a.stdout, "\nSynthesized Output:\n %s\n", analysis.Output)
			if stab != nil {
				fmt.Fprintf(a.stdout, "\nStability:\n%s\n", strings.TrimSuffix(stab.String(), "\n"))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&lenses, "lens", nil, "Epistemological lens (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVar(&withStability, "stability", false, "Also run the stability analysis")

	return cmd
}

// newGenerator builds the configured text-generation backend.
func (a *app) newGenerator() (narrative.Generator, error) {
	cfg := a.cfg.LLM
	hc := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case "openai":
		model := cfg.Model
		if model == config.Default().LLM.Model {
			// the stock model name is an Ollama tag
			model = ""
		}
		opts := []narrative.OpenAIOption{
			narrative.WithOpenAIModel(model),
			narrative.WithOpenAIHTTPClient(hc),
			narrative.WithOpenAILogger(a.logger),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, narrative.WithOpenAIBaseURL(cfg.OpenAIBaseURL))
		}
		return narrative.NewOpenAIClient(cfg.OpenAIAPIKey, opts...)
	default:
		return narrative.NewOllamaClient(cfg.OllamaURL,
			narrative.WithOllamaModel(cfg.Model),
			narrative.WithOllamaHTTPClient(hc),
			narrative.WithOllamaLogger(a.logger),
			narrative.WithOllamaTemperature(cfg.Temperature),
			narrative.WithOllamaRateLimit(cfg.RateLimit, cfg.Burst))
	}
}

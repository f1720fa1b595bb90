// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soyuz43/hypergraph-cli/baseline"
	"github.com/soyuz43/hypergraph-cli/embed"
)

func newBaselineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the baseline reference cloud",
	}

	var out, sentencesFile string
	build := &cobra.Command{
		Use:   "build",
		Short: "Encode the curated factual sentences into the baseline artifact",
		Long: `Encodes every baseline sentence with the configured encoder, mean-pools
its token states and writes one row per sentence. The format follows the
extension of --out: .npy or .json.

Example:
  hypergraph baseline build --out data/baseline_vectors.npy
  hypergraph baseline build --sentences facts.txt --out data/custom.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Encoder.URL == "" {
				return fmt.Errorf("baseline build needs encoder.url")
			}
			if out == "" {
				out = a.cfg.Baseline.Path
			}
			sentences := baseline.DefaultSentences
			if sentencesFile != "" {
				var err error
				if sentences, err = readLines(sentencesFile); err != nil {
					return err
				}
			}

			enc, err := embed.NewHTTPEncoder(a.cfg.Encoder.URL,
				embed.WithEncoderHTTPClient(&http.Client{Timeout: a.cfg.Encoder.Timeout}),
				embed.WithEncoderModel(a.cfg.Encoder.Model),
				embed.WithEncoderLogger(a.logger))
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			cloud, err := baseline.Build(ctx, enc, sentences, a.logger)
			if err != nil {
				return err
			}
			if err := baseline.Save(out, cloud); err != nil {
				return err
			}
			a.logger.Info("baseline written", zap.String("path", out), zap.Int("rows", cloud.Rows()), zap.Int("dim", cloud.Cols()))
			_, err = fmt.Fprintf(a.stdout, "Baseline vectors saved to %s (%d x %d)\n", out, cloud.Rows(), cloud.Cols())
			return err
		},
	}
	build.Flags().StringVar(&out, "out", "", "Output path (default: baseline.path from config)")
	build.Flags().StringVar(&sentencesFile, "sentences", "", "File with one sentence per line (default: built-in corpus)")
	cmd.AddCommand(build)

	return cmd
}

// readLines returns the non-blank, non-comment lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines, sc.Err()
}

// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soyuz43/hypergraph-cli/config"
	"github.com/soyuz43/hypergraph-cli/telemetry"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

const skipSetup = "skip-setup"

// app is the state shared by every subcommand of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	logLevel    string
	metricsFile string
	timeout     time.Duration

	cfg             *config.Config
	logger          *zap.Logger
	metrics         *telemetry.Metrics
	runID           string
	shutdownTracing func(context.Context) error
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "hypergraph",
		Short: "Analyze the structure and semantic stability of propositions",
		Long: `hypergraph maps a natural-language proposition onto a concept graph and
measures how stable it is relative to a baseline of plain factual statements.
It can also run qualitative topology, equilibrium and non-anthropic
reconstruction phases through an Ollama or OpenAI-compatible backend.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ./"+config.DefaultPath+" when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write prometheus metrics to this file on exit")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Minute, "Overall operation timeout (0 disables)")

	root.AddCommand(newStabilityCmd(a), newAnalyzeCmd(a), newBaselineCmd(a), newConfigCmd(a))

	return root, a
}

// setup loads configuration and builds the logger, metrics and tracer.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.metricsFile != "" {
		cfg.Telemetry.MetricsFile = a.metricsFile
	}
	a.cfg = cfg

	logger, err := telemetry.NewLogger(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.runID = uuid.NewString()
	a.logger = logger.With(zap.String("run_id", a.runID))
	a.metrics = telemetry.NewMetrics()

	a.shutdownTracing, err = telemetry.InitTracing(cmd.Context(), telemetry.TracingConfig{
		Stdout:         cfg.Telemetry.TraceStdout,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Writer:         a.stderr,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded", zap.String("command", cmd.Name()), zap.Bool("reduced", cfg.Stability.Reduced))

	return nil
}

// close flushes spans and metrics. It runs after every invocation, failed
// ones included.
func (a *app) close() {
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownTracing(ctx); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
		cancel()
	}
	if a.metrics != nil && a.cfg != nil && a.cfg.Telemetry.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Telemetry.MetricsFile); err != nil {
			a.logger.Warn("metrics dump failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}

	return context.WithTimeout(cmd.Context(), a.timeout)
}

func (a *app) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}

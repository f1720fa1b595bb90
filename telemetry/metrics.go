// SPDX-License-Identifier: MIT

package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hypergraph"

// Metrics owns a private registry so repeated construction (tests, several
// analyzers) never collides with the default registry.
type Metrics struct {
	registry *prometheus.Registry

	analyses      *prometheus.CounterVec
	fallbacks     prometheus.Counter
	stageDuration *prometheus.HistogramVec
	llmRequests   *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: outcome (scored, insufficient, error)
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Stability analyses by outcome",
		}, []string{"outcome"}),

		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_concepts_total",
			Help:      "Concepts that received a random vector because no token matched",
		}),

		// Labels: stage (parse, encode, diffuse, score)
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each analysis stage in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),

		// Labels: backend (ollama, openai), status (ok, error)
		llmRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Text-generation requests by backend and status",
		}, []string{"backend", "status"}),
	}
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncAnalysis counts one finished analysis.
func (m *Metrics) IncAnalysis(outcome string) {
	m.analyses.WithLabelValues(outcome).Inc()
}

// AddFallbackConcepts counts concepts that fell back to random vectors.
func (m *Metrics) AddFallbackConcepts(n int) {
	if n > 0 {
		m.fallbacks.Add(float64(n))
	}
}

// IncLLMRequest counts one text-generation request.
func (m *Metrics) IncLLMRequest(backend, status string) {
	m.llmRequests.WithLabelValues(backend, status).Inc()
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("telemetry: write metrics %s: %w", path, err)
	}

	return nil
}

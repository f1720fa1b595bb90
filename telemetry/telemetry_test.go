// SPDX-License-Identifier: MIT

package telemetry_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zapcore"

	"github.com/soyuz43/hypergraph-cli/telemetry"
)

func TestNewLogger(t *testing.T) {
	l, err := telemetry.NewLogger("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = telemetry.NewLogger("dev", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = telemetry.NewLogger("dev", "chatty")
	require.ErrorIs(t, err, telemetry.ErrInvalidLevel)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := telemetry.NewMetrics()
	m.IncAnalysis("scored")
	m.IncAnalysis("scored")
	m.IncAnalysis("insufficient")
	m.AddFallbackConcepts(3)
	m.AddFallbackConcepts(0)
	m.ObserveStage("encode", 20*time.Millisecond)
	m.IncLLMRequest("ollama", "error")

	path := filepath.Join(t.TempDir(), "hypergraph.prom")
	require.NoError(t, m.WriteTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, `hypergraph_analyses_total{outcome="scored"} 2`)
	assert.Contains(t, text, `hypergraph_analyses_total{outcome="insufficient"} 1`)
	assert.Contains(t, text, "hypergraph_fallback_concepts_total 3")
	assert.Contains(t, text, `hypergraph_stage_duration_seconds_count{stage="encode"} 1`)
	assert.Contains(t, text, `hypergraph_llm_requests_total{backend="ollama",status="error"} 1`)

	// a second instance has its own registry
	assert.NotSame(t, m.Registry(), telemetry.NewMetrics().Registry())
}

func TestInitTracing(t *testing.T) {
	shutdown, err := telemetry.InitTracing(context.Background(), telemetry.TracingConfig{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err = telemetry.InitTracing(context.Background(), telemetry.TracingConfig{
		Stdout:      true,
		ServiceName: "hypergraph-test",
		Writer:      &buf,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry_test").Start(context.Background(), "probe-span")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "probe-span")
	assert.Contains(t, buf.String(), "hypergraph-test")
}

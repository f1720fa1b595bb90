// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrNilContext is returned by InitTracing for a nil context.
var ErrNilContext = errors.New("telemetry: nil context")

// TracingConfig selects the tracer provider.
type TracingConfig struct {
	// Stdout enables the stdout span exporter. When false InitTracing leaves
	// the global no-op provider in place.
	Stdout bool
	// ServiceName is recorded as service.name.
	ServiceName string
	// ServiceVersion is recorded as service.version.
	ServiceVersion string
	// Writer receives exported spans; nil means stderr.
	Writer io.Writer
}

// InitTracing installs the global tracer provider and returns its shutdown
// function, which flushes pending spans. The shutdown function is never nil.
func InitTracing(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if ctx == nil {
		return noop, ErrNilContext
	}
	if !cfg.Stdout {
		return noop, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return noop, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

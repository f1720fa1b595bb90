// SPDX-License-Identifier: MIT

// Package telemetry builds the ambient observability stack of the CLI: the
// zap logger, a private prometheus registry with the analysis metrics, and
// the OpenTelemetry tracer provider.
//
// Nothing here is global except the tracer provider, which InitTracing
// installs with otel.SetTracerProvider so that package-level tracers in nlp,
// embed, stability and narrative pick it up.
package telemetry

// Package tracing wires OpenTelemetry tracing with an OTLP/gRPC exporter.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for gateway spans.
const TracerName = "cartonex/gateway"

// Config configures the tracer provider.
type Config struct {
	// Enabled turns tracing on. When false, Init installs nothing and
	// the returned shutdown is a no-op.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP/gRPC collector address, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName and ServiceVersion identify this deployment.
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`

	// SampleRatio is the head sampling ratio in [0, 1]. Default: 1.
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Init installs the global tracer provider and returns its shutdown
// function.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if !cfg.Enabled {
		return noop, nil
	}
	if cfg.Endpoint == "" {
		return noop, fmt.Errorf("tracing endpoint cannot be empty")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cartonex-gateway"
	}
	if cfg.SampleRatio <= 0 || cfg.SampleRatio > 1 {
		cfg.SampleRatio = 1
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return noop, fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Shutdown, nil
}

// Tracer returns the gateway's tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the shared tracer for analysis stages. Without SetupTracing it
// resolves to the global no-op provider, so instrumented code needs no
// enabled/disabled branches.
var Tracer trace.Tracer = otel.Tracer("ripple")

// SetupTracing installs an OTLP gRPC trace exporter and returns a shutdown
// function. endpoint is host:port of the collector.
func SetupTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "ripple"),
		)),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("ripple")

	return provider.Shutdown, nil
}

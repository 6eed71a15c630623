// Package telemetry installs the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/rendiciones/rendiciones/pkg/configuration"
)

// Shutdown flushes pending spans.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Init installs a tracer provider per opts. When tracing is disabled the
// global no-op provider stays in place. stdout is where the stdout exporter
// writes.
func Init(ctx context.Context, opts configuration.OpenTelemetryOptions, stdout io.Writer) (Shutdown, error) {
	if !opts.Enabled {
		return noop, nil
	}

	exporter, err := newExporter(ctx, opts, stdout)
	if err != nil {
		return noop, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", opts.ServiceName)),
	)
	if err != nil {
		return noop, errors.Wrap(err, "build otel resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, opts configuration.OpenTelemetryOptions, stdout io.Writer) (sdktrace.SpanExporter, error) {
	switch opts.Exporter {
	case "otlp":
		exp, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(opts.Endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, errors.Wrap(err, "create otlp exporter")
		}
		return exp, nil
	default:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(stdout))
		if err != nil {
			return nil, errors.Wrap(err, "create stdout exporter")
		}
		return exp, nil
	}
}

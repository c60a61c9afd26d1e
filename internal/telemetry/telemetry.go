// Package telemetry initializes OpenTelemetry tracing for a pipeline run.
//
//	tp, err := telemetry.InitTracer(ctx, "analytics", telemetry.ExporterStdout, "", os.Stderr)
//	defer tp.Shutdown(ctx)
package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported span exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// InitTracer creates and registers a global TracerProvider.
//
// exporter selects the span exporter: "none" (or empty) records spans
// without exporting them, "stdout" pretty-prints finished spans to w (os.Stdout when nil) and
// "otlp" sends them over OTLP/HTTP to endpoint.
//
// The returned TracerProvider must be shut down when the run ends.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string, w io.Writer) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	switch exporter {
	case "", ExporterNone:
	case ExporterStdout:
		sopts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
		if w != nil {
			sopts = append(sopts, stdouttrace.WithWriter(w))
		}
		exp, err := stdouttrace.New(sopts...)
		if err != nil {
			return nil, fmt.Errorf("creating span exporter: %w", err)
		}
		// A batch job ends right after its spans; export synchronously.
		opts = append(opts, sdktrace.WithSyncer(exp))
	case ExporterOTLP:
		eopts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			eopts = append(eopts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, eopts...)
		if err != nil {
			return nil, fmt.Errorf("creating span exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", exporter)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// hostPort extracts host:port from a URL
// ("http://otel-collector:4318" -> "otel-collector:4318").
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}

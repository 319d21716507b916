// Package otel provides OpenTelemetry tracer provider initialization and management.
package otel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mrzor/procstatfs/internal/config"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope of filesystem spans.
const TracerName = "github.com/mrzor/procstatfs"

// InitProvider initializes the OpenTelemetry tracer provider exporting over
// OTLP/HTTP to endpoint. The HTTP client honors HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func InitProvider(cfg *config.OTELConfig, endpoint, versionInfo string) (*sdktrace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("OTEL configuration",
		"service_name", cfg.ServiceName,
		"endpoint", endpoint,
		"resource_attributes", cfg.ResourceAttributes,
	)

	opts := []otlptracehttp.Option{otlptracehttp.WithTimeout(10 * time.Second)}
	if strings.Contains(endpoint, "://") {
		opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
	} else {
		opts = append(opts,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(), // bare host:port means a local collector
		)
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	resourceAttrs := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(versionInfo),
		),
	}

	customAttrs := cfg.ParseResourceAttributes()
	if len(customAttrs) > 0 {
		resourceAttrs = append(resourceAttrs, resource.WithAttributes(customAttrs...))
	}

	res, err := resource.New(ctx, resourceAttrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return tp, nil
}

// ShutdownProvider gracefully shuts down the tracer provider, flushing any remaining spans.
func ShutdownProvider(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}

	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}

	return nil
}

// NewTracer returns the tracer for filesystem spans and the provider backing
// it. When no OTLP endpoint is configured the tracer is a no-op and the
// provider is nil.
func NewTracer(cfg *config.OTELConfig, versionInfo string) (trace.Tracer, *sdktrace.TracerProvider, error) {
	endpoint, ok := cfg.Endpoint()
	if !ok {
		slog.Debug("no OTLP endpoint configured, tracing disabled")
		return noop.NewTracerProvider().Tracer(TracerName), nil, nil
	}

	tp, err := InitProvider(cfg, endpoint, versionInfo)
	if err != nil {
		return nil, nil, err
	}
	return tp.Tracer(TracerName), tp, nil
}

// Package observability provides OpenTelemetry integration for distributed tracing.
//
// # Architecture: local OTLP collector
//
// Spans export over OTLP HTTP to a local collector (default localhost:4318).
// Anything speaking the OTLP receiver protocol works: an OpenTelemetry
// Collector, a Datadog Agent with the OTLP receiver enabled, Jaeger
// all-in-one, or Grafana Alloy. The collector forwards to whatever backend
// the deployment uses, so this process never holds backend credentials.
//
// # What gets traced
//
// The canvas client starts a span per outbound Canvas request (canvas.get)
// carrying the method, URL, and status code. Without Setup those spans go
// to the SDK's no-op tracer and cost nothing.
//
// # Configuration
//
// Config file (~/.canvas-mcp/config.yaml):
//
//	tracing:
//	  enabled: true
//	  endpoint: "localhost:4318"
//	  environment: "prod"
//	  service_name: "canvas-mcp"
//
// The endpoint can also be set via CANVAS_MCP_OTLP_ENDPOINT.
//
// # Verify the pipeline
//
// Test the collector endpoint:
//
//	curl -v http://localhost:4318/v1/traces
//
// Then run the serve command with tracing enabled and look for the
// canvas.get spans under the configured service name.
package observability

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/campusops/canvas-mcp/internal/config"
)

// Setup installs a global tracer provider exporting to an OTLP HTTP
// collector. Traces from the canvas client attach to it automatically.
//
// Returns a shutdown function that flushes pending spans. If the exporter
// cannot be created the server runs without tracing: a warning is logged
// and the returned shutdown is a no-op.
func Setup(ctx context.Context, cfg config.TracingConfig) (shutdown func(context.Context) error, err error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultTracingEndpoint
	}

	// The SDK's default resource detector reads these; setting them here
	// keeps the service identity consistent however the process starts.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // local collector, no TLS
	)
	if err != nil {
		slog.Warn("failed to create OTLP exporter, tracing disabled", "error", err)
		return func(context.Context) error { return nil }, nil
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	slog.Debug("tracing enabled",
		"endpoint", endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	return provider.Shutdown, nil
}

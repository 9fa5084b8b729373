// Package telemetry installs the OpenTelemetry tracer provider.
//
// Tracing is off unless an OTLP endpoint is configured, either with
// [Config.Endpoint] or the standard OTEL_EXPORTER_OTLP_ENDPOINT variables
// read by the exporter. Spans are created by the backend client around each
// request.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Nitika2334/Rule-Engine-App/pkg/version"
)

const ServiceName = "rules"

// Config selects where spans are exported.
type Config struct {
	// Endpoint is an OTLP/gRPC host:port. Empty falls back to the
	// OTEL_EXPORTER_OTLP_ENDPOINT environment variables, and tracing stays
	// off when those are unset too.
	Endpoint string
	// Insecure disables TLS to the collector.
	Insecure bool
}

// Enabled reports whether spans would be exported.
func (c Config) Enabled() bool {
	return c.Endpoint != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Init installs a global tracer provider when tracing is enabled. The returned
// function must be called before exit; it is a no-op when tracing is off.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled() {
		slog.Debug("tracing disabled")

		return noop, nil
	}

	var opts []otlptracegrpc.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
	}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	tp := NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	slog.Debug("tracing enabled", slog.String("endpoint", cfg.Endpoint))

	return func(ctx context.Context) error {
		return errors.Join(tp.ForceFlush(ctx), tp.Shutdown(ctx))
	}, nil
}

// NewTracerProvider returns a provider identifying this program. opts add
// span processors, e.g. a batcher or an in-memory recorder in tests.
func NewTracerProvider(opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewWithAttributes("",
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version.GetVersion()),
	)

	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)

	return sdktrace.NewTracerProvider(opts...)
}

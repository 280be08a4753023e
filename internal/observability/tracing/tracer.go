package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/pkg/config"
)

const instrumentationName = "newsdesk"

var configMetrics = config.NewConfigMetrics("tracing")

// GetTracer returns the tracer used for application spans. It resolves the
// global provider on each call so Setup may run after package init.
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Config controls the tracer provider.
type Config struct {
	ServiceName string
	// SampleRatio is the fraction of root spans recorded, in [0, 1].
	SampleRatio float64
}

// DefaultConfig samples every trace.
func DefaultConfig() Config {
	return Config{ServiceName: "newsdesk", SampleRatio: 1}
}

// LoadConfigFromEnv reads OTEL_SERVICE_NAME and TRACE_SAMPLE_PERCENT.
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()
	l := config.NewLoader(logger, configMetrics)
	cfg.ServiceName = l.String("ServiceName", "OTEL_SERVICE_NAME", cfg.ServiceName, nil)
	percent := l.Int("SampleRatio", "TRACE_SAMPLE_PERCENT", int(cfg.SampleRatio*100), func(v int) error {
		return config.ValidateIntRange(v, 0, 100)
	})
	cfg.SampleRatio = float64(percent) / 100
	l.Done()
	return cfg
}

// Setup installs a parent-based, ratio-sampled tracer provider and the W3C
// trace-context and baggage propagators. The returned function flushes and
// shuts the provider down.
func Setup(cfg Config, version string) func(context.Context) error {
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}

package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	// globalConfig holds the env-derived baseline configuration.
	globalConfig *Config
	configOnce   sync.Once
)

// ShutdownFunc is a function that shuts down the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

// noopShutdown is a no-op shutdown function.
func noopShutdown(_ context.Context) error {
	return nil
}

// Init initializes OpenTelemetry and sets up the global TracerProvider that
// internal/orchestrator's otel.Tracer(...) calls write spans through.
//
// Enablement and exporter settings are read from the OTEL_* environment
// variables documented on Config; override, when non-nil, lets the CLI's
// --config file take precedence over them for the settings
// pkg/config.TelemetryConfig exposes. resourceAttrs is merged into the
// exported resource's attribute set — the CLI uses it to stamp every span
// with the scheduler tunables (d_max, max_size, max_iters) active for the
// run being traced.
//
// If tracing ends up disabled, Init returns a no-op shutdown function and
// the global TracerProvider remains the default no-op provider.
func Init(ctx context.Context, override *Config, resourceAttrs map[string]string) (ShutdownFunc, error) {
	cfg := loadConfig().applyOverride(override).withResourceAttrs(resourceAttrs)

	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := buildResource(ctx, &cfg)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := createExporter(ctx, &cfg)
	if err != nil {
		return noopShutdown, err
	}

	sampler := createSampler(&cfg)

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return tp.Shutdown(ctx)
	}, nil
}

// Enabled returns whether OpenTelemetry tracing is enabled per the
// OTEL_ENABLED environment variable, ignoring any --config override.
func Enabled() bool {
	return loadConfig().Enabled
}

// GetConfig returns the env-derived telemetry configuration.
func GetConfig() *Config {
	return loadConfig()
}

// loadConfig loads configuration once and caches it.
func loadConfig() *Config {
	configOnce.Do(func() {
		globalConfig = LoadFromEnv()
	})
	return globalConfig
}

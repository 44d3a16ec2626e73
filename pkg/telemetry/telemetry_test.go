package telemetry

import (
	"context"
	"os"
	"sync"
	"testing"
)

func TestInit_Disabled(t *testing.T) {
	resetGlobalConfig()
	os.Unsetenv("OTEL_ENABLED")

	ctx := context.Background()
	shutdown, err := Init(ctx, nil, nil)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if shutdown == nil {
		t.Error("Expected shutdown function to be non-nil")
	}

	if err := shutdown(ctx); err != nil {
		t.Errorf("Expected no error on shutdown, got %v", err)
	}
}

func TestInit_OverrideEnablesTracingWithoutEnvVar(t *testing.T) {
	// A --config file enabling telemetry must take effect even when
	// OTEL_ENABLED is unset, since the env var is the only other signal
	// loadConfig reads for Enabled.
	resetGlobalConfig()
	os.Unsetenv("OTEL_ENABLED")
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:0")
	defer os.Unsetenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	ctx := context.Background()
	shutdown, err := Init(ctx, &Config{Enabled: true, Protocol: "grpc"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if shutdown == nil {
		t.Fatal("Expected shutdown function to be non-nil")
	}
	if err := shutdown(ctx); err != nil {
		t.Errorf("Expected no error on shutdown, got %v", err)
	}
}

func TestEnabled(t *testing.T) {
	resetGlobalConfig()

	os.Unsetenv("OTEL_ENABLED")
	if Enabled() {
		t.Error("Expected Enabled() to return false")
	}
}

func TestEnabled_IgnoresOverride(t *testing.T) {
	// Enabled() reports the env-only baseline; it must not see the
	// --config override Init applies, since callers use it before they
	// know whether a config file will be supplied.
	resetGlobalConfig()
	os.Unsetenv("OTEL_ENABLED")
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:0")
	defer os.Unsetenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	ctx := context.Background()
	shutdown, err := Init(ctx, &Config{Enabled: true, Protocol: "grpc"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer func() { _ = shutdown(ctx) }()

	if Enabled() {
		t.Error("Expected Enabled() to ignore any pending override and return false")
	}
}

func TestGetConfig(t *testing.T) {
	resetGlobalConfig()

	os.Setenv("OTEL_SERVICE_NAME", "test-service")
	defer os.Unsetenv("OTEL_SERVICE_NAME")

	cfg := GetConfig()

	if cfg == nil {
		t.Fatal("Expected config to be non-nil")
	}

	if cfg.ServiceName != "test-service" {
		t.Errorf("Expected ServiceName 'test-service', got '%s'", cfg.ServiceName)
	}
}

// resetGlobalConfig resets the global config for testing
func resetGlobalConfig() {
	globalConfig = nil
	configOnce = sync.Once{}
}

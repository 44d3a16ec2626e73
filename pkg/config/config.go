// Package config provides configuration management for the regwindow scheduler.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// SchedulerConfig holds the register-window search tunables.
type SchedulerConfig struct {
	// DMax is the maximum allowed distance between a producer and any of
	// its users in the final linear order.
	DMax int `mapstructure:"d_max"`
	// MaxSize is the largest graph the search will accept.
	MaxSize int `mapstructure:"max_size"`
	// MaxIters bounds the validate/insert/search retry loop in the orchestrator.
	MaxIters int `mapstructure:"max_iters"`
	// Debug enables verbose per-iteration progress logging.
	Debug bool `mapstructure:"debug"`
}

// LedgerConfig controls the run-history store.
type LedgerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TelemetryConfig mirrors pkg/telemetry.Config as viper-loadable fields, used
// when a config file is preferred over OTEL_* environment variables.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
	Protocol    string `mapstructure:"protocol"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("regwindow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/regwindow")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("REGWINDOW")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values, matching the constants
// used by the reference implementation (D_MAX=7, MAX_SIZE=64).
func setDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.d_max", 7)
	v.SetDefault("scheduler.max_size", 64)
	v.SetDefault("scheduler.max_iters", 2)
	v.SetDefault("scheduler.debug", true)

	v.SetDefault("ledger.enabled", false)
	v.SetDefault("ledger.path", "./regwindow.db")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "regwindow")
	v.SetDefault("telemetry.protocol", "grpc")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scheduler.DMax < 1 {
		return fmt.Errorf("scheduler.d_max must be at least 1")
	}
	if c.Scheduler.MaxSize < 1 {
		return fmt.Errorf("scheduler.max_size must be at least 1")
	}
	if c.Scheduler.MaxIters < 0 {
		return fmt.Errorf("scheduler.max_iters must not be negative")
	}
	if c.Ledger.Enabled && c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required when ledger.enabled is true")
	}
	return nil
}

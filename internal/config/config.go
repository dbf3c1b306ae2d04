// Package config provides configuration loading for taskwave.
//
// Configuration comes from an optional YAML file overridden by TASKWAVE_*
// environment variables. Zero values are replaced by defaults before
// validation.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete taskwave configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Tasks     TasksConfig     `koanf:"tasks"`
	Events    EventsConfig    `koanf:"events"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RateLimitRPS caps mutating requests per client per second. 0 disables.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
	DisableUI      bool    `koanf:"disable_ui"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"`
	ServiceName    string   `koanf:"service_name"`
	ServiceVersion string   `koanf:"service_version"`
	Insecure       bool     `koanf:"insecure"`
	TLSSkipVerify  bool     `koanf:"tls_skip_verify"`
	SamplingRate   float64  `koanf:"sampling_rate"`
	DisableMetrics bool     `koanf:"disable_metrics"`
	DisableLogs    bool     `koanf:"disable_logs"`
	ExportInterval Duration `koanf:"export_interval"`
}

// TasksConfig controls the task store.
type TasksConfig struct {
	// Seed is "onboarding", "empty", or a path to a .yaml, .yml or .toml file.
	Seed             string `koanf:"seed"`
	WatchSeed        bool   `koanf:"watch_seed"`
	StrictCompletion bool   `koanf:"strict_completion"`
}

// EventsConfig holds domain event publishing settings. An empty NATSURL
// disables publishing.
type EventsConfig struct {
	NATSURL       string `koanf:"nats_url"`
	SubjectPrefix string `koanf:"subject_prefix"`
	Token         Secret `koanf:"token"`
}

// Seed presets.
const (
	SeedOnboarding = "onboarding"
	SeedEmpty      = "empty"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Rate limit values are negative
//   - Log format is not json or console
//   - Telemetry protocol or sampling rate is out of range
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return errors.New("rate limit values cannot be negative")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return errors.New("telemetry endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return errors.New("service name required when telemetry is enabled")
		}
	}
	switch c.Telemetry.Protocol {
	case "grpc", "http/protobuf":
	default:
		return fmt.Errorf("telemetry protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol)
	}
	if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
		return fmt.Errorf("telemetry sampling rate must be within [0, 1], got %v", c.Telemetry.SamplingRate)
	}

	if c.Tasks.Seed == "" {
		return errors.New("tasks seed cannot be empty")
	}
	if c.Tasks.WatchSeed && (c.Tasks.Seed == SeedOnboarding || c.Tasks.Seed == SeedEmpty) {
		return fmt.Errorf("watch_seed requires a seed file, got preset %q", c.Tasks.Seed)
	}

	return nil
}

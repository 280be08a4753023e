// Package worker hosts the runtime around the background refresh scheduler:
// its configuration and the probe server that reports whether it is ready.
package worker

import (
	"fmt"
	"log/slog"

	"newsdesk/internal/pkg/config"
)

var configMetrics = config.NewConfigMetrics("worker")

// Config holds process-level settings for the scheduler.
type Config struct {
	// Timezone is the IANA time zone the scheduler runs in.
	// Default: "UTC"
	Timezone string

	// HealthPort is the port of the probe server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns the default worker configuration.
func DefaultConfig() Config {
	return Config{
		Timezone:   "UTC",
		HealthPort: 9091,
	}
}

// Validate checks the configuration values and reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// HealthAddr is the listen address of the probe server.
func (c Config) HealthAddr() string {
	return fmt.Sprintf(":%d", c.HealthPort)
}

// LoadConfigFromEnv loads the worker configuration. Invalid values fall back
// to their defaults with a warning; the returned config is always usable.
//
// Environment variables:
//   - TIMEZONE: IANA time zone name (default: "UTC")
//   - HEALTH_PORT: integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()
	l := config.NewLoader(logger, configMetrics)

	cfg.Timezone = l.String("Timezone", "TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.HealthPort = l.Int("HealthPort", "HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})

	l.Done()
	return cfg
}

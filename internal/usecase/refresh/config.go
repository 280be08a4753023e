package refresh

import (
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/pkg/config"
)

var configMetrics = config.NewConfigMetrics("refresh")

// Config controls the refresh cycle and cache lifetimes.
type Config struct {
	// TTL is both the refresh interval and the lifetime of a snapshot.
	// Default: 15 minutes
	TTL time.Duration

	// EmergencyTTL is the lifetime of results computed on demand.
	// Default: 5 minutes
	EmergencyTTL time.Duration

	// Timeout bounds one full pipeline run.
	// Default: 10 minutes
	Timeout time.Duration
}

// DefaultConfig returns the default refresh configuration.
func DefaultConfig() Config {
	return Config{
		TTL:          15 * time.Minute,
		EmergencyTTL: 5 * time.Minute,
		Timeout:      10 * time.Minute,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidatePositiveDuration(c.TTL); err != nil {
		errs = append(errs, fmt.Errorf("ttl: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.EmergencyTTL); err != nil {
		errs = append(errs, fmt.Errorf("emergency ttl: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("timeout: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// Schedule returns the cron spec that runs one refresh per TTL.
func (c Config) Schedule() string {
	return "@every " + c.TTL.String()
}

// LoadConfigFromEnv loads the refresh configuration, falling back to defaults
// for invalid values.
//
// Environment variables:
//   - CACHE_TTL: duration, 1m-24h (default: 15m)
//   - EMERGENCY_CACHE_TTL: duration, 30s-1h (default: 5m)
//   - REFRESH_TIMEOUT: duration, 30s-1h (default: 10m)
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()
	l := config.NewLoader(logger, configMetrics)

	cfg.TTL = l.Duration("TTL", "CACHE_TTL", cfg.TTL, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 24*time.Hour)
	})
	cfg.EmergencyTTL = l.Duration("EmergencyTTL", "EMERGENCY_CACHE_TTL", cfg.EmergencyTTL, func(d time.Duration) error {
		return config.ValidateDuration(d, 30*time.Second, time.Hour)
	})
	cfg.Timeout = l.Duration("Timeout", "REFRESH_TIMEOUT", cfg.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 30*time.Second, time.Hour)
	})

	l.Done()
	return cfg
}

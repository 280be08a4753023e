package fetch

import (
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/pkg/config"
)

var configMetrics = config.NewConfigMetrics("fetch")

// Config controls how sources are fetched.
type Config struct {
	// Timeout bounds a single feed request attempt.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxConcurrency caps the number of sources fetched at once.
	// Zero means one goroutine per source.
	// Default: 0
	MaxConcurrency int
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxConcurrency: 0,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.MaxConcurrency, 0, 500); err != nil {
		errs = append(errs, fmt.Errorf("max concurrency: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the fetch configuration, falling back to defaults
// for invalid values.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration, 1s-2m (default: 10s)
//   - FETCH_MAX_CONCURRENCY: integer 0-500 (default: 0)
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()
	l := config.NewLoader(logger, configMetrics)

	cfg.Timeout = l.Duration("Timeout", "FETCH_TIMEOUT", cfg.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 2*time.Minute)
	})
	cfg.MaxConcurrency = l.Int("MaxConcurrency", "FETCH_MAX_CONCURRENCY", cfg.MaxConcurrency, func(v int) error {
		return config.ValidateIntRange(v, 0, 500)
	})

	l.Done()
	return cfg
}

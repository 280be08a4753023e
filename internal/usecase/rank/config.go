package rank

import (
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/pkg/config"
)

var configMetrics = config.NewConfigMetrics("rank")

// Config controls the ranking gateway.
type Config struct {
	// BatchSize is the maximum number of articles scored per run.
	// Default: 8
	BatchSize int

	// Pacing is the minimum delay between two scoring calls.
	// Cache hits do not consume it. Zero disables pacing.
	// Default: 1.5 seconds
	Pacing time.Duration

	// CacheSize is the analysis cache capacity.
	// Default: 1000
	CacheSize int

	// CacheTTL is how long a cached analysis stays valid.
	// Default: 1 hour
	CacheTTL time.Duration

	// SnippetLength bounds the content snippet sent with each request, in runes.
	// Default: 500
	SnippetLength int
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:     8,
		Pacing:        1500 * time.Millisecond,
		CacheSize:     1000,
		CacheTTL:      time.Hour,
		SnippetLength: 500,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidateIntRange(c.BatchSize, 1, 100); err != nil {
		errs = append(errs, fmt.Errorf("batch size: %w", err))
	}
	if c.Pacing < 0 {
		errs = append(errs, fmt.Errorf("pacing: must not be negative, got %v", c.Pacing))
	}
	if err := config.ValidateIntRange(c.CacheSize, 1, 1_000_000); err != nil {
		errs = append(errs, fmt.Errorf("cache size: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.CacheTTL); err != nil {
		errs = append(errs, fmt.Errorf("cache ttl: %w", err))
	}
	if err := config.ValidateIntRange(c.SnippetLength, 1, 10_000); err != nil {
		errs = append(errs, fmt.Errorf("snippet length: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the ranking configuration, falling back to defaults
// for invalid values.
//
// Environment variables:
//   - RANK_BATCH_SIZE: integer 1-100 (default: 8)
//   - RANK_PACING: duration 0-1m (default: 1.5s)
//   - ANALYSIS_CACHE_SIZE: integer 1-1000000 (default: 1000)
//   - ANALYSIS_CACHE_TTL: duration 1m-24h (default: 1h)
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()
	l := config.NewLoader(logger, configMetrics)

	cfg.BatchSize = l.Int("BatchSize", "RANK_BATCH_SIZE", cfg.BatchSize, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.Pacing = l.Duration("Pacing", "RANK_PACING", cfg.Pacing, func(d time.Duration) error {
		return config.ValidateDuration(d, 0, time.Minute)
	})
	cfg.CacheSize = l.Int("CacheSize", "ANALYSIS_CACHE_SIZE", cfg.CacheSize, func(v int) error {
		return config.ValidateIntRange(v, 1, 1_000_000)
	})
	cfg.CacheTTL = l.Duration("CacheTTL", "ANALYSIS_CACHE_TTL", cfg.CacheTTL, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 24*time.Hour)
	})

	l.Done()
	return cfg
}

// Package config provides fail-open environment loading and validators shared by
// every component configuration. A value that is missing falls back to its default
// silently; a value that is present but invalid falls back with a warning.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one configuration value.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

func fallback[T any](envKey, raw string, cause error, def T) Result[T] {
	return Result[T]{
		Value:           def,
		Warning:         fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, cause, def),
		FallbackApplied: true,
	}
}

// LoadString reads envKey and validates it. Unset or empty uses def without a warning.
func LoadString(envKey, def string, validate func(string) error) Result[string] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[string]{Value: def}
	}
	if validate != nil {
		if err := validate(raw); err != nil {
			return fallback(envKey, raw, err, def)
		}
	}
	return Result[string]{Value: raw}
}

// LoadDuration reads envKey as a Go duration string such as "90s" or "15m".
func LoadDuration(envKey string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[time.Duration]{Value: def}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, err, def)
	}
	if validate != nil {
		if err := validate(d); err != nil {
			return fallback(envKey, raw, err, def)
		}
	}
	return Result[time.Duration]{Value: d}
}

// LoadInt reads envKey as a base-10 integer.
func LoadInt(envKey string, def int, validate func(int) error) Result[int] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[int]{Value: def}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, fmt.Errorf("invalid integer format"), def)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(envKey, raw, err, def)
		}
	}
	return Result[int]{Value: v}
}

// Loader loads the fields of one component configuration, logging and counting
// every fallback it applies.
//
// Example:
//
//	l := config.NewLoader(logger, configMetrics)
//	cfg.Timeout = l.Duration("Timeout", "FETCH_TIMEOUT", cfg.Timeout, config.ValidatePositiveDuration)
//	l.Done()
type Loader struct {
	logger   *slog.Logger
	metrics  *ConfigMetrics
	fallback bool
}

// NewLoader creates a Loader. metrics may be nil.
func NewLoader(logger *slog.Logger, metrics *ConfigMetrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, metrics: metrics}
}

// String loads a string field.
func (l *Loader) String(field, envKey, def string, validate func(string) error) string {
	r := LoadString(envKey, def, validate)
	l.observe(field, envKey, r.FallbackApplied, r.Warning)
	return r.Value
}

// Duration loads a duration field.
func (l *Loader) Duration(field, envKey string, def time.Duration, validate func(time.Duration) error) time.Duration {
	r := LoadDuration(envKey, def, validate)
	l.observe(field, envKey, r.FallbackApplied, r.Warning)
	return r.Value
}

// Int loads an integer field.
func (l *Loader) Int(field, envKey string, def int, validate func(int) error) int {
	r := LoadInt(envKey, def, validate)
	l.observe(field, envKey, r.FallbackApplied, r.Warning)
	return r.Value
}

// Done records the load and reports whether any fallback was applied.
func (l *Loader) Done() bool {
	if l.metrics != nil {
		l.metrics.SetFallbackActive(l.fallback)
		l.metrics.RecordLoadTimestamp()
	}
	return l.fallback
}

func (l *Loader) observe(field, envKey string, applied bool, warning string) {
	if !applied {
		return
	}
	l.fallback = true
	if l.metrics != nil {
		l.metrics.RecordFallback(field)
	}
	l.logger.Warn("Configuration fallback applied",
		slog.String("field", field),
		slog.String("env_key", envKey),
		slog.String("warning", warning))
}

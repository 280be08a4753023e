// Package retry provides retry logic with exponential backoff and jitter.
// It helps handle transient failures gracefully by automatically retrying failed operations.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxRetries is the number of additional attempts after the first one
	MaxRetries int

	// BaseDelay is the delay before the first retry
	BaseDelay time.Duration

	// MaxDelay caps the exponential delay before jitter is applied
	MaxDelay time.Duration

	// Jitter is the fraction of delay to add as random jitter (0.0 to 1.0)
	Jitter float64
}

// DefaultConfig returns a default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     0.1,
	}
}

// FeedFetchConfig returns configuration for RSS feed fetching.
// Feeds are fetched in parallel, so retries stay short to keep the refresh cycle bounded.
func FeedFetchConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Jitter:     0.2,
	}
}

// RankingAPIConfig returns configuration for the scoring service.
// Moderate retry due to cost and upstream rate limits.
func RankingAPIConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  2 * time.Second,
		MaxDelay:   10 * time.Second,
		Jitter:     0.1,
	}
}

// SourceStoreConfig returns configuration for the feed source provider.
// Fast retry for transient connection issues.
func SourceStoreConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Jitter:     0.1,
	}
}

// Policy executes calls with retries according to its Config.
type Policy struct {
	cfg       Config
	retryable func(error) bool
	sleep     func(ctx context.Context, d time.Duration) error
	random    func() float64
}

// Option customizes a Policy.
type Option func(*Policy)

// WithRetryable replaces the default IsRetryable predicate.
func WithRetryable(fn func(error) bool) Option {
	return func(p *Policy) { p.retryable = fn }
}

// WithSleep replaces the context-aware sleep between attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Policy) { p.sleep = fn }
}

// WithRandom replaces the jitter source; fn must return values in [0, 1).
func WithRandom(fn func() float64) Option {
	return func(p *Policy) { p.random = fn }
}

// New creates a Policy from cfg.
func New(cfg Config, opts ...Option) *Policy {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	if cfg.Jitter > 1 {
		cfg.Jitter = 1
	}
	p := &Policy{
		cfg:       cfg,
		retryable: IsRetryable,
		sleep:     sleepContext,
		// #nosec G404 -- jitter does not need cryptographic randomness.
		random: rand.Float64,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the policy configuration.
func (p *Policy) Config() Config {
	return p.cfg
}

// Delay returns the wait before retry attempt i (0-indexed) for a jitter sample r in [0, 1):
// min(BaseDelay*2^i, MaxDelay) * (1 + Jitter*r).
func (p *Policy) Delay(attempt int, r float64) time.Duration {
	d := float64(p.cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if p.cfg.MaxDelay > 0 && d > float64(p.cfg.MaxDelay) {
		d = float64(p.cfg.MaxDelay)
	}
	return time.Duration(d * (1 + p.cfg.Jitter*r))
}

// Do calls fn until it succeeds, returns a non-retryable error, or MaxRetries
// additional attempts have been made. The last error is returned unchanged.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.Delay(attempt-1, p.random())
			slog.Warn("operation failed, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_retries", p.cfg.MaxRetries),
				slog.Duration("delay", delay),
				slog.Any("error", lastErr))

			if err := p.sleep(ctx, delay); err != nil {
				return fmt.Errorf("retry aborted: %w", err)
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 0 {
				slog.Info("operation succeeded after retry",
					slog.Int("attempt", attempt))
			}
			return nil
		}

		// The caller gave up; nothing to retry for.
		if ctx.Err() != nil {
			return lastErr
		}

		if !p.retryable(lastErr) {
			slog.Debug("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}
	}

	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable determines if an error is worth retrying: network errors,
// timeouts, connection resets, HTTP 5xx, 408 and 429.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	// Per-attempt timeouts surface as DeadlineExceeded.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the status is transient (5xx, 408, 429).
func (e *HTTPError) Retryable() bool {
	switch {
	case e.StatusCode >= 500 && e.StatusCode < 600:
		return true
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode == http.StatusRequestTimeout:
		return true
	}
	return false
}

// Permanent reports whether the status is a client error that must not be retried.
func (e *HTTPError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && !e.Retryable()
}

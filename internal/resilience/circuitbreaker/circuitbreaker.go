// Package circuitbreaker provides per-service circuit breakers for outbound calls.
// It uses the github.com/sony/gobreaker state machine, driven by a rolling
// time window of recent call outcomes.
package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"newsdesk/internal/observability/metrics"
)

// ErrCircuitOpen is matched by every error returned for a call the breaker refused.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// OpenError is returned when a call is rejected without being attempted.
type OpenError struct {
	Service string
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Service, ErrCircuitOpen.Error())
}

// Unwrap allows errors.Is(err, ErrCircuitOpen).
func (e *OpenError) Unwrap() error {
	return ErrCircuitOpen
}

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the logical service name for logging and metrics
	Name string

	// SuccessThreshold is the number of consecutive half-open successes that close the circuit
	SuccessThreshold uint32

	// Window is the span of the rolling window used to compute the failure rate
	Window time.Duration

	// ResetTimeout is how long the circuit stays open before a trial call is allowed
	ResetTimeout time.Duration

	// FailureThreshold is the failure ratio that trips the circuit.
	// For example, 0.6 means 60% failure rate
	FailureThreshold float64

	// MinRequests is the minimum number of calls in the window before the ratio is evaluated
	MinRequests uint32
}

// DefaultConfig returns a default configuration for circuit breakers.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		SuccessThreshold: 1,
		Window:           60 * time.Second,
		ResetTimeout:     60 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      5,
	}
}

// FeedFetchConfig returns configuration for RSS feed fetching.
// Feeds are many and individually flaky, so the breaker tolerates a higher failure rate.
func FeedFetchConfig() Config {
	return Config{
		Name:             "rss-feeds",
		SuccessThreshold: 2,
		Window:           2 * time.Minute,
		ResetTimeout:     60 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// RankingAPIConfig returns configuration for the external scoring service.
func RankingAPIConfig() Config {
	return Config{
		Name:             "ranking-api",
		SuccessThreshold: 1,
		Window:           5 * time.Minute,
		ResetTimeout:     2 * time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      3,
	}
}

// SourceStoreConfig returns configuration for the feed source provider.
func SourceStoreConfig() Config {
	return Config{
		Name:             "source-store",
		SuccessThreshold: 1,
		Window:           time.Minute,
		ResetTimeout:     30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      3,
	}
}

// Status is the operational snapshot of a breaker.
type Status struct {
	Name               string     `json:"name"`
	State              string     `json:"state"`
	FailureRatePercent float64    `json:"failure_rate_percent"`
	RecentCallCount    int        `json:"recent_call_count"`
	HalfOpenSuccesses  uint32     `json:"half_open_successes"`
	LastFailureTime    *time.Time `json:"last_failure_time,omitempty"`
}

// CircuitBreaker wraps gobreaker.CircuitBreaker with a rolling outcome window.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
	cfg     Config
	window  *window
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:   cfg.Name,
		cfg:    cfg,
		window: newWindow(cfg.Window),
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.SuccessThreshold,
		// Interval 0 keeps gobreaker's own counters from resetting; tripping is
		// decided from the rolling window instead.
		Interval: 0,
		Timeout:  cfg.ResetTimeout,
		ReadyToTrip: func(_ gobreaker.Counts) bool {
			return cb.readyToTrip()
		},
		OnStateChange: cb.onStateChange,
	}
	cb.breaker = gobreaker.NewCircuitBreaker(settings)
	metrics.SetCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return cb
}

// Execute runs the given function through the circuit breaker.
// If the circuit is open, it returns an *OpenError immediately and fn is not called.
//
// A call that ends in context.Canceled is left out of the rolling window, so
// it never moves the failure rate of a closed circuit. For a half-open trial
// it counts as a failure and the circuit reopens.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.breaker.Execute(func() (interface{}, error) {
		res, err := fn()
		if !errors.Is(err, context.Canceled) {
			cb.window.add(time.Now(), err == nil)
		}
		return res, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordCircuitBreakerRejection(cb.name)
		return nil, &OpenError{Service: cb.name}
	}
	return result, err
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Status returns the breaker's current health for operational export.
func (cb *CircuitBreaker) Status() Status {
	state := cb.breaker.State()
	counts := cb.breaker.Counts()
	calls, failures, lastFailure := cb.window.snapshot(time.Now())

	st := Status{
		Name:            cb.name,
		State:           state.String(),
		RecentCallCount: calls,
		LastFailureTime: lastFailure,
	}
	if calls > 0 {
		st.FailureRatePercent = float64(failures) / float64(calls) * 100
	}
	if state == gobreaker.StateHalfOpen {
		st.HalfOpenSuccesses = counts.ConsecutiveSuccesses
	}
	return st
}

func (cb *CircuitBreaker) readyToTrip() bool {
	calls, failures, _ := cb.window.snapshot(time.Now())
	if calls == 0 || uint32(calls) < cb.cfg.MinRequests {
		return false
	}
	return float64(failures)/float64(calls) >= cb.cfg.FailureThreshold
}

func (cb *CircuitBreaker) onStateChange(name string, from gobreaker.State, to gobreaker.State) {
	slog.Warn("circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))

	if to == gobreaker.StateClosed {
		cb.window.reset()
	}
	metrics.SetCircuitBreakerState(name, int(to))
}

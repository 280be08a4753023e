package circuitbreaker

import (
	"sync"
	"time"
)

const maxWindowEntries = 1024

type outcome struct {
	at      time.Time
	success bool
}

// window keeps call outcomes observed during the last span.
type window struct {
	mu          sync.Mutex
	span        time.Duration
	outcomes    []outcome
	lastFailure time.Time
}

func newWindow(span time.Duration) *window {
	if span <= 0 {
		span = time.Minute
	}
	return &window{span: span}
}

func (w *window) add(now time.Time, success bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.outcomes = append(w.outcomes, outcome{at: now, success: success})
	if len(w.outcomes) > maxWindowEntries {
		w.outcomes = w.outcomes[len(w.outcomes)-maxWindowEntries:]
	}
	if !success {
		w.lastFailure = now
	}
	w.pruneLocked(now)
}

// snapshot returns the call and failure counts within the span, plus the last failure time.
func (w *window) snapshot(now time.Time) (calls, failures int, lastFailure *time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
	for _, o := range w.outcomes {
		if !o.success {
			failures++
		}
	}
	if !w.lastFailure.IsZero() {
		lf := w.lastFailure
		lastFailure = &lf
	}
	return len(w.outcomes), failures, lastFailure
}

// reset clears the outcomes but keeps the last failure time for reporting.
func (w *window) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outcomes = w.outcomes[:0]
}

func (w *window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.span)
	i := 0
	for i < len(w.outcomes) && w.outcomes[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		w.outcomes = append(w.outcomes[:0], w.outcomes[i:]...)
	}
}

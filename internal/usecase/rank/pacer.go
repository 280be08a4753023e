package rank

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces successive scoring calls. Wait blocks before a call starts and
// Done is called once it has returned.
type Pacer interface {
	Wait(ctx context.Context) error
	Done()
}

// GapPacer keeps at least Interval between the end of one call and the start
// of the next, however long the call itself took.
type GapPacer struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewGapPacer creates a pacer. A non-positive interval never waits.
func NewGapPacer(interval time.Duration) *GapPacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &GapPacer{
		interval: interval,
		now:      time.Now,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Wait implements Pacer.
func (p *GapPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	l := p.limiter
	p.mu.Unlock()
	return l.Wait(ctx)
}

// Done implements Pacer. It restarts the interval from the current time.
func (p *GapPacer) Done() {
	if p.interval <= 0 {
		return
	}
	l := rate.NewLimiter(rate.Every(p.interval), 1)
	l.AllowN(p.now(), 1)

	p.mu.Lock()
	p.limiter = l
	p.mu.Unlock()
}

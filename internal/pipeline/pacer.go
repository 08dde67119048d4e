package pipeline

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// FixedDelay sleeps for a constant duration after every row.
type FixedDelay struct {
	delay time.Duration
	clock clockwork.Clock
}

func NewFixedDelay(delay time.Duration, clock clockwork.Clock) *FixedDelay {
	return &FixedDelay{delay: delay, clock: clock}
}

func (p *FixedDelay) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(p.delay):
		return nil
	}
}

// MinInterval spaces consecutive rows at least interval apart, counting the
// time already spent on the request.
type MinInterval struct {
	limiter *rate.Limiter
}

func NewMinInterval(interval time.Duration) *MinInterval {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &MinInterval{limiter: rate.NewLimiter(limit, 1)}
}

func (p *MinInterval) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

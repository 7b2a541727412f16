package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket throttle for recurring work such as watch-mode
// rescans. Allow is the hot path; Wait exists for callers that prefer to
// block instead of dropping the event.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiterPerMinute builds a limiter refilling n tokens per minute with a
// burst of one, so the first event always passes.
func NewLimiterPerMinute(n float64) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(n/60.0), 1),
	}
}

// Allow reports whether one event may proceed now.
func (l *Limiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until a token is available or ctx expires.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.WaitN(ctx, 1)
}

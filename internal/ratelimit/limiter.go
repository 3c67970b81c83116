package ratelimit

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing requests with a token bucket. A nil *Limiter allows
// everything, so callers can hold one unconditionally.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter that refills rps tokens per second and holds at
// most burst. It returns nil when rps is not positive, which disables pacing.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow checks if a request can proceed immediately.
// Returns true if a token is available and consumed
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}

// TokensAvailable returns the number of whole tokens currently in the bucket.
func (l *Limiter) TokensAvailable() int {
	if l == nil {
		return math.MaxInt
	}
	return int(math.Floor(l.limiter.Tokens()))
}

// Burst returns the bucket size.
func (l *Limiter) Burst() int {
	if l == nil {
		return 0
	}
	return l.limiter.Burst()
}

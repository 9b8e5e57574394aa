package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests to the market API. The public tickers
// endpoint is generous, but sharing one limiter across all callers keeps
// a misconfigured scheduler from hammering it.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerSecond sustained requests
// with a burst of one. A non-positive rate disables limiting entirely.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1)}
}

// Wait blocks until the limiter permits a request or the context is canceled
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may happen now without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

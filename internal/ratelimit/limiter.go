// Package ratelimit paces outgoing requests to the BLS API.
package ratelimit

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// Limiter spaces requests to a single API. A nil *Limiter never blocks.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a limiter allowing perSecond requests per second with the given
// burst. A non-positive or infinite rate yields an unlimited limiter.
func New(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 || math.IsInf(perSecond, 1) {
		limit = rate.Inf
	}
	return &Limiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until the limiter permits a request.
// It returns an error if the context is canceled before the request can proceed
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Package ratelimit implements fixed-window request counting keyed by an
// identifier string. The window counter lives behind the Counter interface so
// multi-instance deployments share a Redis counter while single-instance ones
// run on the in-process fallback.
package ratelimit

import (
	"context"
	"time"
)

// Counter increments and returns the request count for one (key, window) pair.
// Implementations must be safe for concurrent use.
type Counter interface {
	Incr(ctx context.Context, key string, windowStart int64, window time.Duration) (int64, error)
}

// Result describes a single rate-limit decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     int64 // unix seconds when the current window ends
}

type Limiter struct {
	counter Counter
	now     func() time.Time
}

func New(counter Counter) *Limiter {
	return &Limiter{counter: counter, now: time.Now}
}

// Allow records one request for the identifier and reports whether it fits in
// the current window. A failing counter backend fails open: the request is
// allowed rather than blocking all traffic.
func (l *Limiter) Allow(ctx context.Context, identifier string, max int, window time.Duration) Result {
	now := l.now().Unix()
	windowSecs := int64(window.Seconds())
	windowStart := now - now%windowSecs
	reset := windowStart + windowSecs

	count, err := l.counter.Incr(ctx, identifier, windowStart, window)
	if err != nil {
		return Result{Allowed: true, Limit: max, Remaining: max, Reset: 0}
	}

	remaining := max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(max),
		Limit:     max,
		Remaining: remaining,
		Reset:     reset,
	}
}

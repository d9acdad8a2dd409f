// Package ratelimit bounds the request rate per client key.
//
// The default limiter is a process-local fixed window counter. Windows are
// fixed, not sliding: a client can get up to twice the limit through across a
// window boundary. Deployments with several instances can substitute a shared
// implementation of Limiter (see cache.FixedWindowLimiter).
package ratelimit

import (
	"context"
	"time"
)

// Defaults for the feedback submission endpoint.
const (
	DefaultLimit  = 10
	DefaultWindow = 15 * time.Minute
)

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter decides whether a request from key may proceed and records it.
type Limiter interface {
	Check(ctx context.Context, key string) (*Result, error)
}

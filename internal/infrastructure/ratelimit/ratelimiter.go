// Package ratelimit provides sliding-window request limiting for the
// public endpoints.
package ratelimit

import "time"

// Limit describes one sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result reports a single Allow decision. RetryAfter is only meaningful
// when Allowed is false.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter answers whether a key may proceed under a limit. Keys are
// caller-scoped (IP, user ID, token digest) and opaque to the limiter.
type RateLimiter interface {
	Allow(key string, limit Limit) (Result, error)
	Reset(key string) error
}

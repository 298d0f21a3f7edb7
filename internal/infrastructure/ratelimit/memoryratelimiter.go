package ratelimit

import (
	"sync"
	"time"
)

// MemoryRateLimiter keeps per-key hit timestamps in memory. Suitable for a
// single process; multi-node deployments should use the Redis limiter.
type MemoryRateLimiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(key string, limit Limit) (Result, error) {
	if limit.Requests <= 0 || limit.Window <= 0 {
		return Result{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-limit.Window)

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= limit.Requests {
		l.hits[key] = recent
		// The window frees up when the oldest surviving hit expires.
		retryAfter := recent[0].Add(limit.Window).Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	recent = append(recent, now)
	l.hits[key] = recent
	return Result{Allowed: true, Remaining: int64(limit.Requests - len(recent))}, nil
}

func (l *MemoryRateLimiter) Reset(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, key)
	return nil
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter implements a sliding window over a Redis sorted set,
// scored by hit time in nanoseconds.
type RedisRateLimiter struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		ctx:    context.Background(),
	}
}

func (l *RedisRateLimiter) Allow(key string, limit Limit) (Result, error) {
	if limit.Requests <= 0 || limit.Window <= 0 {
		return Result{Allowed: true}, nil
	}

	now := time.Now()
	redisKey := l.redisKey(key, limit.Window)
	windowStart := now.Add(-limit.Window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(l.ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(l.ctx, redisKey)
	oldest := pipe.ZRangeWithScores(l.ctx, redisKey, 0, 0)
	if _, err := pipe.Exec(l.ctx); err != nil {
		return Result{}, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	count := zcard.Val()
	if count >= int64(limit.Requests) {
		retryAfter := time.Second
		if entries := oldest.Val(); len(entries) > 0 {
			oldestAt := time.Unix(0, int64(entries[0].Score))
			if d := oldestAt.Add(limit.Window).Sub(now); d > retryAfter {
				retryAfter = d
			}
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	pipe = l.client.Pipeline()
	pipe.ZAdd(l.ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(l.ctx, redisKey, limit.Window+time.Minute)
	if _, err := pipe.Exec(l.ctx); err != nil {
		return Result{}, fmt.Errorf("failed to record rate limit hit: %w", err)
	}

	return Result{Allowed: true, Remaining: int64(limit.Requests) - count - 1}, nil
}

func (l *RedisRateLimiter) Reset(key string) error {
	pattern := fmt.Sprintf("ratelimit:%s:*", key)

	iter := l.client.Scan(l.ctx, 0, pattern, 0).Iterator()
	for iter.Next(l.ctx) {
		if err := l.client.Del(l.ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	return nil
}

func (l *RedisRateLimiter) redisKey(key string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:%s:%s", key, window.String())
}

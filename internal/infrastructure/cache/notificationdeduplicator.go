// Package cache holds short-lived coordination state. Deduplication windows
// live here so multi-instance deployments share them through Redis.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const notificationDedupPrefix = "notify:dedup:"

// DefaultDedupWindow suppresses duplicate notifications for the same
// event/entity/recipient tuple within this period.
const DefaultDedupWindow = 60 * time.Second

// NotificationDeduplicator decides whether a notification for a given
// event/entity/recipient tuple was already delivered inside the window.
type NotificationDeduplicator interface {
	// TryAcquire atomically claims the tuple. True means this caller owns the
	// delivery; false means a duplicate arrived inside the window.
	TryAcquire(ctx context.Context, eventType, entityType, entityID string, userID uint, window time.Duration) (bool, error)
}

// RedisNotificationDeduplicator backs the window with SetNX so concurrent
// instances cannot both deliver.
type RedisNotificationDeduplicator struct {
	client *redis.Client
}

func NewRedisNotificationDeduplicator(client *redis.Client) *RedisNotificationDeduplicator {
	return &RedisNotificationDeduplicator{client: client}
}

func (d *RedisNotificationDeduplicator) TryAcquire(ctx context.Context, eventType, entityType, entityID string, userID uint, window time.Duration) (bool, error) {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	key := dedupKey(eventType, entityType, entityID, userID)

	acquired, err := d.client.SetNX(ctx, key, "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire dedup lock: %w", err)
	}
	return acquired, nil
}

// MemoryNotificationDeduplicator is the single-process fallback used when
// Redis is disabled.
type MemoryNotificationDeduplicator struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryNotificationDeduplicator() *MemoryNotificationDeduplicator {
	return &MemoryNotificationDeduplicator{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (d *MemoryNotificationDeduplicator) TryAcquire(ctx context.Context, eventType, entityType, entityID string, userID uint, window time.Duration) (bool, error) {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	key := dedupKey(eventType, entityType, entityID, userID)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if expiry, ok := d.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}

	// Opportunistic sweep keeps the map from growing without bound.
	for k, expiry := range d.seen {
		if now.After(expiry) {
			delete(d.seen, k)
		}
	}

	d.seen[key] = now.Add(window)
	return true, nil
}

func dedupKey(eventType, entityType, entityID string, userID uint) string {
	return fmt.Sprintf("%s%s:%s:%s:%d", notificationDedupPrefix, eventType, entityType, entityID, userID)
}

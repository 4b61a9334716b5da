package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const quotaKeyPrefix = "kindred:quota:"

// QuotaCache remembers when a user's like quota resets after a rejection, so
// repeat attempts inside the same window skip the store.
type QuotaCache interface {
	// ResetAt returns the cached reset time; ok is false when nothing is cached.
	ResetAt(ctx context.Context, userID uuid.UUID) (resetAt time.Time, ok bool, err error)
	// Remember caches resetAt until it passes.
	Remember(ctx context.Context, userID uuid.UUID, resetAt time.Time, ttl time.Duration) error
}

func QuotaKey(userID uuid.UUID) string {
	return quotaKeyPrefix + userID.String()
}

type redisQuotaCache struct {
	client *redis.Client
}

func NewRedisQuotaCache(client *redis.Client) QuotaCache {
	return &redisQuotaCache{client: client}
}

func (c *redisQuotaCache) ResetAt(ctx context.Context, userID uuid.UUID) (time.Time, bool, error) {
	val, err := c.client.Get(ctx, QuotaKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get quota for %s: %w", userID, err)
	}

	resetAt, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse quota for %s: %w", userID, err)
	}
	return resetAt, true, nil
}

func (c *redisQuotaCache) Remember(ctx context.Context, userID uuid.UUID, resetAt time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	err := c.client.Set(ctx, QuotaKey(userID), resetAt.UTC().Format(time.RFC3339Nano), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set quota for %s: %w", userID, err)
	}
	return nil
}

type memoryQuotaCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]time.Time
	now     func() time.Time
}

// NewMemoryQuotaCache keeps entries in process; used when Redis is not configured.
func NewMemoryQuotaCache(now func() time.Time) QuotaCache {
	if now == nil {
		now = time.Now
	}
	return &memoryQuotaCache{entries: make(map[uuid.UUID]time.Time), now: now}
}

func (c *memoryQuotaCache) ResetAt(_ context.Context, userID uuid.UUID) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resetAt, ok := c.entries[userID]
	if !ok {
		return time.Time{}, false, nil
	}
	if !resetAt.After(c.now()) {
		delete(c.entries, userID)
		return time.Time{}, false, nil
	}
	return resetAt, true, nil
}

func (c *memoryQuotaCache) Remember(_ context.Context, userID uuid.UUID, resetAt time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = resetAt
	return nil
}

type nopQuotaCache struct{}

// NewNopQuotaCache never caches anything.
func NewNopQuotaCache() QuotaCache {
	return nopQuotaCache{}
}

func (nopQuotaCache) ResetAt(context.Context, uuid.UUID) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func (nopQuotaCache) Remember(context.Context, uuid.UUID, time.Time, time.Duration) error {
	return nil
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaKey(t *testing.T) {
	id := uuid.MustParse("6f1c2a3e-7d41-4f55-9a6b-0f7e2c1d9b10")
	assert.Equal(t, "kindred:quota:6f1c2a3e-7d41-4f55-9a6b-0f7e2c1d9b10", QuotaKey(id))
}

func TestMemoryQuotaCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryQuotaCache(func() time.Time { return now })
	user := uuid.New()

	_, ok, err := c.ResetAt(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	resetAt := now.Add(time.Hour)
	require.NoError(t, c.Remember(ctx, user, resetAt, time.Hour))

	got, ok, err := c.ResetAt(ctx, user)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, resetAt.Equal(got))

	now = now.Add(time.Hour)
	_, ok, err = c.ResetAt(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok, "entry expires once resetAt is reached")
}

func TestMemoryQuotaCacheIgnoresNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryQuotaCache(nil)
	user := uuid.New()

	require.NoError(t, c.Remember(ctx, user, time.Now().Add(time.Hour), 0))
	_, ok, err := c.ResetAt(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNopQuotaCache(t *testing.T) {
	ctx := context.Background()
	c := NewNopQuotaCache()
	user := uuid.New()

	require.NoError(t, c.Remember(ctx, user, time.Now().Add(time.Hour), time.Hour))
	_, ok, err := c.ResetAt(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisQuotaCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisQuotaCache(client)
	ctx := context.Background()
	userID := uuid.New()

	_, ok, err := c.ResetAt(ctx, userID)
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, c.Remember(ctx, userID, time.Now().Add(time.Hour), time.Hour))
	assert.NoError(t, c.Remember(ctx, userID, time.Now(), 0), "non-positive ttl is skipped")
}

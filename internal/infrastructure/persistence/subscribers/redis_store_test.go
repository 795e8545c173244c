package subscribers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), newTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_AddGetRemove(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, "Reader@Example.com")
	require.NoError(t, err)
	assert.True(t, added)

	// Duplicate adds normalize case before the HSetNX.
	added, err = store.Add(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.False(t, added)

	subs, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.com", subs[0].Email)
	assert.False(t, subs[0].SubscribedAt.IsZero())

	removed, err := store.Remove(ctx, "READER@example.com")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRedisStore_GetAllSkipsBadTimestamps(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), newTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mr.HSet(subscribersKey, "good@example.com", "2025-01-15T10:00:00Z")
	mr.HSet(subscribersKey, "bad@example.com", "yesterday")

	subs, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "good@example.com", subs[0].Email)
}

func TestNewRedisStore_RejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-redis-url", newTestLogger(t))
	assert.Error(t, err)
}

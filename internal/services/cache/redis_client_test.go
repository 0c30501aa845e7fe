package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RequestIDStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRequestIDStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRequestIDStore_Ping(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRequestIDStore_ReserveKeepsFirstValue(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	first, err := store.Reserve(ctx, "cust_123:25.00:key-1", "req-a", time.Hour)
	require.NoError(t, err)
	second, err := store.Reserve(ctx, "cust_123:25.00:key-1", "req-b", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "req-a", first)
	assert.Equal(t, "req-a", second)
	assert.True(t, mr.Exists(requestIDPrefix+"cust_123:25.00:key-1"))
}

func TestRequestIDStore_ReserveAfterExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Reserve(ctx, "k", "req-a", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	got, err := store.Reserve(ctx, "k", "req-b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "req-b", got)
}

func TestRequestIDStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Reserve(context.Background(), "k", "req-a", time.Minute)
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}

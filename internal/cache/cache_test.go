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

func TestMemoryCacheExpires(t *testing.T) {
	clock := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache(30*time.Second, func() time.Time { return clock })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("fresh")))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("fresh"), got)

	clock = clock.Add(31 * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry past its TTL must not be served as fresh")
}

func TestMemoryCacheGetStaleOutlivesTTL(t *testing.T) {
	clock := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache(30*time.Second, func() time.Time { return clock })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("old")))
	clock = clock.Add(10 * time.Minute)

	got, ok := c.GetStale(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("old"), got)

	_, ok = c.GetStale(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryCacheExpiredEntrySurvivesGetMiss(t *testing.T) {
	clock := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache(30*time.Second, func() time.Time { return clock })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("old")))
	clock = clock.Add(31 * time.Second)

	_, ok := c.Get(ctx, "k")
	require.False(t, ok)

	// the fresh-read miss must not evict the entry
	got, ok := c.GetStale(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("old"), got)
}

func TestMemoryCacheLastWriterWins(t *testing.T) {
	c := NewMemoryCache(time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("one")))
	require.NoError(t, c.Set(ctx, "k", []byte("two")))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), got)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	c := NewRedisCache(client, "lists:", 30*time.Second)
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("payload")))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	// the key carries the prefix and the configured TTL
	assert.True(t, srv.Exists("lists:k"))
	srv.FastForward(31 * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

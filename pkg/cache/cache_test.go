package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newMemory(t *testing.T, opts ...MemoryOption) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(append([]MemoryOption{WithMemoryCleanup(0)}, opts...)...)
	t.Cleanup(func() { _ = mc.Close() })
	return mc
}

func newRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := NewRedisCacheWithClient(client, "test")
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestMemoryCache_RoundTripsStructs(t *testing.T) {
	ctx := context.Background()
	mc := newMemory(t)

	require.NoError(t, mc.Set(ctx, "price:current", quote{Price: 67000, Source: "coingecko"}, time.Hour))

	got, err := GetTyped[quote](ctx, mc, "price:current")
	require.NoError(t, err)
	assert.Equal(t, quote{Price: 67000, Source: "coingecko"}, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{t: time.Unix(1_700_000_000, 0)}
	mc := newMemory(t, WithMemoryClock(clock.Now))

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	clock.Advance(30 * time.Second)

	var s string
	require.NoError(t, mc.Get(ctx, "k", &s))
	assert.Equal(t, "v", s)

	clock.Advance(31 * time.Second)
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{t: time.Unix(1_700_000_000, 0)}
	mc := newMemory(t, WithMemoryMaxSize(2), WithMemoryClock(clock.Now))

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	clock.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	clock.Advance(time.Second)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	clock.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc := newMemory(t)

	require.NoError(t, mc.Set(ctx, "price:hist:2020-01", 1.0, 0))
	require.NoError(t, mc.Set(ctx, "price:hist:2020-02", 2.0, 0))
	require.NoError(t, mc.Set(ctx, "price:current", 3.0, 0))

	require.NoError(t, mc.DeleteByPattern(ctx, BuildPattern("price:hist:")))

	ok, err := mc.Exists(ctx, "price:hist:2020-01", "price:hist:2020-02")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = mc.Exists(ctx, "price:current")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCache_TryLock(t *testing.T) {
	ctx := context.Background()
	mc := newMemory(t)

	ok, err := mc.TryLock(ctx, "lock:refresh", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mc.TryLock(ctx, "lock:refresh", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mc.Unlock(ctx, "lock:refresh"))
	ok, err = mc.TryLock(ctx, "lock:refresh", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedis(t)

	require.NoError(t, rc.Set(ctx, "price:hist:2021-03", quote{Price: 45159.5, Source: "coingecko"}, 24*time.Hour))
	assert.True(t, mr.Exists("test:price:hist:2021-03"))

	got, err := GetTyped[quote](ctx, rc, "price:hist:2021-03")
	require.NoError(t, err)
	assert.Equal(t, 45159.5, got.Price)

	ttl, err := rc.TTL(ctx, "price:hist:2021-03")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestRedisCache_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedis(t)

	var q quote
	assert.ErrorIs(t, rc.Get(ctx, "nope", &q), ErrCacheMiss)

	require.NoError(t, rc.Set(ctx, "price:current", quote{Price: 1}, time.Hour))
	mr.FastForward(time.Hour + time.Second)
	assert.ErrorIs(t, rc.Get(ctx, "price:current", &q), ErrCacheMiss)

	_, err := rc.TTL(ctx, "price:current")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_DeleteByPatternAndLock(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedis(t)

	require.NoError(t, rc.Set(ctx, "price:hist:2020-01", 1, 0))
	require.NoError(t, rc.Set(ctx, "price:hist:2020-02", 2, 0))
	require.NoError(t, rc.Set(ctx, "price:current", 3, 0))

	require.NoError(t, rc.DeleteByPattern(ctx, BuildPattern("price:hist:")))
	assert.False(t, mr.Exists("test:price:hist:2020-01"))
	assert.True(t, mr.Exists("test:price:current"))

	ok, err := rc.TryLock(ctx, "lock", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = rc.TryLock(ctx, "lock", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, rc.Unlock(ctx, "lock"))
}

func TestLayeredCache_BackfillsMemoryFromRedis(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedis(t)
	lc := NewLayeredCache(rc, WithLayeredMemoryTTL(time.Minute))
	defer func() { _ = lc.memCache.Close() }()

	require.NoError(t, rc.Set(ctx, "price:current", quote{Price: 70000}, time.Hour))

	got, err := GetTyped[quote](ctx, lc, "price:current")
	require.NoError(t, err)
	assert.Equal(t, 70000.0, got.Price)

	// L1 now answers even when Redis has lost the key.
	mr.Del("test:price:current")
	got, err = GetTyped[quote](ctx, lc, "price:current")
	require.NoError(t, err)
	assert.Equal(t, 70000.0, got.Price)

	require.NoError(t, lc.Delete(ctx, "price:current"))
	_, err = GetTyped[quote](ctx, lc, "price:current")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "price:current", GenerateKey("price", "current"))
	assert.Equal(t, "price:hist:2021-03", GenerateKeyWithParams("price", "hist", "2021-03"))
}

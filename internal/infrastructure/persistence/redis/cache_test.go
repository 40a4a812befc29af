package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/pkg/circuitbreaker"
	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

// unreachableCache points at a port nothing listens on, so every round trip fails fast.
func unreachableCache(t *testing.T) *Cache {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheFromClient(client, "test:")
}

func TestConfig_AddrAndOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "cache.internal"
	cfg.Port = 6380
	cfg.DB = 2

	assert.Equal(t, "cache.internal:6380", cfg.Addr())
	opts := cfg.Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, cfg.PoolSize, opts.PoolSize)
}

func TestCache_ValidatesBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	c := unreachableCache(t)

	assert.ErrorIs(t, c.Set(ctx, "", 1, time.Minute), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.Set(ctx, "k", nil, time.Minute), ErrCacheNilValue)
	assert.ErrorIs(t, c.Set(ctx, "k", 1, -time.Second), ErrCacheInvalidTTL)
	assert.ErrorIs(t, c.Set(ctx, "k", make(chan int), time.Minute), ErrCacheSerialization)
	assert.ErrorIs(t, c.Get(ctx, "", new(int)), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.Delete(ctx, "a", ""), ErrCacheKeyEmpty)
	assert.NoError(t, c.Delete(ctx))
	_, err := c.TTL(ctx, "")
	assert.ErrorIs(t, err, ErrCacheKeyEmpty)
}

func TestCache_KeyPrefix(t *testing.T) {
	c := unreachableCache(t)
	assert.Equal(t, "test:enrollments:per_day", c.Key(KeyEnrollmentsPerDay))
}

func TestDailyCountsKey_ScopedPerRegistry(t *testing.T) {
	c := unreachableCache(t)
	a, b := enrollment.NewRegistry(), enrollment.NewRegistry()

	assert.Equal(t, "test:enrollments:per_day:"+a.ID(), c.Key(DailyCountsKey(a.ID())))
	assert.NotEqual(t, DailyCountsKey(a.ID()), DailyCountsKey(b.ID()))
}

func TestDailyCountCache_RejectsEmptyRegistryID(t *testing.T) {
	ctx := context.Background()
	cache := NewDailyCountCache(unreachableCache(t))

	_, _, err := cache.Get(ctx, "")
	assert.ErrorIs(t, err, ErrCacheKeyEmpty)
	assert.ErrorIs(t, cache.Set(ctx, "", enrollment.DailyCounts{}, time.Minute), ErrCacheKeyEmpty)
	assert.ErrorIs(t, cache.Invalidate(ctx, ""), ErrCacheKeyEmpty)
}

func TestDailyCounts_EncodesVersionAndDateKeys(t *testing.T) {
	snap := enrollment.DailyCounts{
		Version: 3,
		Counts:  map[timeutil.Date]int{{Year: 2026, Month: time.September, Day: 1}: 3},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":3,"counts":{"2026-09-01":3}}`, string(data))

	var back enrollment.DailyCounts
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, snap, back)
}

func TestDailyCountCache_ConnectionErrorIsNotAMiss(t *testing.T) {
	cache := NewDailyCountCache(unreachableCache(t))

	snap, found, err := cache.Get(context.Background(), "reg-1")

	require.Error(t, err)
	assert.False(t, found)
	assert.Nil(t, snap.Counts)
}

func TestNewCache_FailsWithoutServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.MaxRetries = -1
	cfg.DialTimeout = 200 * time.Millisecond

	_, err := NewCache(cfg)
	assert.ErrorIs(t, err, ErrCacheConnection)
}

func TestDailyCountCache_BreakerFailsFast(t *testing.T) {
	cb := circuitbreaker.CacheBreaker(nil)
	cache := NewDailyCountCache(unreachableCache(t), WithBreaker(cb))
	ctx := context.Background()

	_, _, err := cache.Get(ctx, "reg-1")
	require.Error(t, err)
	assert.Error(t, cache.Invalidate(ctx, "reg-1"))
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	_, found, err := cache.Get(ctx, "reg-1")
	assert.False(t, found)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}

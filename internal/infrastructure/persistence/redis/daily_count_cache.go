package redis

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/pkg/circuitbreaker"
	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

// KeyEnrollmentsPerDay is the key namespace of per-day enrollment counts.
// Each registry stores under KeyEnrollmentsPerDay:<registry id>.
const KeyEnrollmentsPerDay = "enrollments:per_day"

// DailyCountsKey returns the key of the counts cached for registryID.
func DailyCountsKey(registryID string) string {
	return KeyEnrollmentsPerDay + ":" + registryID
}

// TTLEnrollmentsPerDay is the default lifetime of cached per-day counts.
const TTLEnrollmentsPerDay = 5 * time.Minute

// DailyCountCache implements enrollment.DailyCountCache on top of Cache.
type DailyCountCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
}

var _ enrollment.DailyCountCache = (*DailyCountCache)(nil)

// DailyCountCacheOption configures a DailyCountCache.
type DailyCountCacheOption func(*DailyCountCache)

// WithBreaker routes every round trip through cb, so an unreachable Redis
// fails fast with circuitbreaker.ErrCircuitOpen instead of a dial timeout.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) DailyCountCacheOption {
	return func(d *DailyCountCache) { d.breaker = cb }
}

// NewDailyCountCache creates a new DailyCountCache.
func NewDailyCountCache(cache *Cache, opts ...DailyCountCacheOption) *DailyCountCache {
	d := &DailyCountCache{cache: cache}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DailyCountCache) do(ctx context.Context, fn func(context.Context) error) error {
	if d.breaker == nil {
		return fn(ctx)
	}
	return d.breaker.Execute(ctx, fn)
}

// Get returns the snapshot cached for registryID. A miss is reported as
// found=false, not an error.
func (d *DailyCountCache) Get(ctx context.Context, registryID string) (enrollment.DailyCounts, bool, error) {
	if registryID == "" {
		return enrollment.DailyCounts{}, false, ErrCacheKeyEmpty
	}

	var snap enrollment.DailyCounts
	found := true
	err := d.do(ctx, func(ctx context.Context) error {
		err := d.cache.Get(ctx, DailyCountsKey(registryID), &snap)
		if errors.Is(err, ErrCacheMiss) {
			found = false
			return nil
		}
		return err
	})
	if err != nil || !found {
		return enrollment.DailyCounts{}, false, err
	}
	if snap.Counts == nil {
		snap.Counts = make(map[timeutil.Date]int)
	}
	return snap, true, nil
}

// Set stores snap for registryID. A non-positive ttl uses TTLEnrollmentsPerDay.
func (d *DailyCountCache) Set(ctx context.Context, registryID string, snap enrollment.DailyCounts, ttl time.Duration) error {
	if registryID == "" {
		return ErrCacheKeyEmpty
	}
	if snap.Counts == nil {
		snap.Counts = make(map[timeutil.Date]int)
	}
	if ttl <= 0 {
		ttl = TTLEnrollmentsPerDay
	}
	return d.do(ctx, func(ctx context.Context) error {
		return d.cache.Set(ctx, DailyCountsKey(registryID), snap, ttl)
	})
}

// Invalidate drops the counts cached for registryID.
func (d *DailyCountCache) Invalidate(ctx context.Context, registryID string) error {
	if registryID == "" {
		return ErrCacheKeyEmpty
	}
	return d.do(ctx, func(ctx context.Context) error {
		return d.cache.Delete(ctx, DailyCountsKey(registryID))
	})
}

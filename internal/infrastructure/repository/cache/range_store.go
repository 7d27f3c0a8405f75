package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	basecache "github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

// RangeStore fronts a shared range store with the process-local cache.
// Reads go through to next once per key and front ttl, misses included.
// Writes and deletes hit next first, then the local tier.
type RangeStore struct {
	next  series.RangeStore
	cache *basecache.Store
}

func NewRangeStore(next series.RangeStore, cache *basecache.Store) *RangeStore {
	return &RangeStore{next: next, cache: cache}
}

func (r *RangeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, rangeStoreKey(key), func(ctx context.Context) (any, error) {
		value, exists, err := r.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return cachedRangeValue{value: cloneBytes(value), exists: exists}, nil
	})
	if err != nil {
		return nil, false, err
	}

	cached, _ := v.(cachedRangeValue)
	if !cached.exists {
		return nil, false, nil
	}
	return cloneBytes(cached.value), true, nil
}

func (r *RangeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.next.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	r.cache.Set(ctx, rangeStoreKey(key), cachedRangeValue{value: cloneBytes(value), exists: true})
	return nil
}

func (r *RangeStore) Delete(ctx context.Context, key string) error {
	r.cache.Delete(ctx, rangeStoreKey(key))
	return r.next.Delete(ctx, key)
}

type cachedRangeValue struct {
	value  []byte
	exists bool
}

func rangeStoreKey(key string) string {
	return "range_store:" + key
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

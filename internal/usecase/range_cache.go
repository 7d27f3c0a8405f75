package usecase

import (
	"context"
	"slices"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const (
	rangeCacheKeyPrefix = "series_range_v3_"
	defaultRangeTTL     = 6 * time.Hour
)

// RangeCacheKey is the store key for the series whose primary stage is stageID.
func RangeCacheKey(stageID int64) string {
	return rangeCacheKeyPrefix + strconv.FormatInt(stageID, 10)
}

type rangeCacheRecord struct {
	StageIDs    []int64 `json:"stage_ids"`
	StartMs     *int64  `json:"start_ms,omitempty"`
	EndMs       *int64  `json:"end_ms,omitempty"`
	ExpiresAtMs int64   `json:"expires_at_ms"`
}

// RangeCache stores resolved series windows in a RangeStore. Entries carry
// their own expiry and are validated on read; anything undecodable or stale
// is deleted and reported as a miss.
type RangeCache struct {
	store  series.RangeStore
	ttl    time.Duration
	now    func() time.Time
	logger *logging.Logger
}

func NewRangeCache(store series.RangeStore, ttl time.Duration, logger *logging.Logger) *RangeCache {
	if ttl <= 0 {
		ttl = defaultRangeTTL
	}
	return &RangeCache{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.OrDefault(logger),
	}
}

// Get returns the cached patch for primaryStageID. Store errors count as a
// miss.
func (c *RangeCache) Get(ctx context.Context, primaryStageID int64) (series.Patch, bool) {
	if c == nil || c.store == nil || primaryStageID <= 0 {
		return series.Patch{}, false
	}

	key := RangeCacheKey(primaryStageID)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "range cache read failed", "key", key, "error", err)
		return series.Patch{}, false
	}
	if !ok {
		return series.Patch{}, false
	}

	var record rangeCacheRecord
	if err := sonic.Unmarshal(raw, &record); err != nil || !record.valid() {
		c.logger.WarnContext(ctx, "discarding corrupt range cache entry", "key", key)
		c.discard(ctx, key)
		return series.Patch{}, false
	}
	if c.now().UnixMilli() >= record.ExpiresAtMs {
		c.discard(ctx, key)
		return series.Patch{}, false
	}

	return series.Patch{
		PrimaryStageID: primaryStageID,
		StageIDs:       slices.Clone(record.StageIDs),
		StartDate:      fromMillis(record.StartMs),
		EndDate:        fromMillis(record.EndMs),
	}, true
}

// Put records p under its primary stage id with an expiry of now+ttl.
func (c *RangeCache) Put(ctx context.Context, p series.Patch) error {
	if c == nil || c.store == nil || p.PrimaryStageID <= 0 {
		return nil
	}

	record := rangeCacheRecord{
		StageIDs:    slices.Clone(p.StageIDs),
		StartMs:     toMillis(p.StartDate),
		EndMs:       toMillis(p.EndDate),
		ExpiresAtMs: c.now().Add(c.ttl).UnixMilli(),
	}
	if len(record.StageIDs) == 0 {
		record.StageIDs = []int64{p.PrimaryStageID}
	}

	raw, err := sonic.Marshal(record)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, RangeCacheKey(p.PrimaryStageID), raw, c.ttl)
}

func (c *RangeCache) discard(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "range cache delete failed", "key", key, "error", err)
	}
}

func (r rangeCacheRecord) valid() bool {
	if len(r.StageIDs) == 0 || r.ExpiresAtMs <= 0 {
		return false
	}
	for _, id := range r.StageIDs {
		if id <= 0 {
			return false
		}
	}
	if (r.StartMs == nil) != (r.EndMs == nil) {
		return false
	}
	return r.StartMs == nil || *r.StartMs <= *r.EndMs
}

func toMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.UnixMilli()
	return &v
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	v := time.UnixMilli(*ms).UTC()
	return &v
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/cricket-hub/internal/platform/querybuilder"
)

const rangeCacheTable = "series_range_cache"

type rangeCacheTableModel struct {
	Value     []byte    `db:"value"`
	ExpiresAt time.Time `db:"expires_at"`
}

// RangeStore persists range cache entries in series_range_cache. Expired rows
// are filtered on read and overwritten by the next Set.
type RangeStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRangeStore(db *sqlx.DB) *RangeStore {
	return &RangeStore{db: db, now: time.Now}
}

func (r *RangeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := qb.Select("value", "expires_at").From(rangeCacheTable).
		Where(
			qb.Eq("key", key),
			qb.Expr("expires_at > ?", r.now().UTC()),
		).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get range cache query: %w", err)
	}

	var row rangeCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		if isUndefinedTable(err) {
			return nil, false, fmt.Errorf("get range cache key=%s: table %s missing, run migrations: %w", key, rangeCacheTable, err)
		}
		return nil, false, fmt.Errorf("get range cache key=%s: %w", key, err)
	}
	return row.Value, true, nil
}

func (r *RangeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := r.now().UTC()
	query, args, err := qb.InsertInto(rangeCacheTable).
		Columns("key", "value", "expires_at", "updated_at").
		Values(key, value, now.Add(ttl), now).
		OnConflictUpdate([]string{"key"}, "value", "expires_at", "updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert range cache query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert range cache key=%s: %w", key, err)
	}
	return nil
}

func (r *RangeStore) Delete(ctx context.Context, key string) error {
	query, args, err := qb.DeleteFrom(rangeCacheTable).Where(qb.Eq("key", key)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete range cache query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete range cache key=%s: %w", key, err)
	}
	return nil
}

// PurgeExpired removes rows whose expiry has passed and returns how many were
// deleted.
func (r *RangeStore) PurgeExpired(ctx context.Context) (int64, error) {
	query, args, err := qb.DeleteFrom(rangeCacheTable).
		Where(qb.Expr("expires_at <= ?", r.now().UTC())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build purge range cache query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge range cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge range cache rows affected: %w", err)
	}
	return n, nil
}

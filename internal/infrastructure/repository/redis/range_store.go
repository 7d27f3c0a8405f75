package redis

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

// RangeStore keeps range cache entries in Redis so every API replica shares
// hydration results. The ttl hint becomes the key expiry.
type RangeStore struct {
	client goredis.UniversalClient
	prefix string
}

func NewRangeStore(client goredis.UniversalClient, prefix string) *RangeStore {
	return &RangeStore{client: client, prefix: prefix}
}

func (s *RangeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if crerr.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, crerr.Wrapf(err, "redis get key=%s", key)
	}
	return raw, true, nil
}

func (s *RangeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return crerr.Wrapf(err, "redis set key=%s", key)
	}
	return nil
}

func (s *RangeStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return crerr.Wrapf(err, "redis del key=%s", key)
	}
	return nil
}

// NewClient dials addr and verifies the connection with a PING.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrapf(err, "ping redis addr=%s", addr)
	}
	return client, nil
}

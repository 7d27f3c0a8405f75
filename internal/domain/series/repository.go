package series

import (
	"context"
	"time"
)

// RangeStore is the persistent key-value tier behind the range cache. Values
// are opaque bytes; callers validate expiry themselves, ttl is only a hint for
// backends that can expire keys natively.
type RangeStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

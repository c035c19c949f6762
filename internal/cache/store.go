// Package cache provides a small time-boxed key/value store used for
// short-lived market data. Values carry their own TTL; an expired key
// behaves exactly like a missing one.
package cache

import (
	"context"
	"time"
)

// Store is the cache contract. Get reports found=false for both missing
// and expired keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

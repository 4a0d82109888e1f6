// Package cache provides the TTL byte cache used in front of slow third-party lookups.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values with a per-entry TTL. Get reports a miss with ok=false
// and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

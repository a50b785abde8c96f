package cache

import (
	"context"
	"time"
)

// BytesCache is a key/value cache for opaque payloads.
// Get reports a miss as (nil, false, nil).
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

// RateLimiter counts hits per subject inside a window. A rejected hit
// reports how long until the window resets.
type RateLimiter interface {
	Allow(ctx context.Context, subject string, limit int64, window time.Duration) (bool, time.Duration, error)
}

// Package cache provides an injected key/value cache port. The cache is
// optional at every call site: a nil Cache or an unreachable backend behaves
// like a permanent miss, never an error surfaced to the caller.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-value cache over string keys with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

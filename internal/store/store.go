// Package store provides the key-value persistence layer shared by
// sessions, the search cache and stream throttle markers.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that a key is absent or its entry has expired.
var ErrNotFound = errors.New("key not found")

// KV is the minimal key-value contract the services depend on.
// Entries may carry a TTL; an expired entry behaves as absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key. A zero ttl means the entry never expires.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

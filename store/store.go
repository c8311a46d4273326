// Package store defines the key-value store contract the token subsystem
// depends on. One-time token records and revocation entries live behind this
// interface; signed tokens have no persisted representation.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrKeyNotFound is returned by Get and GetDel when the key is absent or
// already evicted by TTL.
var ErrKeyNotFound = errors.New("key not found")

// KV is the minimal key-value store interface the token subsystem needs.
// All coordination is via per-key atomic operations; implementations must be
// safe for concurrent use.
type KV interface {
	// Set stores value under key. A positive ttl evicts the key after the
	// given duration; implementations must support millisecond resolution.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetDel atomically returns the value stored under key and deletes it,
	// or returns ErrKeyNotFound. This is the single-use consumption
	// primitive: two racing callers cannot both observe the value.
	GetDel(ctx context.Context, key string) ([]byte, error)

	// Delete removes the given keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// Scan enumerates keys matching the glob pattern in batches of at most
	// batchSize, invoking fn for each batch. Used by the cleanup sweeper.
	Scan(ctx context.Context, pattern string, batchSize int64, fn func(keys []string) error) error

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}

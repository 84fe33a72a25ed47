package kvstore

import (
	"context"
	"iter"
	"time"
)

// Store is the minimal contract the cache needs from a remote key-value store.
//
// Values are opaque bytes; serialization is the caller's concern.
type Store interface {
	// Get returns the stored value. found is false when the key does not
	// exist or has expired; absence is not an error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any existing entry.
	// A ttl <= 0 stores the value without expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys and reports how many existed.
	// Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) (int, error)

	// Scan yields every key matching a glob pattern. The sequence is lazy and
	// restartable: each range over it begins a new scan. Keys written or
	// removed during the scan may or may not be observed. On failure the
	// sequence yields a single non-nil error and stops.
	Scan(ctx context.Context, pattern string) iter.Seq2[string, error]

	// Close releases the underlying resources.
	Close() error
}

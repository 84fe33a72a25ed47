package kvstore

import "time"

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	now             func() time.Time
	cleanupInterval time.Duration
	maxEntries      int
	scanCount       int
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		now:             time.Now,
		cleanupInterval: time.Minute,
		maxEntries:      0, // 0 = unlimited
		scanCount:       100,
	}
}

// WithCleanupInterval sets how often expired entries are removed
// by the background janitor goroutine. Zero disables the janitor;
// expired entries are then dropped lazily on access.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries sets the maximum number of entries in the store.
// When the limit is reached, the least recently used entry is evicted.
// Default: 0 (unlimited).
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// WithClock overrides the time source used for expiration.
// Tests use it to move time forward without sleeping.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMemoryScanCount sets how many keys Scan inspects per internal page.
// Default: 100.
func WithMemoryScanCount(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.scanCount = n
		}
	}
}

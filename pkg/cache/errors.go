package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrSerialization is returned when a computed value cannot be encoded
	// for storage. It always reaches the caller.
	ErrSerialization = errors.New("cache: value is not serializable")

	// ErrEmptyPattern is returned by Invalidate for an empty pattern.
	ErrEmptyPattern = errors.New("cache: empty invalidation pattern")

	// ErrInvalidTTL is returned for a negative TTL.
	ErrInvalidTTL = errors.New("cache: negative ttl")

	// ErrClosed is returned when invalidation is attempted on a closed cache.
	ErrClosed = errors.New("cache: closed")
)

package kvstore

import "errors"

// Sentinel errors for store operations.
var (
	// ErrStoreUnavailable is returned when the backing store cannot be reached
	// or the connection has been lost.
	ErrStoreUnavailable = errors.New("kvstore: store unavailable")

	// ErrStoreTimeout is returned when an operation exceeds its deadline.
	ErrStoreTimeout = errors.New("kvstore: operation timed out")

	// ErrInvalidPattern is returned when a scan pattern cannot be compiled.
	ErrInvalidPattern = errors.New("kvstore: invalid pattern")
)

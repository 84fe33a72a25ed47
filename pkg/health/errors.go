package health

import "errors"

var (
	// ErrCheckFailed heads the error of an unhealthy report.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check still running when the shared timeout expired.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrRoundTrip is returned when a probe value does not read back intact.
	ErrRoundTrip = errors.New("health: store round trip mismatch")
)

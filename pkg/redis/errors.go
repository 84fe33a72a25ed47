package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Open when REDIS_URL is unset.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	// ErrFailedToParseURL covers a non-redis scheme and go-redis parse errors.
	ErrFailedToParseURL = errors.New("redis: failed to parse connection URL")
	// ErrConnectionFailed means every startup ping failed.
	ErrConnectionFailed = errors.New("redis: failed to establish connection")
	// ErrHealthcheckFailed wraps the ping error of a failed health check.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)

// Package redis opens and manages the process-wide Redis client used by the
// cache store.
//
// This package wraps [github.com/redis/go-redis/v9]. The client is created
// once at startup, shared by every request and closed at shutdown.
//
// # Configuration
//
// Settings are applied with functional options:
//
//   - WithPoolSize(n int) - maximum connections (default: 10)
//   - WithMinIdleConns(n int) - minimum idle connections (default: 2)
//   - WithMaxIdleTime(d time.Duration) - idle connection lifetime (default: 5m)
//   - WithRetry(attempts int, interval time.Duration) - startup retries (default: 3 attempts, 1s)
//   - WithReadTimeout(d time.Duration) - socket read timeout (default: 1s)
//   - WithWriteTimeout(d time.Duration) - socket write timeout (default: 1s)
//   - WithDialTimeout(d time.Duration) - connection dial timeout (default: 2s)
//
// Or from environment variables through [Config]:
//
//	var cfg redis.Config
//	if err := env.Parse(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.OpenConfig(ctx, cfg)
//
// # Health Checks
//
// [Healthcheck] returns a func(context.Context) error that pings the server,
// bounded by one second when the caller sets no deadline.
//
// # Lifetime
//
// The client is owned by the store adapter wrapping it: closing a
// kvstore.Redis closes the client.
//
// # Error Handling
//
//   - [ErrEmptyConnectionURL] - empty connection URL
//   - [ErrFailedToParseURL] - invalid URL format or scheme
//   - [ErrConnectionFailed] - connection failed after all retry attempts
//   - [ErrHealthcheckFailed] - ping failed
//
// Errors are wrapped using [errors.Join] to preserve the original cause.
package redis

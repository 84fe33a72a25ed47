package kvstore

import "time"

// RedisOption configures the Redis store.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix           string
	operationTimeout time.Duration
	scanCount        int64
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		prefix:           "",
		operationTimeout: time.Second,
		scanCount:        100,
	}
}

// WithPrefix sets a key prefix for all operations.
// Keys are stored as "{prefix}:{key}" and scanned keys are returned
// without the prefix.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithOperationTimeout bounds every store call. Calls exceeding it fail
// with ErrStoreTimeout. Zero leaves the caller's context deadline in charge.
// Default: 1 second.
func WithOperationTimeout(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.operationTimeout = d
	}
}

// WithScanCount sets the COUNT hint passed to SCAN for each page.
// Default: 100.
func WithScanCount(n int) RedisOption {
	return func(o *redisOptions) {
		if n > 0 {
			o.scanCount = int64(n)
		}
	}
}

// RedisConfig holds store settings read from the environment
// (caarlos0/env tags). Connection settings live in pkg/redis.Config.
type RedisConfig struct {
	Prefix string `env:"REDIS_KEY_PREFIX"`

	// Per-call deadline (storeOperationTimeoutMs).
	OperationTimeout time.Duration `env:"REDIS_OPERATION_TIMEOUT" envDefault:"1s"`

	ScanCount int `env:"REDIS_SCAN_COUNT" envDefault:"100"`
}

// Options converts the config into store options.
func (c RedisConfig) Options() []RedisOption {
	opts := []RedisOption{WithOperationTimeout(c.OperationTimeout)}
	if c.Prefix != "" {
		opts = append(opts, WithPrefix(c.Prefix))
	}
	if c.ScanCount > 0 {
		opts = append(opts, WithScanCount(c.ScanCount))
	}
	return opts
}

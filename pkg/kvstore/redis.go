package kvstore

import (
	"context"
	"errors"
	"iter"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis client.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
}

// NewRedis creates a Redis-backed store.
// The client should be obtained from pkg/redis.Open; its lifecycle is
// shared with the store, so Close closes the client.
//
// Example:
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	if err != nil {
//	    return err
//	}
//	store := kvstore.NewRedis(client,
//	    kvstore.WithPrefix("feed"),
//	    kvstore.WithOperationTimeout(500*time.Millisecond),
//	)
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Redis{client: client, opts: o}
}

// Get retrieves a value by key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, classify(err)
	}

	return data, true, nil
}

// Set stores value with SET EX semantics. A ttl <= 0 stores without expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	// Redis interprets 0 as no expiration; negative values have special
	// meaning (KEEPTTL) and must not reach the client.
	return classify(r.client.Set(ctx, r.prefixedKey(key), value, max(ttl, 0)).Err())
}

// Delete removes keys in a single DEL call.
func (r *Redis) Delete(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = r.prefixedKey(key)
	}

	n, err := r.client.Del(ctx, full...).Result()
	if err != nil {
		return 0, classify(err)
	}

	return int(n), nil
}

// Scan walks the keyspace with SCAN MATCH, one page per round trip.
// SCAN does not block the server and may return a key more than once.
func (r *Redis) Scan(ctx context.Context, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		match := r.prefixedKey(pattern)
		var cursor uint64

		for {
			keys, next, err := r.scanPage(ctx, cursor, match)
			if err != nil {
				yield("", err)
				return
			}

			for _, key := range keys {
				if !yield(r.trimPrefix(key), nil) {
					return
				}
			}

			cursor = next
			if cursor == 0 {
				return
			}
		}
	}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) scanPage(ctx context.Context, cursor uint64, match string) ([]string, uint64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	keys, next, err := r.client.Scan(ctx, cursor, match, r.opts.scanCount).Result()
	if err != nil {
		return nil, 0, classify(err)
	}

	return keys, next, nil
}

func (r *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.operationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.operationTimeout)
}

func (r *Redis) prefixedKey(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

func (r *Redis) trimPrefix(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, r.opts.prefix+":")
}

// classify maps client errors onto the store taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Join(ErrStoreTimeout, err)
	}

	return errors.Join(ErrStoreUnavailable, err)
}

var _ Store = (*Redis)(nil)

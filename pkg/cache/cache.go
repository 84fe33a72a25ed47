package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/feedcache/pkg/kvstore"
)

// Cache is a cache-aside layer over a key-value store. It serves reads
// through GetOrCompute and clears derived entries through Invalidate.
//
// A Cache is constructed once per process and passed to every consumer.
// Store failures never surface to readers: the producer is the fallback.
type Cache struct {
	store  kvstore.Store
	opts   *options
	group  singleflight.Group
	closed atomic.Bool
}

// New creates a cache over store. Close closes the store.
//
// Example:
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	if err != nil {
//	    return err
//	}
//	c := cache.New(kvstore.NewRedis(client),
//	    cache.WithDefaultTTL(time.Minute),
//	    cache.WithLogger(log),
//	)
//	defer c.Close()
func New(store kvstore.Store, opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Cache{store: store, opts: o}
}

// DefaultTTL returns the expiry applied when GetOrCompute gets a zero TTL.
func (c *Cache) DefaultTTL() time.Duration {
	return c.opts.defaultTTL
}

// Close closes the underlying store. Close is idempotent.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.store.Close()
}

// GetOrCompute returns the value cached under key, or calls producer on a
// miss and stores its result for ttl. A zero ttl uses the default TTL.
//
// An unreachable or slow store is treated as a miss. A failed write after a
// miss is observed but not returned. Producer errors are returned unchanged
// and nothing is cached. A result the codec cannot encode fails with
// ErrSerialization.
//
// Concurrent misses for the same key each call producer unless the cache was
// built WithSingleFlight.
func GetOrCompute[V any](ctx context.Context, c *Cache, key string, ttl time.Duration, producer func(ctx context.Context) (V, error)) (V, error) {
	var zero V

	if ttl < 0 {
		return zero, ErrInvalidTTL
	}
	if ttl == 0 {
		ttl = c.opts.defaultTTL
	}

	if c.closed.Load() {
		return producer(ctx)
	}

	if v, ok := lookup[V](ctx, c, key); ok {
		return v, nil
	}

	if !c.opts.singleFlight {
		return fill(ctx, c, key, ttl, producer)
	}

	// The shared fill outlives any one caller; each caller stops waiting
	// when its own context is done.
	ch := c.group.DoChan(key, func() (any, error) {
		return fill(context.WithoutCancel(ctx), c, key, ttl, producer)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}
	if v, ok := res.Val.(V); ok {
		return v, nil
	}

	// Same key shared by callers with different value types.
	return fill(ctx, c, key, ttl, producer)
}

// lookup reports a hit only when the stored bytes decode into V.
// Undecodable entries are treated as misses and overwritten by the fill.
func lookup[V any](ctx context.Context, c *Cache, key string) (V, bool) {
	var v V

	start := time.Now()
	data, found, err := c.store.Get(ctx, key)
	ev := Event{Op: OpGet, Key: key, Latency: time.Since(start)}

	switch {
	case err != nil:
		ev.Outcome, ev.Err = OutcomeError, err
	case !found:
		ev.Outcome = OutcomeMiss
	default:
		if err := c.opts.codec.Unmarshal(data, &v); err != nil {
			ev.Outcome, ev.Err = OutcomeError, serializationError(err)
			break
		}
		ev.Outcome = OutcomeHit
		c.opts.observer.Observe(ctx, ev)
		return v, true
	}

	c.opts.observer.Observe(ctx, ev)
	var zero V
	return zero, false
}

func fill[V any](ctx context.Context, c *Cache, key string, ttl time.Duration, producer func(ctx context.Context) (V, error)) (V, error) {
	var zero V

	start := time.Now()
	v, err := producer(ctx)
	ev := Event{Op: OpCompute, Key: key, Latency: time.Since(start), Outcome: OutcomeOK}
	if err != nil {
		ev.Outcome, ev.Err = OutcomeError, err
		c.opts.observer.Observe(ctx, ev)
		return zero, err
	}
	c.opts.observer.Observe(ctx, ev)

	data, err := c.opts.codec.Marshal(v)
	if err != nil {
		err = serializationError(err)
		c.opts.observer.Observe(ctx, Event{Op: OpSet, Key: key, Outcome: OutcomeError, Err: err})
		return zero, err
	}

	start = time.Now()
	err = c.store.Set(ctx, key, data, ttl)
	ev = Event{Op: OpSet, Key: key, Latency: time.Since(start), Outcome: OutcomeOK}
	if err != nil {
		ev.Outcome, ev.Err = OutcomeError, err
	}
	c.opts.observer.Observe(ctx, ev)

	return v, nil
}

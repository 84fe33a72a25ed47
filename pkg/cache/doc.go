// Package cache implements a cache-aside read-through layer with
// pattern invalidation over a [kvstore.Store].
//
// Reads go through [GetOrCompute]: a hit decodes the stored bytes, a miss
// calls the producer (normally a query against the system of record) and
// stores its result with a TTL. Writes commit to the system of record first
// and then call [Cache.Invalidate] with the glob patterns the mutation
// affects, so the next read recomputes.
//
// # Usage
//
//	c := cache.New(kvstore.NewRedis(client), cache.WithLogger(log))
//	defer c.Close()
//
//	page, err := cache.GetOrCompute(ctx, c, cachekey.Posts(1, 10, viewer), 0,
//	    func(ctx context.Context) (FeedPage, error) {
//	        return posts.List(ctx, 1, 10, viewer)
//	    })
//
//	// after a post was created
//	_, _ = c.Invalidate(ctx, "posts:page=*:limit=*:user=*")
//
// # Failure Model
//
// The store is an accelerator, never a source of truth:
//
//   - Get failures (unavailable, timeout) are treated as misses.
//   - Set failures after a miss are reported to the [Observer] only.
//   - Producer errors are returned unchanged and never cached.
//   - Values the codec cannot encode fail with [ErrSerialization].
//   - Invalidate returns store errors; write paths log and continue.
//
// # TTL
//
// A zero TTL passed to GetOrCompute uses the default (60 seconds unless
// [WithDefaultTTL] says otherwise). Negative TTLs are rejected with
// [ErrInvalidTTL]. Expiry is owned by the store.
//
// # Concurrency
//
// Concurrent misses for one key each run the producer and the last write
// wins. [WithSingleFlight] collapses them into one producer call per key.
// A read racing an invalidation may still return the previous value; the
// TTL bounds how long that lasts.
//
// # Observability
//
// Every store interaction produces an [Event]. [NewLogObserver] writes them
// through log/slog; see package cachemetrics for Prometheus counters.
package cache

// Package kvstore defines the minimal key-value contract used by the cache
// layer and provides Redis and in-memory implementations.
//
// # Interface
//
// The [Store] interface has five operations:
//
//   - Get(ctx, key) ([]byte, bool, error) - absence is reported by found=false, not an error
//   - Set(ctx, key, value, ttl) error - overwrite with expiry (ttl <= 0 never expires)
//   - Delete(ctx, keys...) (int, error) - batch delete, missing keys are ignored
//   - Scan(ctx, pattern) iter.Seq2[string, error] - lazy glob scan, paginated internally
//   - Close() error
//
// # Redis Store
//
// Use [NewRedis] with a client from [github.com/dmitrymomot/feedcache/pkg/redis]:
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	if err != nil {
//	    return err
//	}
//	store := kvstore.NewRedis(client,
//	    kvstore.WithPrefix("feed"),
//	    kvstore.WithOperationTimeout(500*time.Millisecond),
//	    kvstore.WithScanCount(200),
//	)
//
// Every call runs under the operation timeout. Scan issues SCAN MATCH COUNT
// page by page, so memory use does not grow with the keyspace.
//
// # In-Memory Store
//
// Use [NewMemory] for tests and single-process deployments. Patterns follow
// Redis glob rules (*, ? and [...] classes). [WithClock] injects a time source
// so expiry can be simulated:
//
//	now := time.Now()
//	store := kvstore.NewMemory(kvstore.WithClock(func() time.Time { return now }))
//
// # Scanning
//
//	for key, err := range store.Scan(ctx, "posts:page=*") {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(key)
//	}
//
// # Error Handling
//
//   - [ErrStoreUnavailable] - the store cannot be reached or is closed
//   - [ErrStoreTimeout] - the operation exceeded its deadline
//   - [ErrInvalidPattern] - the scan pattern is malformed
//
// Client errors are joined with the sentinel, so both [errors.Is] checks and
// the original cause are preserved.
package kvstore

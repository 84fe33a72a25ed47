package health

import (
	"bytes"
	"context"
	"time"

	"github.com/dmitrymomot/feedcache/pkg/kvstore"
)

const probeTTL = 10 * time.Second

// StoreRoundTrip returns a check that writes, reads back and deletes a
// probe key. The key must sit outside every cache namespace.
func StoreRoundTrip(store kvstore.Store, key string) CheckFunc {
	return func(ctx context.Context) error {
		probe := []byte(time.Now().UTC().Format(time.RFC3339Nano))

		if err := store.Set(ctx, key, probe, probeTTL); err != nil {
			return err
		}
		got, ok, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		if _, err := store.Delete(ctx, key); err != nil {
			return err
		}
		if !ok || !bytes.Equal(got, probe) {
			return ErrRoundTrip
		}
		return nil
	}
}

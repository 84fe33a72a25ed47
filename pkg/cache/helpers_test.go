package cache_test

import (
	"context"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedcache/pkg/cache"
	"github.com/dmitrymomot/feedcache/pkg/kvstore"
)

// fakeClock is a manually advanced time source for the memory store.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// faultStore wraps a memory store and fails selected operations.
type faultStore struct {
	*kvstore.Memory

	mu        sync.Mutex
	getErr    error
	setErr    error
	deleteErr error
	scanErr   error
	sets      int
	deletes   [][]string
}

func newFaultStore(clock *fakeClock) *faultStore {
	opts := []kvstore.MemoryOption{kvstore.WithCleanupInterval(0)}
	if clock != nil {
		opts = append(opts, kvstore.WithClock(clock.Now))
	}
	return &faultStore{Memory: kvstore.NewMemory(opts...)}
}

func (s *faultStore) fail(get, set, del, scan error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr, s.setErr, s.deleteErr, s.scanErr = get, set, del, scan
}

func (s *faultStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return nil, false, err
	}
	return s.Memory.Get(ctx, key)
}

func (s *faultStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.sets++
	err := s.setErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Memory.Set(ctx, key, value, ttl)
}

func (s *faultStore) Delete(ctx context.Context, keys ...string) (int, error) {
	s.mu.Lock()
	s.deletes = append(s.deletes, append([]string(nil), keys...))
	err := s.deleteErr
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return s.Memory.Delete(ctx, keys...)
}

func (s *faultStore) Scan(ctx context.Context, pattern string) iter.Seq2[string, error] {
	s.mu.Lock()
	err := s.scanErr
	s.mu.Unlock()
	if err != nil {
		return func(yield func(string, error) bool) {
			yield("", err)
		}
	}
	return s.Memory.Scan(ctx, pattern)
}

func (s *faultStore) setCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *faultStore) deleteBatches() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

var _ kvstore.Store = (*faultStore)(nil)

// recorder collects observed events.
type recorder struct {
	mu     sync.Mutex
	events []cache.Event
}

func (r *recorder) Observe(_ context.Context, e cache.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) find(op cache.Op) []cache.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []cache.Event
	for _, e := range r.events {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}

func seed(t *testing.T, s kvstore.Store, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, s.Set(context.Background(), key, []byte(`"v"`), time.Minute))
	}
}

func exists(t *testing.T, s kvstore.Store, key string) bool {
	t.Helper()
	_, found, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return found
}

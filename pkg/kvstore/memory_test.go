package kvstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedcache/pkg/kvstore"
)

// fakeClock is a manually advanced time source.
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

func collect(t *testing.T, s kvstore.Store, pattern string) []string {
	t.Helper()

	var keys []string
	for key, err := range s.Scan(context.Background(), pattern) {
		require.NoError(t, err)
		keys = append(keys, key)
	}
	return keys
}

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("absent key is not an error", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0))
		defer s.Close()

		val, found, err := s.Get(context.Background(), "missing")
		require.NoError(t, err)
		require.False(t, found)
		require.Nil(t, val)
	})

	t.Run("returns stored value", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0))
		defer s.Close()

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "post:1", []byte(`{"id":"1"}`), time.Minute))

		val, found, err := s.Get(ctx, "post:1")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, `{"id":"1"}`, string(val))
	})

	t.Run("overwrites existing entry", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0))
		defer s.Close()

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("a"), time.Minute))
		require.NoError(t, s.Set(ctx, "k", []byte("b"), time.Minute))

		val, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "b", string(val))
		require.Equal(t, 1, s.Len())
	})

	t.Run("stored value is isolated from caller buffer", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0))
		defer s.Close()

		ctx := context.Background()
		buf := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", buf, time.Minute))
		buf[0] = 'x'

		val, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "abc", string(val))
	})
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	t.Run("entry expires after ttl", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0), kvstore.WithClock(clock.Now))
		defer s.Close()

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("v"), 60*time.Second))

		clock.Advance(59 * time.Second)
		_, found, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)

		clock.Advance(time.Second)
		_, found, err = s.Get(ctx, "k")
		require.NoError(t, err)
		require.False(t, found, "entry must not be served at storedAt+ttl")
	})

	t.Run("non-positive ttl never expires", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0), kvstore.WithClock(clock.Now))
		defer s.Close()

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
		clock.Advance(24 * time.Hour)

		_, found, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)
	})

	t.Run("expired keys are not scanned", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0), kvstore.WithClock(clock.Now))
		defer s.Close()

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "a:1", []byte("v"), time.Second))
		require.NoError(t, s.Set(ctx, "a:2", []byte("v"), time.Hour))
		clock.Advance(2 * time.Second)

		require.Equal(t, []string{"a:2"}, collect(t, s, "a:*"))
	})

	t.Run("janitor removes expired entries", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(5 * time.Millisecond))
		defer s.Close()

		require.NoError(t, s.Set(context.Background(), "k", []byte("v"), time.Millisecond))
		require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestMemory_Delete(t *testing.T) {
	t.Parallel()

	t.Run("returns number of removed keys", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0))
		defer s.Close()

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Minute))

		n, err := s.Delete(ctx, "a", "b", "missing")
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, 0, s.Len())
	})

	t.Run("no keys is a no-op", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0))
		defer s.Close()

		n, err := s.Delete(context.Background())
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestMemory_Scan(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, s kvstore.Store, keys ...string) {
		t.Helper()
		for _, key := range keys {
			require.NoError(t, s.Set(context.Background(), key, []byte("v"), time.Minute))
		}
	}

	t.Run("matches glob patterns", func(t *testing.T) {
		t.Parallel()

		// Parallel subtests run after this function returns.
		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0))
		t.Cleanup(func() { _ = s.Close() })

		seed(t, s,
			"posts:page=1:limit=10:user=guest",
			"posts:page=2:limit=10:user=u1",
			"userPosts:alice:page=1:limit=15:user=guest",
			"post:1",
		)

		testCases := []struct {
			name    string
			pattern string
			want    []string
		}{
			{
				name:    "trailing wildcard crosses segments",
				pattern: "posts:page=*:limit=*",
				want:    []string{"posts:page=1:limit=10:user=guest", "posts:page=2:limit=10:user=u1"},
			},
			{
				name:    "embedded wildcards with fixed viewer",
				pattern: "posts:page=*:limit=*:user=u1",
				want:    []string{"posts:page=2:limit=10:user=u1"},
			},
			{
				name:    "single character wildcard",
				pattern: "post:?",
				want:    []string{"post:1"},
			},
			{
				name:    "literal key",
				pattern: "userPosts:alice:page=1:limit=15:user=guest",
				want:    []string{"userPosts:alice:page=1:limit=15:user=guest"},
			},
			{
				name:    "no match",
				pattern: "users:*",
				want:    nil,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				require.Equal(t, tc.want, collect(t, s, tc.pattern))
			})
		}
	})

	t.Run("paginates and is restartable", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0), kvstore.WithMemoryScanCount(2))
		defer s.Close()

		seed(t, s, "k:1", "k:2", "k:3", "k:4", "k:5")

		seq := s.Scan(context.Background(), "k:*")

		var first []string
		for key, err := range seq {
			require.NoError(t, err)
			first = append(first, key)
		}

		var second []string
		for key, err := range seq {
			require.NoError(t, err)
			second = append(second, key)
		}

		require.Len(t, first, 5)
		require.Equal(t, first, second)
	})

	t.Run("tolerates deletion during scan", func(t *testing.T) {
		t.Parallel()

		s := kvstore.NewMemory(kvstore.WithCleanupInterval(0), kvstore.WithMemoryScanCount(1))
		defer s.Close()

		seed(t, s, "k:1", "k:2", "k:3")

		ctx := context.Background()
		var seen []string
		for key, err := range s.Scan(ctx, "k:*") {
			require.NoError(t, err)
			seen = append(seen, key)
			if key == "k:1" {
				_, err := s.Delete(ctx, "k:2")
				require.NoError(t, err)
			}
		}

		require.Equal(t, []string{"k:1", "k:3"}, seen)
	})
}

func TestMemory_MaxEntries(t *testing.T) {
	t.Parallel()

	s := kvstore.NewMemory(kvstore.WithCleanupInterval(0), kvstore.WithMaxEntries(2))
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Minute))

	_, _, err := s.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "c", []byte("3"), time.Minute))

	_, found, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found, "a should still exist (recently used)")

	_, found, err = s.Get(ctx, "b")
	require.NoError(t, err)
	require.False(t, found, "b should have been evicted")
}

func TestMemory_Close(t *testing.T) {
	t.Parallel()

	s := kvstore.NewMemory()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")

	ctx := context.Background()

	_, _, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, kvstore.ErrStoreUnavailable)

	err = s.Set(ctx, "k", []byte("v"), time.Minute)
	require.ErrorIs(t, err, kvstore.ErrStoreUnavailable)

	_, err = s.Delete(ctx, "k")
	require.ErrorIs(t, err, kvstore.ErrStoreUnavailable)
}

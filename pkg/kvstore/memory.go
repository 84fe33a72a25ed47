package kvstore

import (
	"bytes"
	"container/list"
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/gobwas/glob"
)

// entry holds a stored value with its expiration time and key.
type entry struct {
	expiresAt time.Time // zero value = never expires
	value     []byte
	key       string
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory is an in-process Store with TTL expiration, Redis-style glob scans
// and optional LRU eviction when a maximum entry count is configured.
//
// The most recently written or read keys are at the front of the eviction
// list; the least recently used are at the back.
type Memory struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     *memoryOptions
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates a new in-memory store.
//
// Example:
//
//	store := kvstore.NewMemory(
//	    kvstore.WithCleanupInterval(30 * time.Second),
//	    kvstore.WithMaxEntries(10000),
//	)
//	defer store.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, false, ErrStoreUnavailable
	}

	elem, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}

	e := elem.Value.(*entry)
	if e.expired(m.opts.now()) {
		m.removeElement(elem)
		return nil, false, nil
	}

	m.eviction.MoveToFront(elem)

	return bytes.Clone(e.value), true, nil
}

// Set stores a copy of value under key. A ttl <= 0 never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreUnavailable
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.opts.now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry)
		e.value = bytes.Clone(value)
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.eviction.Back(); oldest != nil {
			m.removeElement(oldest)
		}
	}

	e := &entry{key: key, value: bytes.Clone(value), expiresAt: expiresAt}
	m.items[key] = m.eviction.PushFront(e)

	return nil
}

// Delete removes the given keys and returns how many live entries were removed.
func (m *Memory) Delete(_ context.Context, keys ...string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreUnavailable
	}

	now := m.opts.now()
	n := 0
	for _, key := range keys {
		elem, ok := m.items[key]
		if !ok {
			continue
		}
		if !elem.Value.(*entry).expired(now) {
			n++
		}
		m.removeElement(elem)
	}

	return n, nil
}

// Scan yields live keys matching pattern in lexical order.
// Keys are listed once per range and then re-checked page by page,
// so entries removed mid-scan are skipped.
func (m *Memory) Scan(_ context.Context, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		g, err := glob.Compile(pattern)
		if err != nil {
			yield("", errors.Join(ErrInvalidPattern, err))
			return
		}

		candidates, err := m.snapshot(g)
		if err != nil {
			yield("", err)
			return
		}

		for page := range slices.Chunk(candidates, m.opts.scanCount) {
			live, err := m.live(page)
			if err != nil {
				yield("", err)
				return
			}
			for _, key := range live {
				if !yield(key, nil) {
					return
				}
			}
		}
	}
}

// Len returns the number of entries held, including not yet collected
// expired ones.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor and rejects further operations. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

func (m *Memory) snapshot(g glob.Glob) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrStoreUnavailable
	}

	keys := make([]string, 0, len(m.items))
	for key := range m.items {
		if g.Match(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	return keys, nil
}

func (m *Memory) live(keys []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrStoreUnavailable
	}

	now := m.opts.now()
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		elem, ok := m.items[key]
		if !ok || elem.Value.(*entry).expired(now) {
			continue
		}
		out = append(out, key)
	}

	return out, nil
}

// janitor periodically removes expired entries.
func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	for elem := m.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).expired(now) {
			m.removeElement(elem)
		}
		elem = prev
	}
}

// removeElement drops elem from both the index and the eviction list.
// Caller must hold the mutex.
func (m *Memory) removeElement(elem *list.Element) {
	m.eviction.Remove(elem)
	delete(m.items, elem.Value.(*entry).key)
}

var _ Store = (*Memory)(nil)

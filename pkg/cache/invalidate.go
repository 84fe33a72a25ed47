package cache

import (
	"context"
	"time"
)

// Invalidate deletes every key matching a glob pattern and returns how many
// were removed. Keys are deleted in batches of at most the scan batch size
// while the scan is still running.
//
// A pattern that matches nothing is a successful no-op. On a store failure
// the keys removed so far are counted and the store error is returned;
// callers on the write path log it and carry on.
func (c *Cache) Invalidate(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		return 0, ErrEmptyPattern
	}
	if c.closed.Load() {
		return 0, ErrClosed
	}

	start := time.Now()
	n, err := c.invalidate(ctx, pattern)

	ev := Event{
		Op:      OpInvalidate,
		Pattern: pattern,
		Count:   n,
		Latency: time.Since(start),
		Outcome: OutcomeOK,
	}
	if err != nil {
		ev.Outcome, ev.Err = OutcomeError, err
	}
	c.opts.observer.Observe(ctx, ev)

	return n, err
}

func (c *Cache) invalidate(ctx context.Context, pattern string) (int, error) {
	removed := 0
	batch := make([]string, 0, c.opts.scanBatchSize)

	flush := func() error {
		n, err := c.store.Delete(ctx, batch...)
		removed += n
		batch = batch[:0]
		return err
	}

	for key, err := range c.store.Scan(ctx, pattern) {
		if err != nil {
			return removed, err
		}

		batch = append(batch, key)
		if len(batch) < c.opts.scanBatchSize {
			continue
		}
		if err := flush(); err != nil {
			return removed, err
		}
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return removed, err
		}
	}

	return removed, nil
}

package invalidation

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/feedcache/pkg/logger"
)

// Cache is the part of the read-through cache the invalidator needs.
type Cache interface {
	Invalidate(ctx context.Context, pattern string) (int, error)
}

// Failure is a pattern whose invalidation did not complete.
type Failure struct {
	Err     error
	Pattern string
}

// Result summarizes one Apply call.
type Result struct {
	Patterns []string
	Failed   []Failure
	Removed  int
}

// OK reports whether every pattern was invalidated.
func (r Result) OK() bool {
	return len(r.Failed) == 0
}

// Option configures the invalidator.
type Option func(*Invalidator)

// WithConcurrency bounds how many patterns are invalidated in parallel.
// Default: 4.
func WithConcurrency(n int) Option {
	return func(i *Invalidator) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithLogger sets the logger used to report failed invalidations.
func WithLogger(log *slog.Logger) Option {
	return func(i *Invalidator) {
		if log != nil {
			i.log = log
		}
	}
}

// Invalidator applies the policy table to a cache after writes commit.
type Invalidator struct {
	cache       Cache
	log         *slog.Logger
	concurrency int
}

// New creates an invalidator over cache.
func New(cache Cache, opts ...Option) *Invalidator {
	inv := &Invalidator{
		cache:       cache,
		log:         logger.NewNope(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Apply invalidates every pattern the mutation affects. Cache failures are
// logged and collected in the result, never returned: the write already
// committed and stays committed. An invalid mutation is logged and yields
// an empty result.
func (inv *Invalidator) Apply(ctx context.Context, m Mutation) Result {
	// Cache observer records for this mutation carry its kind too.
	ctx = logger.ContextWithAttrs(ctx, slog.String("mutation", string(m.Kind)))

	patterns, err := Patterns(m)
	if err != nil {
		inv.log.WarnContext(ctx, "skipping cache invalidation",
			slog.String("error", err.Error()),
		)
		return Result{}
	}

	res := Result{Patterns: patterns}
	var mu sync.Mutex

	// Errors are collected per pattern so one failure never stops siblings.
	var g errgroup.Group
	g.SetLimit(inv.concurrency)

	for _, pattern := range patterns {
		g.Go(func() error {
			n, err := inv.cache.Invalidate(ctx, pattern)

			mu.Lock()
			defer mu.Unlock()

			res.Removed += n
			if err != nil {
				res.Failed = append(res.Failed, Failure{Pattern: pattern, Err: err})
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range res.Failed {
		inv.log.WarnContext(ctx, "cache invalidation failed",
			slog.String("pattern", f.Pattern),
			slog.String("error", f.Err.Error()),
		)
	}
	if res.OK() {
		inv.log.DebugContext(ctx, "cache invalidated",
			slog.Int("patterns", len(patterns)),
			slog.Int("removed", res.Removed),
		)
	}

	return res
}

// AfterCommit runs commit and, only if it succeeds, applies the policy for
// the mutation it describes. commit's error is returned unchanged and
// leaves the cache untouched.
//
//	err := inv.AfterCommit(ctx, func(ctx context.Context) (invalidation.Mutation, error) {
//	    if err := posts.Delete(ctx, id); err != nil {
//	        return invalidation.Mutation{}, err
//	    }
//	    return invalidation.Mutation{Kind: invalidation.PostDeleted, UserID: uid, Username: name, PostID: id}, nil
//	})
func (inv *Invalidator) AfterCommit(ctx context.Context, commit func(ctx context.Context) (Mutation, error)) error {
	m, err := commit(ctx)
	if err != nil {
		return err
	}
	inv.Apply(ctx, m)
	return nil
}

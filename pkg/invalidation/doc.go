// Package invalidation maps committed writes to the cache key patterns they
// make stale and clears them.
//
// [Patterns] is a pure function over a [Mutation]. [Invalidator] runs the
// patterns against a cache concurrently and absorbs cache failures, since
// the system of record has already committed:
//
//	inv := invalidation.New(c, invalidation.WithLogger(log))
//
//	err := inv.AfterCommit(ctx, func(ctx context.Context) (invalidation.Mutation, error) {
//	    p, err := posts.Create(ctx, input)
//	    if err != nil {
//	        return invalidation.Mutation{}, err
//	    }
//	    return invalidation.Mutation{Kind: invalidation.PostCreated, UserID: p.AuthorID, Username: p.AuthorName}, nil
//	})
//
// Invalidation never runs for a write that failed to commit.
package invalidation

// Package health runs named dependency checks in parallel and aggregates
// the result.
//
// Any func(context.Context) error is a check, so closures such as
// redis.Healthcheck plug in directly. [StoreRoundTrip] additionally proves
// the cache store accepts writes, not just pings.
//
//	report := health.Run(ctx, health.Checks{
//	    "redis":     redis.Healthcheck(client),
//	    "roundtrip": health.StoreRoundTrip(store, "health:probe"),
//	}, health.WithTimeout(2*time.Second), health.WithLogger(log))
//	if err := report.Err(); err != nil {
//	    return err
//	}
//
// All checks share one timeout. A check still running when it expires is
// reported unhealthy with [ErrCheckTimeout]; failures are logged at warn.
package health

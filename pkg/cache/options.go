package cache

import (
	"log/slog"
	"time"
)

// Option configures the cache.
type Option func(*options)

type options struct {
	codec         Codec
	observer      Observer
	defaultTTL    time.Duration
	scanBatchSize int
	singleFlight  bool
}

func defaultOptions() *options {
	return &options{
		codec:         JSON{},
		observer:      nopObserver{},
		defaultTTL:    60 * time.Second,
		scanBatchSize: 100,
		singleFlight:  false,
	}
}

// WithDefaultTTL sets the expiry used when GetOrCompute is called with a
// zero TTL.
// Default: 60 seconds.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.defaultTTL = d
		}
	}
}

// WithScanBatchSize bounds how many keys a single delete request carries
// during invalidation.
// Default: 100.
func WithScanBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.scanBatchSize = n
		}
	}
}

// WithCodec replaces the JSON codec.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithObserver installs a hook that receives one Event per store
// interaction. Use Observers to attach more than one.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLogger is shorthand for WithObserver(NewLogObserver(log)).
func WithLogger(log *slog.Logger) Option {
	return WithObserver(NewLogObserver(log))
}

// WithSingleFlight makes concurrent misses for the same key share one
// producer call. Without it every miss computes independently.
//
// The shared producer keeps the first caller's context values but not its
// cancellation or deadline, so one caller giving up does not fail the
// others. A caller whose context ends returns its context error without
// waiting for the producer.
func WithSingleFlight() Option {
	return func(o *options) {
		o.singleFlight = true
	}
}

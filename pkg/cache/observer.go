package cache

import (
	"context"
	"log/slog"
	"time"
)

// Op names the store interaction an Event describes.
type Op string

const (
	OpGet        Op = "get"
	OpCompute    Op = "compute"
	OpSet        Op = "set"
	OpInvalidate Op = "invalidate"
)

// Outcome is the result of an Op.
type Outcome string

const (
	OutcomeHit   Outcome = "hit"
	OutcomeMiss  Outcome = "miss"
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Event is a structured record of a single cache operation.
// Key is set for get, compute and set; Pattern and Count for invalidate.
type Event struct {
	Err     error
	Op      Op
	Outcome Outcome
	Key     string
	Pattern string
	Latency time.Duration
	Count   int
}

// Observer receives cache events. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

type nopObserver struct{}

func (nopObserver) Observe(context.Context, Event) {}

type multiObserver []Observer

func (m multiObserver) Observe(ctx context.Context, e Event) {
	for _, o := range m {
		o.Observe(ctx, e)
	}
}

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	clean := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			clean = append(clean, o)
		}
	}
	return clean
}

type logObserver struct {
	log *slog.Logger
}

// NewLogObserver writes every event as a structured slog record.
// Hits, misses and successful writes are logged at debug level; store
// failures at warn, since they are absorbed by the cache.
func NewLogObserver(log *slog.Logger) Observer {
	if log == nil {
		return nopObserver{}
	}
	return logObserver{log: log.With(slog.String("component", "cache"))}
}

func (o logObserver) Observe(ctx context.Context, e Event) {
	attrs := []slog.Attr{
		slog.String("op", string(e.Op)),
		slog.String("outcome", string(e.Outcome)),
		slog.Duration("latency", e.Latency),
	}
	if e.Key != "" {
		attrs = append(attrs, slog.String("key", e.Key))
	}
	if e.Op == OpInvalidate {
		attrs = append(attrs, slog.String("pattern", e.Pattern), slog.Int("count", e.Count))
	}

	level := slog.LevelDebug
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
		// Producer failures are the caller's to report.
		if e.Op != OpCompute {
			level = slog.LevelWarn
		}
	}

	o.log.LogAttrs(ctx, level, "cache "+string(e.Op), attrs...)
}

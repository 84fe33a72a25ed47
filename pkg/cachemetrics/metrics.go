package cachemetrics

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/feedcache/pkg/cache"
	"github.com/dmitrymomot/feedcache/pkg/cachekey"
)

// Default latency buckets in seconds. Store calls are expected well below
// the operation timeout.
var defaultBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// Observer exports cache events as Prometheus metrics.
type Observer struct {
	operations  *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	invalidated *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func New(reg prometheus.Registerer, namespace string) (*Observer, error) {
	o := &Observer{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "operations_total",
				Help:      "Cache operations by op, key namespace and outcome",
			},
			[]string{"op", "namespace", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "operation_duration_seconds",
				Help:      "Latency of cache operations",
				Buckets:   defaultBuckets,
			},
			[]string{"op", "namespace"},
		),
		invalidated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "invalidated_keys_total",
				Help:      "Keys removed by pattern invalidation",
			},
			[]string{"namespace"},
		),
	}

	for _, c := range []prometheus.Collector{o.operations, o.latency, o.invalidated} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Observe implements cache.Observer.
func (o *Observer) Observe(_ context.Context, e cache.Event) {
	ns := namespaceOf(e)

	o.operations.WithLabelValues(string(e.Op), ns, string(e.Outcome)).Inc()
	if e.Latency > 0 {
		o.latency.WithLabelValues(string(e.Op), ns).Observe(e.Latency.Seconds())
	}
	if e.Op == cache.OpInvalidate && e.Count > 0 {
		o.invalidated.WithLabelValues(ns).Add(float64(e.Count))
	}
}

// namespaceOf keeps label cardinality bounded: only declared namespaces
// become label values.
func namespaceOf(e cache.Event) string {
	s := e.Key
	if e.Op == cache.OpInvalidate {
		s = e.Pattern
	}

	s, _, _ = strings.Cut(s, ":")

	if ns := cachekey.Namespace(s); ns.Valid() {
		return s
	}
	return "other"
}

var _ cache.Observer = (*Observer)(nil)

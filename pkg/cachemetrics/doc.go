// Package cachemetrics exports cache events as Prometheus metrics.
//
//	obs, err := cachemetrics.New(prometheus.DefaultRegisterer, "feed")
//	if err != nil {
//	    return err
//	}
//	c := cache.New(store, cache.WithObserver(cache.Observers(obs, cache.NewLogObserver(log))))
//
// Metrics, all labelled by key namespace:
//
//   - <ns>_cache_operations_total{op,namespace,outcome}
//   - <ns>_cache_operation_duration_seconds{op,namespace}
//   - <ns>_cache_invalidated_keys_total{namespace}
package cachemetrics

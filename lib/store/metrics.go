package store

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

// storeMetrics bundles the per-store counters. Counters are labeled by the
// attribute name so several stores can share one process cleanly; stores
// without a configured name share the unnamed series.
type storeMetrics struct {
	bufferHits     *metrics.Counter // lookups answered from the write buffer
	mediumLoads    *metrics.Counter // batch load calls issued to the medium
	valuesLoaded   *metrics.Counter // values returned by medium loads
	valuesFlushed  *metrics.Counter // values written by Sync
	cacheEvictions *metrics.Counter // evictions from a bounded BufferedStore cache
	divergences    *metrics.Counter // per-key value divergence across destinations
}

func newStoreMetrics(name string) *storeMetrics {
	counter := func(metric string) *metrics.Counter {
		return metrics.GetOrCreateCounter(fmt.Sprintf(`chainstore_%s_total{store=%q}`, metric, name))
	}
	return &storeMetrics{
		bufferHits:     counter("buffer_hits"),
		mediumLoads:    counter("medium_loads"),
		valuesLoaded:   counter("values_loaded"),
		valuesFlushed:  counter("values_flushed"),
		cacheEvictions: counter("cache_evictions"),
		divergences:    counter("divergent_values"),
	}
}

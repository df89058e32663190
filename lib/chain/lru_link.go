package chain

import (
	"github.com/jhprinz/chainstore/lib/cache"
)

// --------------------------------------------------------------------------
// LRULink (bounded layer)
// --------------------------------------------------------------------------

// LRULink follows the CacheLink protocol but is backed by a bounded
// least-recently-used cache instead of an unbounded map, so a long-running
// chain keeps a hot working set without growing without limit.
//
// Thread-safety: not thread-safe.
type LRULink[K comparable] struct {
	cache    *cache.LRU[K, Value]
	fallback Link[K]
}

// NewLRULink creates a bounded layer with the given capacity in front of
// fallback. A non-positive capacity selects cache.DefaultCapacity. fallback
// may be nil for a standalone bounded cache.
func NewLRULink[K comparable](capacity int, fallback Link[K]) *LRULink[K] {
	return &LRULink[K]{
		cache:    cache.New[K, Value](capacity),
		fallback: fallback,
	}
}

// Cache exposes the backing LRU, e.g. to register an eviction callback.
func (l *LRULink[K]) Cache() *cache.LRU[K, Value] {
	return l.cache
}

// Get answers the batch from the LRU and delegates misses to the fallback,
// caching the replacements.
func (l *LRULink[K]) Get(keys []K) ([]Value, error) {
	local := make([]Value, len(keys))
	for i, k := range keys {
		if v, ok := l.cache.Get(k); ok {
			local[i] = v
		}
	}
	return ResolveMisses(keys, local, l.fallback, l.Set)
}

// Set stores all non-Absent values in the LRU, evicting least-recently-used
// entries when over capacity.
func (l *LRULink[K]) Set(keys []K, values []Value) error {
	for i, k := range keys {
		if !values[i].IsAbsent() {
			l.cache.Set(k, values[i])
		}
	}
	return nil
}

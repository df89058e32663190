package chain

// --------------------------------------------------------------------------
// CacheLink (unbounded exact-match layer)
// --------------------------------------------------------------------------

// CacheLink is an unbounded in-memory exact-match layer. It answers what it
// holds, forwards the unresolved rest to its fallback (if any) and caches
// whatever the fallback produced.
//
// Thread-safety: not thread-safe.
type CacheLink[K comparable] struct {
	data     map[K]Value
	fallback Link[K]
}

// NewCacheLink creates an exact-match cache layer in front of fallback.
// fallback may be nil for a standalone cache.
func NewCacheLink[K comparable](fallback Link[K]) *CacheLink[K] {
	return &CacheLink[K]{
		data:     make(map[K]Value),
		fallback: fallback,
	}
}

// Get answers the batch from the local map and delegates misses to the
// fallback, caching the replacements.
func (l *CacheLink[K]) Get(keys []K) ([]Value, error) {
	local := make([]Value, len(keys))
	for i, k := range keys {
		if v, ok := l.data[k]; ok {
			local[i] = v
		}
	}
	return ResolveMisses(keys, local, l.fallback, l.Set)
}

// Set stores all non-Absent values in the local map.
func (l *CacheLink[K]) Set(keys []K, values []Value) error {
	for i, k := range keys {
		if !values[i].IsAbsent() {
			l.data[k] = values[i]
		}
	}
	return nil
}

// Contains reports whether the local map holds a value for key. The fallback
// is not consulted.
func (l *CacheLink[K]) Contains(key K) bool {
	_, ok := l.data[key]
	return ok
}

// Len returns the number of locally held values.
func (l *CacheLink[K]) Len() int {
	return len(l.data)
}

// Clear drops all locally held values. The fallback is untouched.
func (l *CacheLink[K]) Clear() {
	clear(l.data)
}

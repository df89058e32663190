package store

import (
	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
)

// --------------------------------------------------------------------------
// BufferedStore (cache + persistent link)
// --------------------------------------------------------------------------

// BufferedStore composes an exact-match in-memory cache in front of a Store,
// following the chain protocol: the cache answers what it holds, the Store
// answers the rest, and replacements fill back into the faster layer. Per
// distinct key at most one medium round-trip is needed while the value stays
// cache-resident.
//
// Fill-back is write-through: a value surfacing from below is written into
// both the local cache and the Store's write buffer, but only once the key
// has a resolved offset for the underlying medium. Values for unresolved
// keys stay transient for the request that produced them.
//
// Thread-safety: not thread-safe.
type BufferedStore[K Key] struct {
	cache chain.Link[K]
	store *Store[K]
}

// NewBufferedStore creates a buffered persistent link over med. opts may be
// nil for defaults. A positive CacheCapacity bounds the local cache with LRU
// eviction; otherwise the cache grows without limit.
func NewBufferedStore[K Key](med medium.Medium, opts *Options[K]) *BufferedStore[K] {
	if opts == nil {
		opts = DefaultOptions[K]()
	}
	st := NewStore(med, opts)

	var cache chain.Link[K]
	if opts.CacheCapacity > 0 {
		lru := chain.NewLRULink[K](opts.CacheCapacity, nil)
		lru.Cache().OnEvict(func(K, chain.Value) {
			st.met.cacheEvictions.Inc()
		})
		cache = lru
	} else {
		cache = chain.NewCacheLink[K](nil)
	}

	return &BufferedStore[K]{
		cache: cache,
		store: st,
	}
}

// Store returns the persistent layer.
func (b *BufferedStore[K]) Store() *Store[K] {
	return b.store
}

// --------------------------------------------------------------------------
// Chain Protocol
// --------------------------------------------------------------------------

// Get follows the chain protocol through the cache+store composition.
func (b *BufferedStore[K]) Get(keys []K) ([]chain.Value, error) {
	// the cache layer has no fallback of its own, so this is pure local
	// resolution and cannot fail
	local, err := b.cache.Get(keys)
	if err != nil {
		return nil, err
	}
	return chain.ResolveMisses(keys, local, chain.Link[K](b.store), b.addNew)
}

// Set writes through to both layers for every key with a resolved offset.
func (b *BufferedStore[K]) Set(keys []K, values []chain.Value) error {
	return b.addNew(keys, values)
}

// addNew is the fill-back hook: only keys with a resolved offset for the
// underlying medium are written, into cache and write buffer both.
func (b *BufferedStore[K]) addNew(keys []K, values []chain.Value) error {
	var (
		eligibleKeys   []K
		eligibleValues []chain.Value
	)
	for i, k := range keys {
		if values[i].IsAbsent() {
			continue
		}
		if _, ok := b.store.Resolve(k); !ok {
			continue
		}
		eligibleKeys = append(eligibleKeys, k)
		eligibleValues = append(eligibleValues, values[i])
	}
	if len(eligibleKeys) == 0 {
		return nil
	}

	if err := b.cache.Set(eligibleKeys, eligibleValues); err != nil {
		return err
	}
	return b.store.Set(eligibleKeys, eligibleValues)
}

// --------------------------------------------------------------------------
// Flushing and Prefetch
// --------------------------------------------------------------------------

// Sync flushes the persistent layer's write buffer.
func (b *BufferedStore[K]) Sync() error {
	return b.store.Sync()
}

// CacheAll bulk-loads the medium's full value range and fans the loaded
// values into the local cache, keyed by reconstructing the key object living
// at each offset. Requires the KeyFromOffset option.
func (b *BufferedStore[K]) CacheAll() error {
	if b.store.opts.KeyFromOffset == nil {
		return medium.NewError(medium.RetCInvalidOperation,
			"CacheAll requires the KeyFromOffset option")
	}

	values, err := b.store.LoadAll()
	if err != nil {
		return err
	}
	for offset, v := range values {
		if v.IsAbsent() {
			continue
		}
		if key, ok := b.store.opts.KeyFromOffset(uint64(offset)); ok {
			if err := b.cache.Set([]K{key}, []chain.Value{v}); err != nil {
				return err
			}
		}
	}
	return nil
}

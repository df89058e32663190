package store

import (
	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
)

// --------------------------------------------------------------------------
// MultiStore (fan-out over a dynamic destination set)
// --------------------------------------------------------------------------

// MediumProvider constructs (or looks up) the medium behind a destination
// handle when the MultiStore discovers a destination it has no sub-store for.
type MediumProvider func(h medium.Handle) (medium.Medium, error)

// MultiStore fans one logical attribute out over a dynamic set of backing
// destinations, one BufferedStore per registered medium. The destination set
// is derived from a scope object's offset-map handles and lazily reconciled
// before every operation whenever the tracked count disagrees with the live
// count.
//
// Per-key aggregation is conjunctive: a key's result is non-Absent only if
// every currently-registered destination reports non-Absent for it; the first
// destination's concrete value (in ascending handle order) is the
// representative result. Divergent concrete values across destinations are
// counted and logged but otherwise preserved.
//
// Removing a destination discards its sub-store without an implicit flush;
// callers needing durability must Sync before the destination set shrinks.
//
// Thread-safety: not thread-safe.
type MultiStore[K Key] struct {
	scope    medium.Ref
	provider MediumProvider
	opts     *Options[K]
	stores   map[medium.Handle]*BufferedStore[K]

	// keyFromOffset reconstructs the key at an offset of a specific
	// destination; an offset alone is ambiguous across media.
	keyFromOffset func(h medium.Handle, offset uint64) (K, bool)
}

// NewMultiStore creates a fan-out link whose destination set tracks the scope
// object's registered handles. provider is consulted for every newly
// discovered destination; opts configures each sub-store and may be nil.
func NewMultiStore[K Key](scope medium.Ref, provider MediumProvider, opts *Options[K]) (*MultiStore[K], error) {
	if opts == nil {
		opts = DefaultOptions[K]()
	}
	m := &MultiStore[K]{
		scope:    scope,
		provider: provider,
		opts:     opts,
		stores:   make(map[medium.Handle]*BufferedStore[K]),
	}
	if err := m.Refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetKeyFromOffset registers the per-destination key reconstruction used by
// CacheAll. Existing sub-stores are rebuilt so the hook applies everywhere;
// their unflushed buffers are discarded, so Sync first if durability matters.
func (m *MultiStore[K]) SetKeyFromOffset(fn func(h medium.Handle, offset uint64) (K, bool)) error {
	m.keyFromOffset = fn
	m.stores = make(map[medium.Handle]*BufferedStore[K])
	return m.Refresh()
}

// Destinations returns the number of currently tracked destinations.
func (m *MultiStore[K]) Destinations() int {
	return len(m.stores)
}

// --------------------------------------------------------------------------
// Destination Reconciliation
// --------------------------------------------------------------------------

// Refresh reconciles the sub-store set with the scope object's live handles:
// stale destinations are dropped (without a flush) and new ones get a freshly
// constructed BufferedStore.
func (m *MultiStore[K]) Refresh() error {
	live := make(map[medium.Handle]struct{})
	for _, h := range m.scope.Handles() {
		live[h] = struct{}{}
	}

	for h := range m.stores {
		if _, ok := live[h]; !ok {
			if buffered := m.stores[h].Store().BufferLen(); buffered > 0 {
				log.Warningf("multistore %q: dropping destination %d with %d unflushed values",
					m.opts.Name, h, buffered)
			}
			delete(m.stores, h)
		}
	}

	for h := range live {
		if _, ok := m.stores[h]; !ok {
			med, err := m.provider(h)
			if err != nil {
				return err
			}
			m.stores[h] = NewBufferedStore(med, m.subOptions(h))
			log.Debugf("multistore %q: added destination %d", m.opts.Name, h)
		}
	}
	return nil
}

// subOptions derives the options for one destination's sub-store, binding the
// per-destination key reconstruction to its handle.
func (m *MultiStore[K]) subOptions(h medium.Handle) *Options[K] {
	opts := *m.opts
	if m.keyFromOffset != nil {
		fn := m.keyFromOffset
		opts.KeyFromOffset = func(offset uint64) (K, bool) {
			return fn(h, offset)
		}
	}
	return &opts
}

// refreshIfStale reconciles only when the tracked destination count disagrees
// with the live count.
func (m *MultiStore[K]) refreshIfStale() error {
	if len(m.scope.Handles()) != len(m.stores) {
		return m.Refresh()
	}
	return nil
}

// handleOrder returns the tracked handles in ascending order, so reduction
// picks a stable representative destination.
func (m *MultiStore[K]) handleOrder() []medium.Handle {
	handles := make([]medium.Handle, 0, len(m.stores))
	for _, h := range m.scope.Handles() {
		if _, ok := m.stores[h]; ok {
			handles = append(handles, h)
		}
	}
	return handles
}

// --------------------------------------------------------------------------
// Chain Protocol
// --------------------------------------------------------------------------

// Get queries every destination with the full batch and reduces per key:
// Absent anywhere means Absent overall, otherwise the first destination's
// value is used. With zero destinations the whole batch is Absent.
func (m *MultiStore[K]) Get(keys []K) ([]chain.Value, error) {
	if err := m.refreshIfStale(); err != nil {
		return nil, err
	}
	if len(m.stores) == 0 {
		return chain.AbsentBatch(len(keys)), nil
	}

	var out []chain.Value
	for _, h := range m.handleOrder() {
		res, err := m.stores[h].Get(keys)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = res
			continue
		}
		for i := range out {
			switch {
			case out[i].IsAbsent():
				// stays Absent
			case res[i].IsAbsent():
				out[i] = chain.Absent
			case !out[i].Equal(res[i]):
				// conservative policy: keep the representative value, but a
				// divergent destination usually points at a writer that
				// skipped a Sync
				m.stores[h].Store().met.divergences.Inc()
				log.Warningf("multistore %q: destination %d diverges for key %v",
					m.opts.Name, h, keys[i])
			}
		}
	}
	return out, nil
}

// Set forwards the batch to every destination's sub-store.
func (m *MultiStore[K]) Set(keys []K, values []chain.Value) error {
	if err := m.refreshIfStale(); err != nil {
		return err
	}
	for _, h := range m.handleOrder() {
		if err := m.stores[h].Set(keys, values); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Flushing and Prefetch
// --------------------------------------------------------------------------

// Sync fans out to every destination; a no-op with zero destinations.
func (m *MultiStore[K]) Sync() error {
	if err := m.refreshIfStale(); err != nil {
		return err
	}
	for _, h := range m.handleOrder() {
		if err := m.stores[h].Sync(); err != nil {
			return err
		}
	}
	return nil
}

// CacheAll fans out to every destination; a no-op with zero destinations.
func (m *MultiStore[K]) CacheAll() error {
	if err := m.refreshIfStale(); err != nil {
		return err
	}
	for _, h := range m.handleOrder() {
		if err := m.stores[h].CacheAll(); err != nil {
			return err
		}
	}
	return nil
}

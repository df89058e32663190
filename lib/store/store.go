package store

import (
	"sort"

	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("store")

// --------------------------------------------------------------------------
// Store (persistent chain link)
// --------------------------------------------------------------------------

// Store is a chain link backed by one slow medium that only supports
// ordered-batch access. Lookups resolve each key's offset, sort the pending
// offsets ascending for the batch load and un-sort the results back into
// request order. Writes accumulate in an in-memory buffer until Sync (or a
// configured buffer size) flushes them in one ordered batch.
//
// A Store is typically the fallback terminus below an exact-match cache (see
// BufferedStore); it satisfies chain.Link[K].
//
// Thread-safety: not thread-safe.
type Store[K Key] struct {
	med    medium.Medium
	opts   *Options[K]
	buffer map[K]chain.Value
	met    *storeMetrics
}

// NewStore creates a persistent link over med. opts may be nil for defaults.
func NewStore[K Key](med medium.Medium, opts *Options[K]) *Store[K] {
	if opts == nil {
		opts = DefaultOptions[K]()
	}
	return &Store[K]{
		med:    med,
		opts:   opts,
		buffer: make(map[K]chain.Value),
		met:    newStoreMetrics(opts.Name),
	}
}

// Medium returns the backing medium.
func (s *Store[K]) Medium() medium.Medium {
	return s.med
}

// BufferLen returns the number of buffered, not yet flushed values.
func (s *Store[K]) BufferLen() int {
	return len(s.buffer)
}

// Resolve returns the key's offset within this store's medium. A key without
// an entry has no persisted position here; that is a miss, never an error.
func (s *Store[K]) Resolve(key K) (uint64, bool) {
	return key.Offset(s.med.Handle())
}

// --------------------------------------------------------------------------
// Chain Protocol
// --------------------------------------------------------------------------

// Get answers a batch: buffered keys directly, unresolvable keys as Absent,
// and the rest via one offset-sorted batch load against the medium, with
// results mapped back into request order.
func (s *Store[K]) Get(keys []K) ([]chain.Value, error) {
	out := make([]chain.Value, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	// positions per offset: duplicate keys in a batch collapse onto one
	// loadable offset, keeping the medium call strictly ascending
	positions := make(map[uint64][]int)
	for i, k := range keys {
		if v, ok := s.buffer[k]; ok {
			out[i] = v
			s.met.bufferHits.Inc()
			continue
		}
		if offset, ok := s.Resolve(k); ok {
			positions[offset] = append(positions[offset], i)
		}
		// unresolved keys stay Absent without a medium access
	}
	if len(positions) == 0 {
		return out, nil
	}

	offsets := make([]uint64, 0, len(positions))
	for offset := range positions {
		offsets = append(offsets, offset)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	// the medium only guarantees correct results for ascending access
	if err := medium.ValidateBatch(offsets, nil); err != nil {
		return nil, err
	}
	values, err := s.med.GetListValue(offsets)
	if err != nil {
		return nil, err
	}
	s.met.mediumLoads.Inc()
	s.met.valuesLoaded.Add(len(values))

	for i, offset := range offsets {
		for _, pos := range positions[offset] {
			out[pos] = values[i]
		}
	}
	return out, nil
}

// Set buffers all non-Absent values whose key has a resolved offset for this
// medium; values for unresolvable keys are dropped (they cannot be placed
// this way). Exceeding a configured MaxBufferSize triggers an automatic Sync.
func (s *Store[K]) Set(keys []K, values []chain.Value) error {
	for i, k := range keys {
		if values[i].IsAbsent() {
			continue
		}
		if _, ok := s.Resolve(k); !ok {
			continue
		}
		s.buffer[k] = values[i]
	}

	if s.opts.MaxBufferSize > 0 && len(s.buffer) > s.opts.MaxBufferSize {
		log.Debugf("store %q: buffer size %d exceeds %d, auto-syncing",
			s.opts.Name, len(s.buffer), s.opts.MaxBufferSize)
		return s.Sync()
	}
	return nil
}

// --------------------------------------------------------------------------
// Flushing and Prefetch
// --------------------------------------------------------------------------

// Sync flushes every buffered value with a resolved offset to the medium in
// one ascending-ordered batch write, then clears the entire buffer. Buffered
// entries whose key never resolved an offset are not flushable and are
// discarded with the clear. On a medium error the buffer is left intact.
func (s *Store[K]) Sync() error {
	flushable := make(map[uint64]chain.Value)
	for k, v := range s.buffer {
		if offset, ok := s.Resolve(k); ok {
			flushable[offset] = v
		}
	}

	if len(flushable) > 0 {
		offsets := make([]uint64, 0, len(flushable))
		for offset := range flushable {
			offsets = append(offsets, offset)
		}
		sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

		values := make([]chain.Value, len(offsets))
		for i, offset := range offsets {
			values[i] = flushable[offset]
		}

		if err := medium.ValidateBatch(offsets, values); err != nil {
			return err
		}
		if err := s.med.SetListValue(offsets, values); err != nil {
			return err
		}
		s.met.valuesFlushed.Add(len(values))
		log.Debugf("store %q: flushed %d values", s.opts.Name, len(values))
	}

	s.buffer = make(map[K]chain.Value)
	return nil
}

// LoadAll loads the medium's full value range in one ordered batch call. The
// returned slice is indexed by offset; never-written offsets hold Absent. An
// empty medium yields an empty slice without a medium access.
func (s *Store[K]) LoadAll() ([]chain.Value, error) {
	size := s.med.Size()
	if size == 0 {
		return []chain.Value{}, nil
	}

	offsets := make([]uint64, size)
	for i := range offsets {
		offsets[i] = uint64(i)
	}
	values, err := s.med.GetListValue(offsets)
	if err != nil {
		return nil, err
	}
	s.met.mediumLoads.Inc()
	s.met.valuesLoaded.Add(len(values))
	return values, nil
}

// CacheAll primes the write buffer with the medium's full value range,
// avoiding per-key loads for subsequent lookups. Requires the KeyFromOffset
// option to reconstruct the key living at each offset.
func (s *Store[K]) CacheAll() error {
	if s.opts.KeyFromOffset == nil {
		return medium.NewError(medium.RetCInvalidOperation,
			"CacheAll requires the KeyFromOffset option")
	}

	values, err := s.LoadAll()
	if err != nil {
		return err
	}
	for offset, v := range values {
		if v.IsAbsent() {
			continue
		}
		if key, ok := s.opts.KeyFromOffset(uint64(offset)); ok {
			s.buffer[key] = v
		}
	}
	return nil
}

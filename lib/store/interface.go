package store

import (
	"github.com/jhprinz/chainstore/lib/medium"
)

// --------------------------------------------------------------------------
// Key Constraint
// --------------------------------------------------------------------------

// Key is the type constraint for persistent-layer keys: an opaque comparable
// identity that exposes its per-medium storage offsets via medium.Ref.
// The reference implementation is *medium.Object.
type Key interface {
	comparable
	medium.Ref
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a Store (and the Store inside a BufferedStore or a
// MultiStore's sub-stores).
type Options[K Key] struct {
	// Name is the attribute name the store persists. Opaque metadata, used
	// only for logging and metrics labels.
	Name string

	// Dimensions is the cell dimension of stored values. Opaque metadata.
	Dimensions int

	// Unit is the physical unit of stored values. Carried through as opaque
	// metadata only.
	Unit string

	// MaxBufferSize, when positive, triggers an automatic Sync whenever an
	// insert grows the write buffer beyond this many entries. 0 disables
	// size-triggered flushing.
	MaxBufferSize int

	// CacheCapacity, when positive, bounds a BufferedStore's local cache
	// with least-recently-used eviction. 0 keeps the cache unbounded.
	CacheCapacity int

	// KeyFromOffset reconstructs the key object living at a given offset of
	// the store's medium. Required for CacheAll; lookups and Sync work
	// without it.
	KeyFromOffset func(offset uint64) (key K, ok bool)
}

// DefaultOptions returns the default store options.
func DefaultOptions[K Key]() *Options[K] {
	return &Options[K]{
		Dimensions: 1,
	}
}

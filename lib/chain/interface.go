package chain

import "fmt"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Link is the generic interface for one layer of a lookup chain.
//
// Get answers a batch of keys with exactly one Value per key, in request
// order. A key the layer (and every layer behind it) does not know yields
// Absent. A non-nil error means a genuine fault (e.g. a failed medium access)
// and leaves the returned slice unusable.
//
// Set stores the given values for the given keys. Absent entries are silently
// dropped, never an error. Implementations that cannot or must not store
// (adapters, compute layers) forward or ignore the call.
type Link[K comparable] interface {
	Get(keys []K) ([]Value, error)
	Set(keys []K, values []Value) error
}

// BatchFunc computes values for a whole batch of missing keys in one call.
// The result must have exactly one Value per key, in request order.
type BatchFunc[K comparable] func(keys []K) ([]Value, error)

// SingleFunc computes the value for one missing key.
type SingleFunc[K comparable] func(key K) (Value, error)

// --------------------------------------------------------------------------
// Fallback Protocol
// --------------------------------------------------------------------------

// ResolveMisses implements the shared miss-fill-back protocol. local holds the
// layer's own answers (Absent where unknown). All keys whose local answer is
// Absent are forwarded to fallback in their original relative order, the
// replacements are spliced back into the corresponding positions, and fill is
// invoked once with the forwarded keys and their replacements so the layer can
// populate itself. fill may be nil for layers that must not cache.
//
// The fallback is not touched when there are no misses, and an empty request
// never reaches it.
func ResolveMisses[K comparable](keys []K, local []Value, fallback Link[K], fill func(keys []K, values []Value) error) ([]Value, error) {
	if fallback == nil {
		return local, nil
	}

	// collect the positions the local layer could not answer
	var missIdx []int
	for i, v := range local {
		if v.IsAbsent() {
			missIdx = append(missIdx, i)
		}
	}
	if len(missIdx) == 0 {
		return local, nil
	}

	missing := make([]K, len(missIdx))
	for i, pos := range missIdx {
		missing[i] = keys[pos]
	}

	replacements, err := fallback.Get(missing)
	if err != nil {
		return nil, err
	}
	// a fallback must answer every forwarded key; anything else is a broken
	// layer, not a miss
	if len(replacements) != len(missing) {
		return nil, fmt.Errorf("fallback returned %d values for %d keys", len(replacements), len(missing))
	}

	if fill != nil {
		if err := fill(missing, replacements); err != nil {
			return nil, err
		}
	}

	for i, pos := range missIdx {
		local[pos] = replacements[i]
	}
	return local, nil
}

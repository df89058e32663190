package chain

// This file holds the stateless adapters: links that reshape batch or key
// semantics for the layer behind them without owning any values themselves.
// None of them fill back into their own state (they have none).

// --------------------------------------------------------------------------
// Wrap (passthrough)
// --------------------------------------------------------------------------

// Wrap presents the uniform Link interface over a concrete layer, delegating
// both Get and Set unchanged. It exists so composite stores can expose a
// plain Link head while keeping their internal layering private.
type Wrap[K comparable] struct {
	next Link[K]
}

// NewWrap creates a passthrough adapter over next.
func NewWrap[K comparable](next Link[K]) *Wrap[K] {
	return &Wrap[K]{next: next}
}

func (w *Wrap[K]) Get(keys []K) ([]Value, error) {
	return w.next.Get(keys)
}

func (w *Wrap[K]) Set(keys []K, values []Value) error {
	return w.next.Set(keys, values)
}

// --------------------------------------------------------------------------
// Single (scalar/batch normalization)
// --------------------------------------------------------------------------

// Single isolates the rest of a chain from single-key calls: it wraps one key
// into a one-element batch, delegates, and unwraps the single result. Batch
// calls pass through unchanged.
type Single[K comparable] struct {
	next Link[K]
}

// NewSingle creates a single-key normalization adapter over next.
func NewSingle[K comparable](next Link[K]) *Single[K] {
	return &Single[K]{next: next}
}

// GetOne answers a single-key lookup via a one-element batch.
func (s *Single[K]) GetOne(key K) (Value, error) {
	res, err := s.next.Get([]K{key})
	if err != nil {
		return Absent, err
	}
	return res[0], nil
}

// SetOne stores a single value via a one-element batch.
func (s *Single[K]) SetOne(key K, value Value) error {
	return s.next.Set([]K{key}, []Value{value})
}

func (s *Single[K]) Get(keys []K) ([]Value, error) {
	return s.next.Get(keys)
}

func (s *Single[K]) Set(keys []K, values []Value) error {
	return s.next.Set(keys, values)
}

// --------------------------------------------------------------------------
// Distinct (duplicate-collapsing batch expansion)
// --------------------------------------------------------------------------

// Distinct requests each distinct key of a batch exactly once from the layer
// behind it and re-expands the answers to the original (possibly repeated)
// key order. This avoids redundant loads and redundant compute calls when a
// batch repeats keys.
type Distinct[K comparable] struct {
	next Link[K]
}

// NewDistinct creates a duplicate-collapsing adapter over next.
func NewDistinct[K comparable](next Link[K]) *Distinct[K] {
	return &Distinct[K]{next: next}
}

// Get forwards the distinct keys (in first-appearance order) once and expands
// the result back to the request order. An empty batch returns empty without
// touching the next layer.
func (d *Distinct[K]) Get(keys []K) ([]Value, error) {
	if len(keys) == 0 {
		return []Value{}, nil
	}

	seen := make(map[K]int, len(keys))
	var uniques []K
	for _, k := range keys {
		if _, ok := seen[k]; !ok {
			seen[k] = len(uniques)
			uniques = append(uniques, k)
		}
	}

	res, err := d.next.Get(uniques)
	if err != nil {
		return nil, err
	}

	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = res[seen[k]]
	}
	return out, nil
}

func (d *Distinct[K]) Set(keys []K, values []Value) error {
	return d.next.Set(keys, values)
}

// --------------------------------------------------------------------------
// Transform (key-transform)
// --------------------------------------------------------------------------

// Transform re-keys lookups: it applies a caller-supplied function to each
// key before delegating Get and Set to a link over the transformed key type,
// e.g. projecting an object to the sub-key the storage layer indexes by.
type Transform[K comparable, T comparable] struct {
	next      Link[T]
	transform func(K) T
}

// NewTransform creates a key-transform adapter over next.
func NewTransform[K comparable, T comparable](next Link[T], transform func(K) T) *Transform[K, T] {
	return &Transform[K, T]{next: next, transform: transform}
}

func (t *Transform[K, T]) Get(keys []K) ([]Value, error) {
	return t.next.Get(t.apply(keys))
}

func (t *Transform[K, T]) Set(keys []K, values []Value) error {
	return t.next.Set(t.apply(keys), values)
}

func (t *Transform[K, T]) apply(keys []K) []T {
	transformed := make([]T, len(keys))
	for i, k := range keys {
		transformed[i] = t.transform(k)
	}
	return transformed
}

// --------------------------------------------------------------------------
// Array (array-coercion)
// --------------------------------------------------------------------------

// Array sits at a chain head that must hand callers array-shaped results. It
// delegates to the layer behind it and coerces the value slice into a
// fixed-layout matrix with one row per key.
type Array[K comparable] struct {
	next Link[K]
}

// NewArray creates an array-coercion adapter over next.
func NewArray[K comparable](next Link[K]) *Array[K] {
	return &Array[K]{next: next}
}

// GetMatrix answers the batch as a matrix with one row per requested key.
// Absent results yield nil rows.
func (a *Array[K]) GetMatrix(keys []K) ([][]float64, error) {
	res, err := a.next.Get(keys)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(res))
	for i, v := range res {
		out[i] = v.Vec()
	}
	return out, nil
}

func (a *Array[K]) Get(keys []K) ([]Value, error) {
	return a.next.Get(keys)
}

func (a *Array[K]) Set(keys []K, values []Value) error {
	return a.next.Set(keys, values)
}

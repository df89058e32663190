package chain

// --------------------------------------------------------------------------
// Compute (compute-on-miss terminus)
// --------------------------------------------------------------------------

// Compute is the usual terminus of a chain: it produces values for keys no
// faster layer could answer by invoking a caller-supplied function. It never
// stores anything itself; Set is a no-op.
//
// The function is either batch-capable (one call for all missing keys, the
// package's main vectorization lever) or per-item (one call per key),
// selected at construction. With no function configured every lookup yields
// Absent.
type Compute[K comparable] struct {
	batch  BatchFunc[K]
	single SingleFunc[K]
}

// NewBatchCompute creates a compute terminus whose function receives the full
// missing-key batch in one call. fn may be nil, in which case every lookup
// yields Absent.
func NewBatchCompute[K comparable](fn BatchFunc[K]) *Compute[K] {
	return &Compute[K]{batch: fn}
}

// NewSingleCompute creates a compute terminus whose function is invoked once
// per key. fn may be nil, in which case every lookup yields Absent.
func NewSingleCompute[K comparable](fn SingleFunc[K]) *Compute[K] {
	return &Compute[K]{single: fn}
}

// Get computes one value per key. An empty batch never invokes the function.
func (c *Compute[K]) Get(keys []K) ([]Value, error) {
	if len(keys) == 0 {
		return []Value{}, nil
	}

	switch {
	case c.batch != nil:
		res, err := c.batch(keys)
		if err != nil {
			return nil, err
		}
		return res, nil
	case c.single != nil:
		res := make([]Value, len(keys))
		for i, k := range keys {
			v, err := c.single(k)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	default:
		return AbsentBatch(len(keys)), nil
	}
}

// Set is a no-op: computed values are cached by the layers in front, not by
// the terminus.
func (c *Compute[K]) Set(_ []K, _ []Value) error {
	return nil
}

// TransformedView returns a derived per-item function that post-processes
// this terminus' results with transform, e.g. to expose a projected view of a
// computed attribute without recomputing it elsewhere.
func (c *Compute[K]) TransformedView(transform func(Value) Value) SingleFunc[K] {
	return func(key K) (Value, error) {
		res, err := c.Get([]K{key})
		if err != nil {
			return Absent, err
		}
		return transform(res[0]), nil
	}
}

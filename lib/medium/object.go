package medium

import (
	"fmt"
	"sort"
)

// --------------------------------------------------------------------------
// Object (reference Ref implementation)
// --------------------------------------------------------------------------

// Object is the reference key type for the persistent layers: an opaque
// identity carrying a per-medium offset map. The surrounding object model
// owns creation and binding; the chain layers only ever read the map.
//
// Objects are compared by pointer identity, so two Objects are distinct keys
// even with identical offset maps.
//
// Thread-safety: not thread-safe. Mutating the offset map while a lookup is
// in flight is undefined behavior; the chain assumes a single writer at a
// time.
type Object struct {
	offsets map[Handle]uint64
}

// NewObject creates an object with an empty offset map.
func NewObject() *Object {
	return &Object{offsets: make(map[Handle]uint64)}
}

// Bind records the object's offset within the medium identified by h.
// Offsets are write-once per handle: binding an already bound handle to a
// different offset is rejected, re-binding the same offset is a no-op.
func (o *Object) Bind(h Handle, offset uint64) error {
	if existing, ok := o.offsets[h]; ok {
		if existing == offset {
			return nil
		}
		return NewError(RetCInvalidOperation,
			fmt.Sprintf("handle %d already bound to offset %d (attempted %d)", h, existing, offset))
	}
	o.offsets[h] = offset
	return nil
}

// Unbind removes the object's registration for h. Intended for scope objects
// whose destination set shrinks; per-key offsets stay immutable for the
// lifetime of a key/medium pair.
func (o *Object) Unbind(h Handle) {
	delete(o.offsets, h)
}

// Offset implements Ref.
func (o *Object) Offset(h Handle) (uint64, bool) {
	offset, ok := o.offsets[h]
	return offset, ok
}

// Handles implements Ref, returning the bound handles in ascending order.
func (o *Object) Handles() []Handle {
	handles := make([]Handle, 0, len(o.offsets))
	for h := range o.offsets {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

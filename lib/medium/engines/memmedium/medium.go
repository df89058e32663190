package memmedium

import (
	"fmt"
	"sync/atomic"

	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// In-Memory Medium
// --------------------------------------------------------------------------

// memImpl implements medium.Medium on a concurrent offset map.
type memImpl struct {
	handle medium.Handle
	size   uint64
	data   *xsync.MapOf[uint64, chain.Value]
	// highWater tracks the largest written offset + 1 for unsized media
	highWater atomic.Uint64
}

// New creates an in-memory medium with a fixed value range of size offsets.
// A size of 0 creates an unbounded medium whose Size grows with the highest
// written offset.
func New(size uint64) medium.Medium {
	return &memImpl{
		handle: medium.NewHandle(),
		size:   size,
		data:   xsync.NewMapOf[uint64, chain.Value](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see medium/interface.go)
// --------------------------------------------------------------------------

func (m *memImpl) Handle() medium.Handle {
	return m.handle
}

func (m *memImpl) Size() uint64 {
	if m.size > 0 {
		return m.size
	}
	return m.highWater.Load()
}

func (m *memImpl) GetValue(offset uint64) (chain.Value, error) {
	if err := m.checkRange(offset); err != nil {
		return chain.Absent, err
	}
	if v, ok := m.data.Load(offset); ok {
		return v, nil
	}
	return chain.Absent, nil
}

func (m *memImpl) GetListValue(offsets []uint64) ([]chain.Value, error) {
	if err := medium.ValidateBatch(offsets, nil); err != nil {
		return nil, err
	}
	if err := m.checkRange(offsets[len(offsets)-1]); err != nil {
		return nil, err
	}

	values := make([]chain.Value, len(offsets))
	for i, offset := range offsets {
		if v, ok := m.data.Load(offset); ok {
			values[i] = v
		}
	}
	return values, nil
}

func (m *memImpl) SetListValue(offsets []uint64, values []chain.Value) error {
	if err := medium.ValidateBatch(offsets, values); err != nil {
		return err
	}
	if err := m.checkRange(offsets[len(offsets)-1]); err != nil {
		return err
	}
	for i, v := range values {
		if v.IsAbsent() {
			return medium.NewError(medium.RetCInvalidBatch,
				fmt.Sprintf("absent value at batch position %d", i))
		}
	}

	for i, offset := range offsets {
		m.data.Store(offset, values[i])
	}

	// grow the tracked range for unsized media
	if m.size == 0 {
		top := offsets[len(offsets)-1] + 1
		for {
			curr := m.highWater.Load()
			if top <= curr || m.highWater.CompareAndSwap(curr, top) {
				break
			}
		}
	}
	return nil
}

// checkRange rejects offsets outside a fixed value range.
func (m *memImpl) checkRange(offset uint64) error {
	if m.size > 0 && offset >= m.size {
		return medium.NewError(medium.RetCOutOfRange,
			fmt.Sprintf("offset %d outside value range of size %d", offset, m.size))
	}
	return nil
}

package medium

import (
	"fmt"
	"sync/atomic"

	"github.com/jhprinz/chainstore/lib/chain"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Handle identifies one medium instance. It is the key of a Ref's offset map:
// two media with different handles are independent destinations even if they
// share a backend.
type Handle uint64

// handleCounter backs NewHandle.
var handleCounter atomic.Uint64

// NewHandle allocates a process-unique medium handle.
func NewHandle() Handle {
	return Handle(handleCounter.Add(1))
}

// Medium is the contract of one backing column store. All batch methods
// require strictly ascending offsets and reject empty batches; callers are
// expected to sort and to short-circuit empty requests.
type Medium interface {
	// Handle returns the identity of this medium instance.
	Handle() Handle
	// Size returns the number of addressable offsets, i.e. offsets
	// 0..Size()-1 form the medium's full value range.
	Size() uint64
	// GetValue loads the value at a single offset. An offset that was never
	// written yields chain.Absent, not an error.
	GetValue(offset uint64) (value chain.Value, err error)
	// GetListValue loads the values at the given strictly ascending offsets
	// in one batch. Never-written offsets yield chain.Absent entries.
	GetListValue(offsets []uint64) (values []chain.Value, err error)
	// SetListValue stores one value per offset in one batch, offsets
	// strictly ascending. Absent values are rejected with RetCInvalidBatch.
	SetListValue(offsets []uint64, values []chain.Value) (err error)
}

// --------------------------------------------------------------------------
// Key Contract
// --------------------------------------------------------------------------

// Ref is the contract every persistent-layer key must satisfy: an opaque,
// comparable identity exposing its per-medium storage offsets. Absence of an
// entry for a handle means the key has no persisted position there yet.
type Ref interface {
	// Offset returns the key's offset within the medium identified by h.
	Offset(h Handle) (offset uint64, ok bool)
	// Handles returns the handles the key is registered with, in ascending
	// order. For scope objects this is the live destination set.
	Handles() []Handle
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a structured medium error wrapping a return code and a message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCInvalidBatch:
		errorCode = "InvalidBatch"
	case RetCUnorderedOffsets:
		errorCode = "UnorderedOffsets"
	case RetCOutOfRange:
		errorCode = "OutOfRange"
	case RetCIOError:
		errorCode = "IOError"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("MediumError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new medium Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                   // 1: Operation failed due to an internal error.
	RetCInvalidBatch                    // 2: Empty batch or mismatched offsets/values lengths.
	RetCUnorderedOffsets                // 3: Batch offsets not strictly ascending.
	RetCOutOfRange                      // 4: Offset outside the medium's value range.
	RetCIOError                         // 5: Underlying I/O fault.
	RetCInvalidOperation                // 6: Operation violates a write-once or format constraint.
)

// --------------------------------------------------------------------------
// Batch Validation
// --------------------------------------------------------------------------

// ValidateBatch checks the shared batch-call preconditions: a non-empty
// offset list, strictly ascending order and (when values is non-nil) matching
// lengths. Engines call this at the top of every batch method; the store
// layers call it as a last-line assertion before issuing a medium call.
func ValidateBatch(offsets []uint64, values []chain.Value) error {
	if len(offsets) == 0 {
		return NewError(RetCInvalidBatch, "empty batch")
	}
	if values != nil && len(values) != len(offsets) {
		return NewError(RetCInvalidBatch,
			fmt.Sprintf("offsets/values length mismatch: %d != %d", len(offsets), len(values)))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return NewError(RetCUnorderedOffsets,
				fmt.Sprintf("offsets not strictly ascending at position %d (%d after %d)", i, offsets[i], offsets[i-1]))
		}
	}
	return nil
}

package testing

import (
	"errors"
	"testing"

	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
)

// MediumFactory creates a fresh medium with the given value-range size.
type MediumFactory func(size uint64) medium.Medium

// RunMediumTests runs the conformance suite for a Medium implementation.
func RunMediumTests(t *testing.T, name string, factory MediumFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("SetGet", func(t *testing.T) {
			testSetGet(t, factory(16))
		})

		t.Run("AbsentForUnwritten", func(t *testing.T) {
			testAbsentForUnwritten(t, factory(16))
		})

		t.Run("BatchRoundTrip", func(t *testing.T) {
			testBatchRoundTrip(t, factory(64))
		})

		t.Run("EmptyBatchRejected", func(t *testing.T) {
			testEmptyBatchRejected(t, factory(16))
		})

		t.Run("UnorderedOffsetsRejected", func(t *testing.T) {
			testUnorderedOffsetsRejected(t, factory(16))
		})

		t.Run("AbsentValueRejected", func(t *testing.T) {
			testAbsentValueRejected(t, factory(16))
		})

		t.Run("OutOfRange", func(t *testing.T) {
			testOutOfRange(t, factory(8))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// requireCode fails the test unless err is a medium.Error with the given code.
func requireCode(t *testing.T, err error, code medium.RetCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected medium error with code %d, got nil", code)
	}
	var mediumErr *medium.Error
	if !errors.As(err, &mediumErr) {
		t.Fatalf("expected *medium.Error, got %T: %v", err, err)
	}
	if mediumErr.Code != code {
		t.Fatalf("expected error code %d, got %d (%v)", code, mediumErr.Code, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, med medium.Medium) {
	offsets := []uint64{1, 4, 9}
	values := []chain.Value{chain.Scalar(1.5), chain.Scalar(-2.0), chain.Scalar(42.0)}

	if err := med.SetListValue(offsets, values); err != nil {
		t.Fatalf("SetListValue failed: %v", err)
	}

	for i, offset := range offsets {
		got, err := med.GetValue(offset)
		if err != nil {
			t.Fatalf("GetValue(%d) failed: %v", offset, err)
		}
		if !got.Equal(values[i]) {
			t.Errorf("GetValue(%d) = %v, want %v", offset, got, values[i])
		}
	}

	// overwrite one cell
	if err := med.SetListValue([]uint64{4}, []chain.Value{chain.Scalar(7.0)}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err := med.GetValue(4)
	if err != nil {
		t.Fatalf("GetValue(4) failed: %v", err)
	}
	if v, _ := got.Float(); v != 7.0 {
		t.Errorf("GetValue(4) = %v after overwrite, want 7", got)
	}
}

func testAbsentForUnwritten(t *testing.T, med medium.Medium) {
	got, err := med.GetValue(3)
	if err != nil {
		t.Fatalf("GetValue(3) failed: %v", err)
	}
	if !got.IsAbsent() {
		t.Errorf("GetValue on never-written offset = %v, want Absent", got)
	}

	values, err := med.GetListValue([]uint64{0, 5, 7})
	if err != nil {
		t.Fatalf("GetListValue failed: %v", err)
	}
	for i, v := range values {
		if !v.IsAbsent() {
			t.Errorf("batch position %d = %v, want Absent", i, v)
		}
	}
}

func testBatchRoundTrip(t *testing.T, med medium.Medium) {
	offsets := make([]uint64, 0, 32)
	values := make([]chain.Value, 0, 32)
	for i := uint64(0); i < 64; i += 2 {
		offsets = append(offsets, i)
		values = append(values, chain.Scalar(float64(i)*0.5))
	}

	if err := med.SetListValue(offsets, values); err != nil {
		t.Fatalf("SetListValue failed: %v", err)
	}

	got, err := med.GetListValue(offsets)
	if err != nil {
		t.Fatalf("GetListValue failed: %v", err)
	}
	if len(got) != len(offsets) {
		t.Fatalf("got %d values for %d offsets", len(got), len(offsets))
	}
	for i := range got {
		if !got[i].Equal(values[i]) {
			t.Errorf("position %d = %v, want %v", i, got[i], values[i])
		}
	}

	// odd offsets stay absent
	odd, err := med.GetListValue([]uint64{1, 3, 63})
	if err != nil {
		t.Fatalf("GetListValue failed: %v", err)
	}
	for i, v := range odd {
		if !v.IsAbsent() {
			t.Errorf("odd position %d = %v, want Absent", i, v)
		}
	}
}

func testEmptyBatchRejected(t *testing.T, med medium.Medium) {
	_, err := med.GetListValue(nil)
	requireCode(t, err, medium.RetCInvalidBatch)

	err = med.SetListValue([]uint64{}, []chain.Value{})
	requireCode(t, err, medium.RetCInvalidBatch)
}

func testUnorderedOffsetsRejected(t *testing.T, med medium.Medium) {
	_, err := med.GetListValue([]uint64{5, 1, 3})
	requireCode(t, err, medium.RetCUnorderedOffsets)

	// duplicates are not strictly ascending either
	_, err = med.GetListValue([]uint64{2, 2})
	requireCode(t, err, medium.RetCUnorderedOffsets)

	err = med.SetListValue([]uint64{3, 1},
		[]chain.Value{chain.Scalar(1), chain.Scalar(2)})
	requireCode(t, err, medium.RetCUnorderedOffsets)
}

func testAbsentValueRejected(t *testing.T, med medium.Medium) {
	err := med.SetListValue([]uint64{0, 1},
		[]chain.Value{chain.Scalar(1), chain.Absent})
	requireCode(t, err, medium.RetCInvalidBatch)
}

func testOutOfRange(t *testing.T, med medium.Medium) {
	if med.Size() == 0 {
		t.Skip("unbounded medium")
	}

	_, err := med.GetValue(med.Size())
	requireCode(t, err, medium.RetCOutOfRange)

	err = med.SetListValue([]uint64{med.Size()}, []chain.Value{chain.Scalar(1)})
	requireCode(t, err, medium.RetCOutOfRange)
}

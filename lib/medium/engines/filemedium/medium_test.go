package filemedium

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
	mediumtesting "github.com/jhprinz/chainstore/lib/medium/testing"
)

func TestFileMediumContract(t *testing.T) {
	dir := t.TempDir()
	n := 0
	mediumtesting.RunMediumTests(t, "filemedium", func(size uint64) medium.Medium {
		n++
		med, err := Open(filepath.Join(dir, fmt.Sprintf("col-%d.col", n)), 1, size)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		return med
	})
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy.col")

	med, err := Open(path, 2, 32)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	offsets := []uint64{0, 7, 31}
	values := []chain.Value{
		chain.Vector(1, 2),
		chain.Vector(-0.5, 0.5),
		chain.Vector(100, 200),
	}
	if err := med.SetListValue(offsets, values); err != nil {
		t.Fatalf("SetListValue failed: %v", err)
	}
	if err := med.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path, 2, 32)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := reopened.GetListValue(offsets)
	if err != nil {
		t.Fatalf("GetListValue failed: %v", err)
	}
	for i := range got {
		if !got[i].Equal(values[i]) {
			t.Errorf("position %d = %v after reopen, want %v", i, got[i], values[i])
		}
	}

	// unwritten cells stay absent across a round trip
	v, err := reopened.GetValue(1)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if !v.IsAbsent() {
		t.Errorf("unwritten cell = %v after reopen, want Absent", v)
	}
}

func TestDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "col.col")

	med, err := Open(path, 3, 8)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	err = med.SetListValue([]uint64{0}, []chain.Value{chain.Scalar(1)})
	if err == nil {
		t.Fatal("expected dimension mismatch error, got nil")
	}

	if err := med.SetListValue([]uint64{0}, []chain.Value{chain.Vector(1, 2, 3)}); err != nil {
		t.Fatalf("SetListValue failed: %v", err)
	}
	if err := med.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// reopening with the wrong dimension must fail
	if _, err := Open(path, 2, 8); err == nil {
		t.Fatal("expected dimension mismatch on reopen, got nil")
	}
}

func TestFlushWithoutWritesIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "col.col")

	med, err := Open(path, 1, 8)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := med.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}

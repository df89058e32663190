package store

import (
	"testing"

	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
	"github.com/jhprinz/chainstore/lib/medium/engines/memmedium"
)

func TestBufferedStoreSingleRoundTripPerKey(t *testing.T) {
	rec := record(memmedium.New(8))
	_ = rec.inner.SetListValue([]uint64{4}, []chain.Value{chain.Scalar(44)})

	k := boundObject(t, rec, 4)
	bs := NewBufferedStore[*medium.Object](rec, nil)

	for i := 0; i < 3; i++ {
		res, err := bs.Get([]*medium.Object{k})
		if err != nil {
			t.Fatalf("Get %d failed: %v", i, err)
		}
		if float(t, res[0]) != 44 {
			t.Errorf("Get %d = %v, want 44", i, res[0])
		}
	}

	// the first lookup fills the cache, the rest are local
	if len(rec.loadCalls) != 1 {
		t.Errorf("medium load called %d times for 3 lookups, want 1", len(rec.loadCalls))
	}
}

func TestBufferedStoreFillBackReachesWriteBuffer(t *testing.T) {
	rec := record(memmedium.New(8))
	_ = rec.inner.SetListValue([]uint64{1}, []chain.Value{chain.Scalar(5)})

	k := boundObject(t, rec, 1)
	bs := NewBufferedStore[*medium.Object](rec, nil)

	if _, err := bs.Get([]*medium.Object{k}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// loaded values are written through into the Store's buffer as well
	if bs.Store().BufferLen() != 1 {
		t.Errorf("BufferLen = %d after fill-back, want 1", bs.Store().BufferLen())
	}
}

func TestBufferedStoreSetWritesThroughAndSyncs(t *testing.T) {
	rec := record(memmedium.New(8))
	k := boundObject(t, rec, 2)
	bs := NewBufferedStore[*medium.Object](rec, nil)

	if err := bs.Set([]*medium.Object{k}, []chain.Value{chain.Scalar(9)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := bs.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if len(rec.storeCalls) != 1 {
		t.Fatalf("medium store called %d times, want 1", len(rec.storeCalls))
	}

	// cached, so no load is needed even after the flush cleared the buffer
	res, err := bs.Get([]*medium.Object{k})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if float(t, res[0]) != 9 {
		t.Errorf("Get = %v, want 9", res[0])
	}
	if len(rec.loadCalls) != 0 {
		t.Error("medium loaded for a cache-resident value")
	}

	// the value actually reached the medium
	v, err := rec.inner.GetValue(2)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if f, _ := v.Float(); f != 9 {
		t.Errorf("medium cell = %v, want 9", v)
	}
}

func TestBufferedStoreUnresolvedKeyStaysTransient(t *testing.T) {
	rec := record(memmedium.New(8))
	bs := NewBufferedStore[*medium.Object](rec, nil)

	unbound := medium.NewObject()
	err := bs.Set([]*medium.Object{unbound}, []chain.Value{chain.Scalar(1)})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if bs.Store().BufferLen() != 0 {
		t.Error("value for an unresolved key reached the write buffer")
	}

	res, err := bs.Get([]*medium.Object{unbound})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !res[0].IsAbsent() {
		t.Errorf("Get = %v for an unresolved key, want Absent", res[0])
	}
}

func TestBufferedStoreBoundedCacheEvictsAndReloads(t *testing.T) {
	rec := record(memmedium.New(8))
	_ = rec.inner.SetListValue([]uint64{0, 1},
		[]chain.Value{chain.Scalar(0), chain.Scalar(10)})

	k0 := boundObject(t, rec, 0)
	k1 := boundObject(t, rec, 1)

	opts := DefaultOptions[*medium.Object]()
	opts.CacheCapacity = 1
	bs := NewBufferedStore(rec, opts)

	// k0 fills the one-slot cache, k1 evicts it, k0 must load again
	for _, k := range []*medium.Object{k0, k1, k0} {
		if _, err := bs.Get([]*medium.Object{k}); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}

	// the second k0 lookup is a buffer hit inside the Store (fill-back wrote
	// it through), so only the first two lookups reached the medium
	if len(rec.loadCalls) != 2 {
		t.Errorf("medium load called %d times, want 2", len(rec.loadCalls))
	}
}

func TestBufferedStoreCacheAll(t *testing.T) {
	inner := memmedium.New(4)
	_ = inner.SetListValue([]uint64{0, 3},
		[]chain.Value{chain.Scalar(100), chain.Scalar(300)})

	keys := map[uint64]*medium.Object{
		0: boundObject(t, inner, 0),
		3: boundObject(t, inner, 3),
	}

	rec := record(inner)
	opts := DefaultOptions[*medium.Object]()
	opts.KeyFromOffset = func(offset uint64) (*medium.Object, bool) {
		k, ok := keys[offset]
		return k, ok
	}
	bs := NewBufferedStore(rec, opts)

	if err := bs.CacheAll(); err != nil {
		t.Fatalf("CacheAll failed: %v", err)
	}
	rec.loadCalls = rec.loadCalls[:0]

	res, err := bs.Get([]*medium.Object{keys[0], keys[3]})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if float(t, res[0]) != 100 || float(t, res[1]) != 300 {
		t.Errorf("Get = %v, want [100 300]", res)
	}
	if len(rec.loadCalls) != 0 {
		t.Error("medium loaded after CacheAll for cache-resident values")
	}
}

func TestBufferedStoreCacheAllRequiresKeyFromOffset(t *testing.T) {
	bs := NewBufferedStore[*medium.Object](memmedium.New(4), nil)
	if err := bs.CacheAll(); err == nil {
		t.Fatal("CacheAll succeeded without a KeyFromOffset option")
	}
}

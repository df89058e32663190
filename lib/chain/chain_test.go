package chain

import (
	"testing"
)

// spyLink records every batch it is asked for, answering from a fixed map.
type spyLink struct {
	data     map[string]Value
	getCalls [][]string
	setCalls int
}

func newSpyLink(data map[string]Value) *spyLink {
	if data == nil {
		data = make(map[string]Value)
	}
	return &spyLink{data: data}
}

func (s *spyLink) Get(keys []string) ([]Value, error) {
	batch := make([]string, len(keys))
	copy(batch, keys)
	s.getCalls = append(s.getCalls, batch)

	out := make([]Value, len(keys))
	for i, k := range keys {
		if v, ok := s.data[k]; ok {
			out[i] = v
		}
	}
	return out, nil
}

func (s *spyLink) Set(keys []string, values []Value) error {
	s.setCalls++
	for i, k := range keys {
		if !values[i].IsAbsent() {
			s.data[k] = values[i]
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// CacheLink
// --------------------------------------------------------------------------

func TestCacheLinkHitNeverQueriesFallback(t *testing.T) {
	spy := newSpyLink(map[string]Value{"a": Scalar(1)})
	link := NewCacheLink[string](spy)

	if err := link.Set([]string{"a"}, []Value{Scalar(10)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	res, err := link.Get([]string{"a"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if f, _ := res[0].Float(); f != 10 {
		t.Errorf("Get = %v, want the locally cached 10", res[0])
	}
	if len(spy.getCalls) != 0 {
		t.Errorf("fallback queried %d times for a local hit, want 0", len(spy.getCalls))
	}
}

func TestCacheLinkForwardsOnlyMisses(t *testing.T) {
	spy := newSpyLink(map[string]Value{"b": Scalar(2), "d": Scalar(4)})
	link := NewCacheLink[string](spy)
	_ = link.Set([]string{"a", "c"}, []Value{Scalar(1), Scalar(3)})

	res, err := link.Get([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	want := []float64{1, 2, 3, 4}
	for i, w := range want {
		if f, _ := res[i].Float(); f != w {
			t.Errorf("position %d = %v, want %v", i, res[i], w)
		}
	}

	if len(spy.getCalls) != 1 {
		t.Fatalf("fallback queried %d times, want 1", len(spy.getCalls))
	}
	// only the misses, in original relative order
	got := spy.getCalls[0]
	if len(got) != 2 || got[0] != "b" || got[1] != "d" {
		t.Errorf("fallback received %v, want [b d]", got)
	}
}

func TestCacheLinkFillBack(t *testing.T) {
	spy := newSpyLink(map[string]Value{"x": Scalar(5)})
	link := NewCacheLink[string](spy)

	if _, err := link.Get([]string{"x"}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !link.Contains("x") {
		t.Fatal("value not filled back into the cache layer")
	}

	// second lookup is served locally
	if _, err := link.Get([]string{"x"}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(spy.getCalls) != 1 {
		t.Errorf("fallback queried %d times, want 1", len(spy.getCalls))
	}
}

func TestCacheLinkLengthAndOrderWithDuplicates(t *testing.T) {
	spy := newSpyLink(map[string]Value{"a": Scalar(1), "b": Scalar(2)})
	link := NewCacheLink[string](spy)

	keys := []string{"b", "a", "b", "missing", "a"}
	res, err := link.Get(keys)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(res) != len(keys) {
		t.Fatalf("got %d results for %d keys", len(res), len(keys))
	}

	wantFloats := []float64{2, 1, 2, 0, 1}
	wantAbsent := []bool{false, false, false, true, false}
	for i := range keys {
		if res[i].IsAbsent() != wantAbsent[i] {
			t.Errorf("position %d absent = %v, want %v", i, res[i].IsAbsent(), wantAbsent[i])
			continue
		}
		if !wantAbsent[i] {
			if f, _ := res[i].Float(); f != wantFloats[i] {
				t.Errorf("position %d = %v, want %v", i, res[i], wantFloats[i])
			}
		}
	}
}

func TestCacheLinkEmptyBatch(t *testing.T) {
	spy := newSpyLink(nil)
	link := NewCacheLink[string](spy)

	res, err := link.Get([]string{})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("empty request returned %d results", len(res))
	}
	if len(spy.getCalls) != 0 {
		t.Errorf("fallback queried for an empty batch")
	}
}

func TestCacheLinkSetAbsentIsNoop(t *testing.T) {
	link := NewCacheLink[string](nil)

	if err := link.Set([]string{"k"}, []Value{Absent}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if link.Contains("k") {
		t.Error("Absent was stored")
	}
	res, err := link.Get([]string{"k"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !res[0].IsAbsent() {
		t.Errorf("Get = %v, want Absent", res[0])
	}
}

func TestCacheLinkClear(t *testing.T) {
	link := NewCacheLink[string](nil)
	_ = link.Set([]string{"a", "b"}, []Value{Scalar(1), Scalar(2)})
	if link.Len() != 2 {
		t.Fatalf("Len = %d, want 2", link.Len())
	}
	link.Clear()
	if link.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", link.Len())
	}
}

// --------------------------------------------------------------------------
// LRULink
// --------------------------------------------------------------------------

func TestLRULinkEvictsBeyondCapacity(t *testing.T) {
	spy := newSpyLink(map[string]Value{"a": Scalar(1), "b": Scalar(2), "c": Scalar(3)})
	link := NewLRULink[string](2, spy)

	for _, k := range []string{"a", "b", "c"} {
		if _, err := link.Get([]string{k}); err != nil {
			t.Fatalf("Get(%s) failed: %v", k, err)
		}
	}

	// a was evicted when c arrived, so it needs the fallback again
	if _, err := link.Get([]string{"a"}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(spy.getCalls) != 4 {
		t.Errorf("fallback queried %d times, want 4", len(spy.getCalls))
	}

	// b and c fit in the cache... b was evicted by the re-fill of a
	if _, err := link.Get([]string{"c"}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(spy.getCalls) != 4 {
		t.Errorf("fallback queried %d times after cached lookup, want 4", len(spy.getCalls))
	}
}

// --------------------------------------------------------------------------
// ResolveMisses
// --------------------------------------------------------------------------

func TestResolveMissesNilFallback(t *testing.T) {
	local := []Value{Scalar(1), Absent}
	res, err := ResolveMisses([]string{"a", "b"}, local, nil, nil)
	if err != nil {
		t.Fatalf("ResolveMisses failed: %v", err)
	}
	if !res[1].IsAbsent() {
		t.Errorf("position 1 = %v, want Absent without a fallback", res[1])
	}
}

// shortLink answers every batch with too few values.
type shortLink struct{}

func (shortLink) Get(keys []string) ([]Value, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return make([]Value, len(keys)-1), nil
}

func (shortLink) Set([]string, []Value) error { return nil }

func TestResolveMissesRejectsShortFallbackAnswer(t *testing.T) {
	local := []Value{Absent, Absent}

	fillCalled := false
	fill := func([]string, []Value) error {
		fillCalled = true
		return nil
	}

	if _, err := ResolveMisses([]string{"a", "b"}, local, shortLink{}, fill); err == nil {
		t.Fatal("short fallback answer accepted")
	}
	if fillCalled {
		t.Error("fill hook invoked with a malformed fallback answer")
	}
}

func TestResolveMissesFillHookReceivesReplacements(t *testing.T) {
	spy := newSpyLink(map[string]Value{"b": Scalar(2)})

	var filledKeys []string
	var filledValues []Value
	fill := func(keys []string, values []Value) error {
		filledKeys = append(filledKeys, keys...)
		filledValues = append(filledValues, values...)
		return nil
	}

	local := []Value{Scalar(1), Absent}
	res, err := ResolveMisses([]string{"a", "b"}, local, spy, fill)
	if err != nil {
		t.Fatalf("ResolveMisses failed: %v", err)
	}
	if f, _ := res[1].Float(); f != 2 {
		t.Errorf("position 1 = %v, want 2", res[1])
	}
	if len(filledKeys) != 1 || filledKeys[0] != "b" {
		t.Errorf("fill hook received keys %v, want [b]", filledKeys)
	}
	if len(filledValues) != 1 || !filledValues[0].Equal(Scalar(2)) {
		t.Errorf("fill hook received values %v, want [2]", filledValues)
	}
}

package cache_test

import (
	"fmt"
	"testing"

	"github.com/jhprinz/chainstore/lib/cache"
	"github.com/jhprinz/chainstore/lib/chain"
)

func TestEvictionOrder(t *testing.T) {
	c := cache.New[string, chain.Value](2)

	c.Set("a", chain.Scalar(1))
	c.Set("b", chain.Scalar(2))
	c.Set("c", chain.Scalar(3))

	// a is the least recently used and goes first
	if c.Contains("a") {
		t.Error("a still cached after exceeding capacity")
	}
	if !c.Contains("b") || !c.Contains("c") {
		t.Error("b or c missing after eviction of a")
	}
}

func TestGetRefreshesRecency(t *testing.T) {
	c := cache.New[string, chain.Value](2)

	c.Set("a", chain.Scalar(1))
	c.Set("b", chain.Scalar(2))

	// touching a makes b the eviction victim
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a not cached")
	}
	c.Set("c", chain.Scalar(3))

	if c.Contains("b") {
		t.Error("b still cached, want it evicted after a was touched")
	}
	if !c.Contains("a") || !c.Contains("c") {
		t.Error("a or c missing")
	}
}

func TestSetRefreshesRecency(t *testing.T) {
	c := cache.New[string, chain.Value](2)

	c.Set("a", chain.Scalar(1))
	c.Set("b", chain.Scalar(2))
	c.Set("a", chain.Scalar(10)) // update refreshes a
	c.Set("c", chain.Scalar(3))

	if c.Contains("b") {
		t.Error("b still cached, want it evicted after a was updated")
	}
	v, ok := c.Get("a")
	if !ok {
		t.Fatal("a missing")
	}
	if f, _ := v.Float(); f != 10 {
		t.Errorf("a = %v, want the updated 10", v)
	}
}

func TestContainsDoesNotRefresh(t *testing.T) {
	c := cache.New[string, chain.Value](2)

	c.Set("a", chain.Scalar(1))
	c.Set("b", chain.Scalar(2))

	// Contains must not protect a from eviction
	if !c.Contains("a") {
		t.Fatal("a not cached")
	}
	c.Set("c", chain.Scalar(3))

	if c.Contains("a") {
		t.Error("a survived eviction, Contains refreshed recency")
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := cache.New[string, chain.Value](4)
	c.Set("a", chain.Scalar(1))
	c.Set("b", chain.Scalar(2))

	c.Remove("a")
	if c.Contains("a") {
		t.Error("a still cached after Remove")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
}

func TestOnEvictCallback(t *testing.T) {
	c := cache.New[string, chain.Value](1)

	var evicted []string
	c.OnEvict(func(key string, _ chain.Value) {
		evicted = append(evicted, key)
	})

	c.Set("a", chain.Scalar(1))
	c.Set("b", chain.Scalar(2))
	c.Set("c", chain.Scalar(3))

	if len(evicted) != 2 || evicted[0] != "a" || evicted[1] != "b" {
		t.Errorf("evicted %v, want [a b]", evicted)
	}
}

func TestDefaultCapacity(t *testing.T) {
	if got := cache.New[string, chain.Value](0).Capacity(); got != cache.DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", got, cache.DefaultCapacity)
	}
	if got := cache.New[string, chain.Value](-5).Capacity(); got != cache.DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", got, cache.DefaultCapacity)
	}
}

func TestLargeWorkingSet(t *testing.T) {
	const capacity = 128
	c := cache.New[int, chain.Value](capacity)

	for i := 0; i < 10*capacity; i++ {
		c.Set(i, chain.Scalar(float64(i)))
		if c.Len() > capacity {
			t.Fatalf("cache grew to %d beyond capacity %d", c.Len(), capacity)
		}
	}

	// exactly the newest entries survive
	for i := 10*capacity - capacity; i < 10*capacity; i++ {
		if !c.Contains(i) {
			t.Errorf("recent key %d missing", i)
		}
	}
	if c.Contains(0) {
		t.Error(fmt.Sprintf("stale key 0 still cached with Len=%d", c.Len()))
	}
}

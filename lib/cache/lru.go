package cache

import (
	"container/list"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// DefaultCapacity is used when New is called with a non-positive capacity.
const DefaultCapacity = 1_000_000

// --------------------------------------------------------------------------
// LRU Cache
// --------------------------------------------------------------------------

// entry is one cached key-value pair, held inside a list element so recency
// reordering never allocates.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a bounded exact-match cache with least-recently-used eviction.
type LRU[K comparable, V any] struct {
	capacity int
	order    *list.List // front = most recently used
	items    map[K]*list.Element

	// onEvict, if set, is called with every evicted key/value pair.
	onEvict func(key K, value V)
}

// New creates an LRU cache with the given capacity. A non-positive capacity
// selects DefaultCapacity.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[K, V]{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[K]*list.Element),
	}
}

// OnEvict registers a callback invoked for every evicted entry.
func (c *LRU[K, V]) OnEvict(fn func(key K, value V)) {
	c.onEvict = fn
}

// Get returns the cached value for key. A hit refreshes the entry's recency.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Set inserts or updates the value for key and refreshes its recency. If the
// insertion exceeds the capacity, the least-recently-used entry is evicted.
func (c *LRU[K, V]) Set(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// Contains reports whether key is cached, without refreshing recency.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Remove drops the entry for key if present.
func (c *LRU[K, V]) Remove(key K) {
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return len(c.items)
}

// Capacity returns the configured capacity.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Clear drops all entries without invoking the eviction callback.
func (c *LRU[K, V]) Clear() {
	c.order.Init()
	clear(c.items)
}

// evictOldest removes the least-recently-used entry.
func (c *LRU[K, V]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry[K, V])
	c.order.Remove(el)
	delete(c.items, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}

// Package cache provides a bounded exact-match lookup cache with
// least-recently-used eviction. It is a passive key-value store with an
// eviction policy and no knowledge of chain composition; the
// "github.com/jhprinz/chainstore/lib/chain" package wraps it into a chain
// layer (chain.LRULink).
//
// An entry counts as "used" on every hit and on every insert or update.
// Inserting beyond the configured capacity evicts the least-recently-used
// entry first; eviction cost is amortized O(1) per operation.
//
// Thread-safety: not thread-safe. The cache is owned exclusively by its link
// instance; callers sharing one across goroutines must synchronize.
package cache

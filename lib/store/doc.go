// Package store provides the persistent layers of a lookup chain: chain links
// backed by slow, batch-oriented media that only support ordered-offset
// access. It builds on the chain protocol from
// "github.com/jhprinz/chainstore/lib/chain" and the medium contract from
// "github.com/jhprinz/chainstore/lib/medium".
//
// The package focuses on:
//   - Store: a chain link over one medium, with per-key offset resolution, a
//     write buffer for values not yet flushed, offset-sorted batch loads, and
//     a Sync operation issuing one ordered batch write
//   - BufferedStore: an exact-match in-memory cache composed in front of a
//     Store, guaranteeing at most one medium round-trip per distinct key and
//     write-through once a key has a resolved storage offset
//   - MultiStore: fan-out over a dynamic set of destinations, one
//     BufferedStore per registered medium, with conjunctive per-key
//     resolution (a key counts as resolved only if every destination
//     resolves it)
//
// Key Components:
//
//   - Offset resolution: every key carries a per-medium offset map
//     (medium.Ref). A key without an offset for a given medium is not
//     persistable there: lookups yield Absent without touching the medium and
//     stores are dropped. Once resolved, an offset is immutable for the
//     lifetime of the key/medium pair.
//
//   - Write buffering: newly computed or loaded values accumulate in memory
//     until an explicit Sync or until a configured buffer size triggers one.
//     Sync sorts the flushable entries by offset and issues a single ordered
//     batch write, then clears the buffer entirely; entries whose key never
//     resolved an offset are discarded rather than retried.
//
//   - Destination churn: MultiStore derives its destination set from a scope
//     object's offset-map handles before every operation and lazily
//     reconciles sub-stores. Removing a destination discards its sub-store
//     without an implicit flush; callers that need durability must Sync
//     before shrinking the destination set.
//
// Thread-safety: the layers in this package are not thread-safe. They follow
// the single-caller cooperative model of the chain package; the write buffer
// and cache of each layer are owned exclusively by that layer.
package store

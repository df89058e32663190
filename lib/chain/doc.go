// Package chain implements a composable, multi-layer lookup chain for
// per-object numeric attributes. A chain is an ordered sequence of links, each
// able to answer a batch lookup from its own state or delegate the unresolved
// subset to the next (slower) link. Values discovered further down the chain
// are filled back into faster layers on the way up.
//
// The package focuses on:
//   - An explicit optional value type (Value) distinguishing "no value"
//     (Absent) from every real scalar or vector result
//   - A single batch protocol (Link) shared by all layers: a request of N keys
//     always yields N values in request order
//   - Adapters that reshape batch semantics without owning state: passthrough
//     wrapping, single-key normalization, duplicate collapsing, key
//     transformation and array coercion
//   - A compute-on-miss terminus (Compute) that produces values via a caller
//     supplied function, either per key or for a whole batch at once
//
// Key Components:
//
//   - Link Interface: The core abstraction. Get answers a batch of keys with a
//     same-length slice of values; Set stores non-Absent values. Concrete
//     links hold their fallback explicitly at construction time, so a chain is
//     an immutable linked structure rather than a mutable graph.
//
//   - CacheLink: An unbounded exact-match in-memory layer. It answers what it
//     knows, forwards the rest to its fallback and caches whatever comes back.
//
//   - LRULink: Same protocol as CacheLink but bounded by a least-recently-used
//     cache from the lib/cache package.
//
//   - Compute: The usual chain terminus. It never stores anything; it invokes
//     a compute function for keys no faster layer could answer. Batch-capable
//     functions receive all missing keys in one call, which is the package's
//     main throughput lever.
//
// Persistent layers (write-buffered stores over ordered-access media) build on
// this protocol in the "github.com/jhprinz/chainstore/lib/store" package.
//
// Thread-safety: links are not thread-safe. The chain follows a single-caller
// cooperative model; callers that share a chain across goroutines must
// synchronize externally.
package chain

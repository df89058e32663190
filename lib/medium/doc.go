// Package medium defines the contract of the slow, batch-oriented backing
// media the persistent chain layers write to, together with the key model
// that ties an opaque object identity to its storage position.
//
// A Medium is one logical column: a single attribute store addressed by
// integer offsets. Media only guarantee correct results for batch calls whose
// offsets are strictly ascending, and reject empty batches outright; the
// layers in "github.com/jhprinz/chainstore/lib/store" sort and short-circuit
// accordingly before every call.
//
// The package focuses on:
//   - The Medium interface (consumed by the store layers, implemented by the
//     engines subpackages and by whatever production backend embeds this
//     library)
//   - The Ref contract: a key exposes a mapping from medium Handle to integer
//     offset; a missing entry means "not persisted there yet". Offsets are
//     write-once per key/handle pair.
//   - A structured error system with typed return codes, so callers can
//     distinguish contract violations (empty batch, unordered offsets) from
//     plain I/O faults
//
// Reference implementations:
//
//   - In-memory medium (memmedium): backed by a concurrent map, suitable for
//     tests and as a scratch destination.
//     Available in "github.com/jhprinz/chainstore/lib/medium/engines/memmedium".
//
//   - File-backed medium (filemedium): a binary single-file column with a
//     versioned little-endian format.
//     Available in "github.com/jhprinz/chainstore/lib/medium/engines/filemedium".
package medium

// Package memmedium provides an in-memory implementation of the
// medium.Medium contract. It is the default destination for tests and for
// scratch attribute columns that never need to survive the process.
//
// The engine still enforces the full medium contract (empty batches are
// rejected and batch offsets must be strictly ascending), so code exercised
// against it behaves identically against a real ordered-access backend.
//
// Thread-safety: the engine is thread-safe; it is backed by a concurrent map
// and may be shared by several store layers at once.
package memmedium

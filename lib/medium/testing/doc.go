// Package testing provides a reusable conformance test suite for
// implementations of the medium.Medium contract. Engine packages call
// RunMediumTests from their own tests so every backend is held to the same
// rules: strictly ascending batch offsets, rejection of empty batches,
// Absent for never-written offsets and faithful round-trips.
package testing

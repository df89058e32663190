// Package filemedium provides a file-backed implementation of the
// medium.Medium contract: one binary file per attribute column, holding
// fixed-dimension float64 cells addressed by offset.
//
// The on-disk format is a little-endian binary layout with a magic number and
// a format version, loaded fully on open and rewritten on Flush (and on
// Close). Between flushes the column lives in memory, so read performance
// matches the in-memory engine while writes stay durable across processes.
//
// Thread-safety: not thread-safe. A file medium is owned by one store layer;
// concurrent access requires external synchronization.
package filemedium

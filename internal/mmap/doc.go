// Package mmap provides read-only memory-mapped file access.
//
// Archived snapshots and trajectory logs can reach gigabytes; mapping them
// avoids copying file contents through kernel buffers when a run is fetched
// or verified.
//
//	m, err := mmap.Open("snapshot.kmcs")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()          // zero-copy view of the whole file
//	m.Advise(mmap.AccessSequential)
//
// On Unix the package uses mmap(2) with madvise(2) hints; on Windows it uses
// CreateFileMapping/MapViewOfFile and Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must ensure no goroutine touches Bytes() after Close returns.
package mmap

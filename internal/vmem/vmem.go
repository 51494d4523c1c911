// Package vmem acquires and releases anonymous, zero-filled memory regions
// outside the Go heap.
//
// Regions returned by Map are aligned to the operating system page size,
// which is a multiple of 4096 on every supported platform. Each platform
// file provides Map and Unmap:
//
//   - unix: mmap(MAP_ANON|MAP_PRIVATE) via golang.org/x/sys/unix
//   - windows: VirtualAlloc(MEM_RESERVE|MEM_COMMIT) via golang.org/x/sys/windows
//   - other: page-aligned Go heap buffers kept alive until Unmap
package vmem

import "os"

// System maps memory straight from the operating system.
type System struct{}

// Map returns a new zero-filled region of size bytes.
func (System) Map(size int) ([]byte, error) {
	return Map(size)
}

// Unmap releases a region previously returned by Map.
func (System) Unmap(region []byte) error {
	return Unmap(region)
}

// Granularity is the size multiple that mappings are rounded to.
func Granularity() int {
	return os.Getpagesize()
}

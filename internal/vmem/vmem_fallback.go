//go:build !unix && !windows

package vmem

import (
	"fmt"
	"sync"
	"unsafe"
)

const heapAlign = 4096

var (
	mu   sync.Mutex
	live = make(map[*byte][]byte)
)

// Map carves an aligned region out of a Go heap buffer when mmap is not
// available. The buffer stays reachable until Unmap.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vmem: invalid mapping size %d", size)
	}
	raw := make([]byte, size+heapAlign)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) & (heapAlign - 1)); rem != 0 {
		off = heapAlign - rem
	}
	data := raw[off : off+size : off+size]

	mu.Lock()
	live[&data[0]] = raw
	mu.Unlock()
	return data, nil
}

// Unmap drops the reference that keeps the region alive.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	mu.Lock()
	delete(live, &data[0])
	mu.Unlock()
	return nil
}

package slab

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/vmem"
)

// countingMapper maps through vmem and counts calls. Safe for concurrent use.
type countingMapper struct {
	maps, unmaps atomic.Int64
	fail         atomic.Bool
}

func (m *countingMapper) Map(size int) ([]byte, error) {
	if m.fail.Load() {
		return nil, errors.New("mapper exhausted")
	}
	m.maps.Add(1)
	return vmem.Map(size)
}

func (m *countingMapper) Unmap(region []byte) error {
	m.unmaps.Add(1)
	return vmem.Unmap(region)
}

// recordingFallback records every call it receives and hands out Go memory.
type recordingFallback struct {
	mu    sync.Mutex
	calls []string
	sizes []int
	live  map[unsafe.Pointer][]byte
}

func newRecordingFallback() *recordingFallback {
	return &recordingFallback{live: make(map[unsafe.Pointer][]byte)}
}

func (f *recordingFallback) record(call string, size int) {
	f.calls = append(f.calls, call)
	f.sizes = append(f.sizes, size)
}

func (f *recordingFallback) alloc(size int) unsafe.Pointer {
	b := make([]byte, size)
	ptr := unsafe.Pointer(unsafe.SliceData(b))
	f.live[ptr] = b
	return ptr
}

func (f *recordingFallback) Alloc(size int) unsafe.Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("alloc", size)
	return f.alloc(size)
}

func (f *recordingFallback) AllocZeroed(size int) unsafe.Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("alloc_zeroed", size)
	return f.alloc(size)
}

func (f *recordingFallback) Free(ptr unsafe.Pointer, size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("free", size)
	delete(f.live, ptr)
}

func (f *recordingFallback) Realloc(ptr unsafe.Pointer, oldSize, newSize int) unsafe.Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("realloc", newSize)
	next := f.alloc(newSize)
	copy(Bytes(next, newSize), f.live[ptr])
	delete(f.live, ptr)
	return next
}

// singleP runs the test with one P so that every Allocator call from the test
// goroutine lands in the same processor cache.
func singleP(t *testing.T) {
	t.Helper()
	prev := runtime.GOMAXPROCS(1)
	t.Cleanup(func() { runtime.GOMAXPROCS(prev) })
}

func fill(ptr unsafe.Pointer, n int, v byte) {
	b := Bytes(ptr, n)
	for i := range b {
		b[i] = v
	}
}

// holds reports whether the n bytes at ptr all equal v.
func holds(ptr unsafe.Pointer, n int, v byte) bool {
	for _, c := range Bytes(ptr, n) {
		if c != v {
			return false
		}
	}
	return true
}

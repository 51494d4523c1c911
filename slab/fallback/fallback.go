// Package fallback provides the default large-object allocator used by slab
// for requests above the small-object ceiling.
//
// Mapped gives every allocation its own anonymous mapping, rounded up to the
// system page size. Memory is zero-filled by construction, and Realloc keeps
// the address whenever the rounded size does not change.
//
// Failures are reported the way a C allocator reports them: a nil pointer.
package fallback

import (
	"io"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/buf"
	"github.com/joshuapare/slabkit/internal/vmem"
)

// Mapper supplies and releases the memory behind each allocation.
type Mapper interface {
	Map(size int) ([]byte, error)
	Unmap(region []byte) error
}

// Mapped is a page-granular allocator over a Mapper.
type Mapped struct {
	mapper Mapper
	align  int
	log    *slog.Logger
}

// Option configures a Mapped allocator.
type Option func(*Mapped)

// WithMapper replaces the operating system mapper.
func WithMapper(m Mapper) Option {
	return func(a *Mapped) {
		a.mapper = m
	}
}

// WithGranularity sets the rounding unit for mapping sizes. It must be a
// power of two.
func WithGranularity(n int) Option {
	return func(a *Mapped) {
		a.align = n
	}
}

// WithLogger sets the logger for release failures. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Mapped) {
		if logger != nil {
			a.log = logger
		}
	}
}

// New creates a Mapped allocator backed by vmem.
func New(opts ...Option) *Mapped {
	a := &Mapped{
		mapper: vmem.System{},
		align:  vmem.Granularity(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// span is the mapping length used for a request of size bytes.
func (a *Mapped) span(size int) (int, bool) {
	if size <= 0 {
		size = 1
	}
	return buf.RoundUp(size, a.align)
}

// Alloc returns size bytes of zeroed memory, or nil.
func (a *Mapped) Alloc(size int) unsafe.Pointer {
	n, ok := a.span(size)
	if !ok {
		return nil
	}
	region, err := a.mapper.Map(n)
	if err != nil || len(region) < n {
		return nil
	}
	return unsafe.Pointer(&region[0])
}

// AllocZeroed is Alloc; fresh mappings are already zero.
func (a *Mapped) AllocZeroed(size int) unsafe.Pointer {
	return a.Alloc(size)
}

// Free releases an allocation of size bytes. size must be the size passed to
// Alloc or the last Realloc.
func (a *Mapped) Free(ptr unsafe.Pointer, size int) {
	if ptr == nil {
		return
	}
	n, ok := a.span(size)
	if !ok {
		return
	}
	if err := a.mapper.Unmap(unsafe.Slice((*byte)(ptr), n)); err != nil {
		a.log.Warn("fallback: unmap failed", "size", size, "span", n, "err", err)
	}
}

// Realloc resizes an allocation, preserving min(oldSize, newSize) bytes.
// On failure it returns nil and leaves the old allocation untouched.
func (a *Mapped) Realloc(ptr unsafe.Pointer, oldSize, newSize int) unsafe.Pointer {
	if ptr == nil {
		return a.Alloc(newSize)
	}
	oldSpan, ok1 := a.span(oldSize)
	newSpan, ok2 := a.span(newSize)
	if !ok1 || !ok2 {
		return nil
	}
	if oldSpan == newSpan {
		return ptr
	}

	next := a.Alloc(newSize)
	if next == nil {
		return nil
	}
	n := min(oldSize, newSize)
	if n > 0 {
		copy(unsafe.Slice((*byte)(next), n), unsafe.Slice((*byte)(ptr), n))
	}
	a.Free(ptr, oldSize)
	return next
}

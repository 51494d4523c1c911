package slab

import (
	"log/slog"
	"unsafe"
)

// Mapper supplies and reclaims the 4096-byte regions pages live in.
// Regions must be zero-filled and 4096-byte aligned.
type Mapper interface {
	Map(size int) ([]byte, error)
	Unmap(region []byte) error
}

// Fallback serves every request above MaxSmallSize. Sizes are passed through
// unchanged and a nil result is returned to the caller as is.
type Fallback interface {
	Alloc(size int) unsafe.Pointer
	AllocZeroed(size int) unsafe.Pointer
	Free(ptr unsafe.Pointer, size int)
	Realloc(ptr unsafe.Pointer, oldSize, newSize int) unsafe.Pointer
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithMapper sets the source of page memory. Default: vmem.System.
func WithMapper(m Mapper) Option {
	return func(a *Allocator) {
		a.mapper = m
	}
}

// WithFallback sets the large-object allocator. Default: fallback.New().
func WithFallback(f Fallback) Option {
	return func(a *Allocator) {
		a.fallback = f
	}
}

// WithLogger sets the logger for page lifecycle events. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Allocator) {
		if logger != nil {
			a.log = logger
		}
	}
}

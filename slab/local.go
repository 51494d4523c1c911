package slab

import (
	"unsafe"

	"github.com/joshuapare/slabkit/internal/page"
	"github.com/joshuapare/slabkit/internal/sizeclass"
)

// Local is a page cache owned by one goroutine. It is not safe for concurrent
// use, but memory it hands out may be freed from anywhere, through any Local
// or the Allocator itself.
type Local struct {
	a     *Allocator
	cache cache
}

// NewLocal returns an empty Local cache drawing pages from a.
func (a *Allocator) NewLocal() *Local {
	return &Local{a: a}
}

// Alloc is Allocator.Alloc served from this cache.
func (l *Local) Alloc(lay Layout) unsafe.Pointer {
	lay.check()
	if !sizeclass.Small(lay.Size) {
		return l.a.fallback.Alloc(lay.Size)
	}
	class := sizeclass.Of(lay.Size)

	pg := l.cache.take(class)
	if pg.IsZero() {
		pg = l.a.newPage(class)
	}
	ptr := mustAcquire(pg)
	l.a.retire(l.cache.keep(class, pg))
	return ptr
}

// AllocZeroed is Allocator.AllocZeroed served from this cache.
func (l *Local) AllocZeroed(lay Layout) unsafe.Pointer {
	lay.check()
	if !sizeclass.Small(lay.Size) {
		return l.a.fallback.AllocZeroed(lay.Size)
	}
	ptr := l.Alloc(lay)
	clear(Bytes(ptr, lay.Size))
	return ptr
}

// Free returns ptr to its page: straight onto the exclusive list when this
// cache owns the page, through the shared list otherwise.
func (l *Local) Free(ptr unsafe.Pointer, lay Layout) {
	if ptr == nil {
		return
	}
	lay.check()
	if !sizeclass.Small(lay.Size) {
		l.a.fallback.Free(ptr, lay.Size)
		return
	}
	pg := page.Of(ptr)
	if l.cache.owns(sizeclass.ForSlot(pg.SlotSize()), pg) {
		pg.FreeLocal(ptr)
		return
	}
	l.a.freeShared(pg, ptr)
}

// Realloc is Allocator.Realloc served from this cache.
func (l *Local) Realloc(ptr unsafe.Pointer, lay Layout, newSize int) unsafe.Pointer {
	return realloc(l, l.a.fallback, ptr, lay, newSize)
}

// Close releases every cached page. Pages with no live slot are unmapped;
// the rest are unmapped when their last slot is freed. The Local stays usable
// and starts over with an empty cache.
func (l *Local) Close() {
	for class := 1; class <= sizeclass.Count; class++ {
		l.a.retire(l.cache.take(class))
	}
}

package slab

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/page"
	"github.com/joshuapare/slabkit/internal/sizeclass"
	"github.com/joshuapare/slabkit/internal/vmem"
	"github.com/joshuapare/slabkit/slab/fallback"
)

// Allocator serves small requests from per-processor page caches and
// forwards large ones to its Fallback. It is safe for concurrent use.
type Allocator struct {
	mapper   Mapper
	fallback Fallback
	log      *slog.Logger

	mu    sync.Mutex // serialises growProcs
	procs atomic.Pointer[[]*procCache]
}

// New creates an Allocator.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		mapper: vmem.System{},
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fallback == nil {
		a.fallback = fallback.New(fallback.WithLogger(a.log))
	}
	return a
}

// Alloc returns uninitialised memory for l: a slot of at least l.Size bytes
// rounded up to its size class, or exactly what the Fallback returns for
// sizes above MaxSmallSize.
func (a *Allocator) Alloc(l Layout) unsafe.Pointer {
	l.check()
	if !sizeclass.Small(l.Size) {
		return a.fallback.Alloc(l.Size)
	}
	class := sizeclass.Of(l.Size)

	pc := a.pin()
	pg := pc.cache.take(class)
	if pg.IsZero() {
		// Map with the P released; the new page is ours alone until cached.
		pc.unpin()
		pg = a.newPage(class)
		pc = a.pin()
	}
	ptr := mustAcquire(pg)
	out := pc.cache.keep(class, pg)
	pc.unpin()

	a.retire(out)
	return ptr
}

// AllocZeroed is Alloc followed by zeroing the first l.Size bytes.
func (a *Allocator) AllocZeroed(l Layout) unsafe.Pointer {
	l.check()
	if !sizeclass.Small(l.Size) {
		return a.fallback.AllocZeroed(l.Size)
	}
	ptr := a.Alloc(l)
	clear(Bytes(ptr, l.Size))
	return ptr
}

// Free returns ptr, allocated with layout l, to the allocator. Freeing nil is
// a no-op.
func (a *Allocator) Free(ptr unsafe.Pointer, l Layout) {
	if ptr == nil {
		return
	}
	l.check()
	if !sizeclass.Small(l.Size) {
		a.fallback.Free(ptr, l.Size)
		return
	}
	pg := page.Of(ptr)
	class := sizeclass.ForSlot(pg.SlotSize())

	pc := a.pin()
	if pc.cache.owns(class, pg) {
		pg.FreeLocal(ptr)
		pc.unpin()
		return
	}
	pc.unpin()
	a.freeShared(pg, ptr)
}

// Realloc resizes ptr from l.Size to newSize bytes. Within one size class the
// address is kept; otherwise the first min(l.Size, newSize) bytes are copied
// to a new block and ptr is freed. A nil result leaves ptr untouched.
func (a *Allocator) Realloc(ptr unsafe.Pointer, l Layout, newSize int) unsafe.Pointer {
	return realloc(a, a.fallback, ptr, l, newSize)
}

// allocFreer is the part of Allocator and Local that realloc moves between.
type allocFreer interface {
	Alloc(l Layout) unsafe.Pointer
	Free(ptr unsafe.Pointer, l Layout)
}

func realloc(h allocFreer, fb Fallback, ptr unsafe.Pointer, l Layout, newSize int) unsafe.Pointer {
	next := Layout{Size: newSize, Align: l.Align}
	l.check()
	next.check()

	switch {
	case ptr == nil:
		return h.Alloc(next)
	case !sizeclass.Small(l.Size) && !sizeclass.Small(newSize):
		return fb.Realloc(ptr, l.Size, newSize)
	case sizeclass.Small(l.Size) && sizeclass.Of(l.Size) == sizeclass.Of(newSize):
		return ptr
	}

	moved := h.Alloc(next)
	if moved == nil {
		return nil
	}
	if n := min(l.Size, newSize); n > 0 {
		copy(Bytes(moved, n), Bytes(ptr, n))
	}
	h.Free(ptr, l)
	return moved
}

//---- page lifecycle

// newPage maps and formats a page for class. Failure is fatal.
func (a *Allocator) newPage(class int) page.Page {
	slot := sizeclass.SlotSize(class)
	region, err := a.mapper.Map(page.Size)
	if err != nil {
		a.fatal(fmt.Errorf("%w: mapping page for %d-byte slots: %w", ErrOutOfMemory, slot, err))
	}
	pg, err := page.New(region, slot)
	if err != nil {
		a.fatal(fmt.Errorf("slab: mapper returned an unusable region: %w", err))
	}
	a.log.Debug("slab: page mapped", "slot", slot, "slots", pg.MaxLen())
	return pg
}

func (a *Allocator) fatal(err error) {
	a.log.Error("slab: cannot create page", "err", err)
	panic(err)
}

// retire releases a page that left a cache, reclaiming it if nothing on it
// is live.
func (a *Allocator) retire(pg page.Page) {
	if pg.IsZero() {
		return
	}
	if pg.Release() {
		a.reclaim(pg)
	}
}

func (a *Allocator) freeShared(pg page.Page, ptr unsafe.Pointer) {
	if pg.FreeShared(ptr) {
		a.reclaim(pg)
	}
}

func (a *Allocator) reclaim(pg page.Page) {
	slot := pg.SlotSize()
	if err := a.mapper.Unmap(pg.Region()); err != nil {
		a.log.Warn("slab: page unmap failed", "slot", slot, "err", err)
		return
	}
	a.log.Debug("slab: page reclaimed", "slot", slot)
}

// mustAcquire takes a slot from a page known to have one: cached pages always
// keep capacity and fresh pages hold at least seven slots.
func mustAcquire(pg page.Page) unsafe.Pointer {
	ptr, ok := pg.Acquire()
	if !ok {
		panic(fmt.Sprintf("slab: page for %d-byte slots has no free slot", pg.SlotSize()))
	}
	return ptr
}

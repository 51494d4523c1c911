// Package page implements the 4096-byte slab page: one size class per page,
// a bump cursor, an exclusive free list for the owning goroutine and a
// lock-free shared free list for everyone else.
//
// # Ownership
//
// A page is owned by exactly one cache from creation until Release. Only
// the owner may call Acquire, FreeLocal, Drain, HasCapacity, InUse and
// Release. FreeShared, Owned, SlotSize and Index are safe from any
// goroutine.
//
// # Free lists
//
// Free slots are linked in place: the first four bytes of a free slot hold
// the index of the next free slot, little-endian, terminated by 0xFFFFFFFF.
// The shared list is a push-only stack; the owner takes it whole with one
// swap (Drain), so it never suffers from ABA.
//
// # Reclamation
//
// After Release, the page is no longer owned and is reclaimable as soon as
// every slot is back. Release and FreeShared report the single moment that
// happens; whoever sees true unmaps Region.
package page

import (
	"unsafe"

	"github.com/joshuapare/slabkit/internal/buf"
	"github.com/joshuapare/slabkit/internal/sizeclass"
)

// Page is a handle to a mapped page. The zero Page refers to no page.
type Page struct {
	mem *[Size]byte
}

// New formats a freshly mapped region as an owned, empty page of slotSize slots.
func New(region []byte, slotSize int) (Page, error) {
	if len(region) != Size {
		return Page{}, ErrRegionSize
	}
	if uintptr(unsafe.Pointer(&region[0]))&mask != 0 {
		return Page{}, ErrRegionAlign
	}
	if sizeclass.ForSlot(slotSize) == 0 {
		return Page{}, ErrSlotSize
	}

	p := Page{mem: (*[Size]byte)(region)}
	h := p.hdr()
	h.slotSize = uint32(slotSize)
	h.sharedHead.Store(none)
	h.cursor = 0
	h.localHead = none
	h.inUse = 0
	h.state.Store(ownedBit)
	return p, nil
}

// Of returns the page containing ptr by masking it down to the page boundary.
// ptr must have come from a page; nothing else is checked.
func Of(ptr unsafe.Pointer) Page {
	off := uintptr(ptr) & mask
	return Page{mem: (*[Size]byte)(unsafe.Add(ptr, -int(off)))}
}

// IsZero reports whether p refers to no page.
func (p Page) IsZero() bool {
	return p.mem == nil
}

func (p Page) hdr() *header {
	return (*header)(unsafe.Pointer(&p.mem[headerOffset]))
}

// Region returns the mapped memory backing p, for handing back to the mapper.
func (p Page) Region() []byte {
	return p.mem[:]
}

// SlotSize returns the slot size in bytes.
func (p Page) SlotSize() int {
	return int(p.hdr().slotSize)
}

// MaxLen returns the number of slots in p.
func (p Page) MaxLen() int {
	return MaxLen(p.SlotSize())
}

// Owned reports whether p is still held by a cache.
func (p Page) Owned() bool {
	return p.hdr().state.Load() > ownedBit/2
}

// Index returns the slot index of ptr within p.
func (p Page) Index(ptr unsafe.Pointer) int {
	off := int(uintptr(ptr) - uintptr(unsafe.Pointer(p.mem)))
	slot := p.SlotSize()
	checkPointer(off, slot, p.MaxLen())
	return off / slot
}

// Slot returns the address of slot i.
func (p Page) Slot(i int) unsafe.Pointer {
	checkIndex(i, p.MaxLen())
	return unsafe.Pointer(&p.mem[i*p.SlotSize()])
}

func (p Page) link(i uint32) uint32 {
	off := int(i) * p.SlotSize()
	return buf.U32LE(p.mem[off : off+4])
}

func (p Page) setLink(i, next uint32) {
	off := int(i) * p.SlotSize()
	buf.PutU32LE(p.mem[off:off+4], next)
}

//---- owner operations

// Acquire hands out one slot. Freed slots are reused before the cursor moves:
// the exclusive list first, then whatever the shared list has collected.
// It returns false only when the page is full.
func (p Page) Acquire() (unsafe.Pointer, bool) {
	h := p.hdr()
	if h.localHead == none && h.sharedHead.Load() != none {
		p.Drain()
	}

	var idx uint32
	switch {
	case h.localHead != none:
		idx = h.localHead
		h.localHead = p.link(idx)
	case int(h.cursor) < p.MaxLen():
		idx = h.cursor
		h.cursor++
	default:
		return nil, false
	}
	h.inUse++
	return p.Slot(int(idx)), true
}

// HasCapacity reports whether Acquire would succeed.
func (p Page) HasCapacity() bool {
	h := p.hdr()
	return h.localHead != none ||
		int(h.cursor) < p.MaxLen() ||
		h.sharedHead.Load() != none
}

// FreeLocal pushes ptr onto the exclusive free list.
func (p Page) FreeLocal(ptr unsafe.Pointer) {
	h := p.hdr()
	idx := uint32(p.Index(ptr))
	poison(p.mem[int(idx)*p.SlotSize():][:p.SlotSize()])
	p.setLink(idx, h.localHead)
	h.localHead = idx
	h.inUse--
}

// Drain moves every slot on the shared list onto the exclusive list and
// returns how many it moved.
func (p Page) Drain() int {
	h := p.hdr()
	head := h.sharedHead.Swap(none)
	if head == none {
		return 0
	}
	n, tail := 1, head
	for next := p.link(tail); next != none; next = p.link(tail) {
		tail = next
		n++
	}
	p.setLink(tail, h.localHead)
	h.localHead = head
	h.inUse -= uint32(n)
	h.state.Add(int64(n))
	return n
}

// InUse returns the number of slots handed out and not yet returned to the
// owner, including slots sitting undrained on the shared list.
func (p Page) InUse() int {
	return int(p.hdr().inUse)
}

// Cursor returns the number of slots ever bumped.
func (p Page) Cursor() int {
	return int(p.hdr().cursor)
}

// Release gives up ownership. From here on every free goes through
// FreeShared and the caller must not touch p again. It returns true when no
// slot is live, in which case the caller must reclaim the page.
func (p Page) Release() bool {
	h := p.hdr()
	return h.state.Add(int64(h.inUse)-ownedBit) == 0
}

//---- shared operations

// FreeShared pushes ptr onto the shared free list. It returns true when this
// free returned the last live slot of a released page, in which case the
// caller must reclaim it.
func (p Page) FreeShared(ptr unsafe.Pointer) bool {
	h := p.hdr()
	idx := uint32(p.Index(ptr))
	poison(p.mem[int(idx)*p.SlotSize():][:p.SlotSize()])
	for {
		head := h.sharedHead.Load()
		p.setLink(idx, head)
		if h.sharedHead.CompareAndSwap(head, idx) {
			break
		}
	}
	return h.state.Add(-1) == 0
}

package page

import (
	"sync/atomic"
	"unsafe"
)

// header sits in the last bytes of every page.
//
//	[0, BufSize)          slots
//	[headerOffset, Size)  header
//
// The first three fields are shared: any goroutine holding a pointer into the
// page may touch them, through atomics only (slotSize never changes). The rest
// belongs to the page's owner.
type header struct {
	// state adds the ownership offset (ownedBit) to the reclaim debt.
	// While owned it holds ownedBit + drained - remoteFrees, which may borrow
	// from bit 62, so ownership is read by magnitude: the debt never exceeds
	// one page of slots. Release adds inUse - ownedBit, after which it counts
	// live slots plus shared pushes that have not finished; the page is
	// reclaimable exactly when it is 0.
	state atomic.Int64

	sharedHead atomic.Uint32
	slotSize   uint32

	cursor    uint32 // slots ever bumped
	localHead uint32 // exclusive free list
	inUse     uint32 // handed out - exclusive frees - drained
	_         uint32
}

const (
	// Size is the size and alignment of every page.
	Size = 4096

	mask = Size - 1

	headerSize   = int(unsafe.Sizeof(header{}))
	headerOffset = Size - headerSize

	// BufSize is the number of bytes available for slots.
	BufSize = headerOffset

	// none terminates both free lists.
	none = ^uint32(0)

	// ownedBit is added to state while a cache holds the page.
	ownedBit = int64(1) << 62
)

// MaxLen returns the number of slots of slotSize bytes that fit in a page.
func MaxLen(slotSize int) int {
	return BufSize / slotSize
}

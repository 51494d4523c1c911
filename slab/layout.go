package slab

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/page"
	"github.com/joshuapare/slabkit/internal/sizeclass"
)

const (
	// MaxSmallSize is the largest request served from slab pages.
	MaxSmallSize = sizeclass.MaxSize

	// PageSize is the size and alignment of every slab page.
	PageSize = page.Size
)

// Layout describes an allocation request.
//
// Slots are aligned to 8 bytes. Align larger than that is the caller's
// responsibility and is not checked.
type Layout struct {
	Size  int
	Align int
}

func (l Layout) check() {
	if l.Size < 0 {
		panic(fmt.Errorf("%w: size %d", ErrInvalidLayout, l.Size))
	}
}

// Bytes views n bytes at ptr as a slice.
func Bytes(ptr unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}

// ClassInfo describes one size class.
type ClassInfo struct {
	Class    int `json:"class"`
	SlotSize int `json:"slot_size"`
	Slots    int `json:"slots"` // slots per page
	Slack    int `json:"slack"` // unused bytes per page
}

// Classes returns the size-class table.
func Classes() []ClassInfo {
	classes := make([]ClassInfo, 0, sizeclass.Count)
	for c := 1; c <= sizeclass.Count; c++ {
		slot := sizeclass.SlotSize(c)
		n := page.MaxLen(slot)
		classes = append(classes, ClassInfo{
			Class:    c,
			SlotSize: slot,
			Slots:    n,
			Slack:    page.BufSize - n*slot,
		})
	}
	return classes
}

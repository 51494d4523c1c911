// Package sizeclass maps request sizes onto the 64 small-object classes.
//
// Classes are linear in 8-byte steps:
//
//	Class  1:   1 -   8 bytes
//	Class  2:   9 -  16 bytes
//	...
//	Class 64: 505 - 512 bytes
//
// Requests above MaxSize have no class and take the large-object path.
package sizeclass

const (
	// Unit is the slot granularity and the natural alignment of every slot.
	Unit = 8

	// Count is the number of small classes.
	Count = 64

	// MaxSize is the largest request served from slab pages.
	MaxSize = Unit * Count
)

// Of returns ceil(n/Unit) for 1 <= n <= MaxSize, 1 for n <= 0 and 0 for
// n > MaxSize.
func Of(n int) int {
	switch {
	case n <= 0:
		return 1
	case n > MaxSize:
		return 0
	}
	return (n + Unit - 1) / Unit
}

// Small reports whether n is served by a size class.
func Small(n int) bool {
	return n <= MaxSize
}

// SlotSize returns the slot size in bytes for class c.
func SlotSize(c int) int {
	return c * Unit
}

// ForSlot returns the class whose slots are slotSize bytes, or 0 when
// slotSize is not a class slot size.
func ForSlot(slotSize int) int {
	if slotSize < Unit || slotSize > MaxSize || slotSize%Unit != 0 {
		return 0
	}
	return slotSize / Unit
}

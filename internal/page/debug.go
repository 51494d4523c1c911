//go:build slabdebug

package page

import "fmt"

// poisonByte fills freed slots so stale reads stand out.
const poisonByte = 0xdb

func checkPointer(off, slotSize, maxLen int) {
	if off < 0 || off%slotSize != 0 || off/slotSize >= maxLen {
		panic(fmt.Errorf("%w: offset %d, slot size %d", ErrBadPointer, off, slotSize))
	}
}

func checkIndex(i, maxLen int) {
	if i < 0 || i >= maxLen {
		panic(fmt.Errorf("%w: index %d of %d", ErrBadPointer, i, maxLen))
	}
}

func poison(slot []byte) {
	for i := range slot {
		slot[i] = poisonByte
	}
}

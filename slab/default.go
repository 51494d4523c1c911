package slab

import "unsafe"

// Default is the process-wide allocator behind the package-level functions.
var Default = New()

// Alloc calls Default.Alloc.
func Alloc(l Layout) unsafe.Pointer {
	return Default.Alloc(l)
}

// AllocZeroed calls Default.AllocZeroed.
func AllocZeroed(l Layout) unsafe.Pointer {
	return Default.AllocZeroed(l)
}

// Free calls Default.Free.
func Free(ptr unsafe.Pointer, l Layout) {
	Default.Free(ptr, l)
}

// Realloc calls Default.Realloc.
func Realloc(ptr unsafe.Pointer, l Layout, newSize int) unsafe.Pointer {
	return Default.Realloc(ptr, l, newSize)
}

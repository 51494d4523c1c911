package slab

import "errors"

var (
	// ErrOutOfMemory indicates that the mapper could not supply a new page.
	ErrOutOfMemory = errors.New("slab: out of memory")

	// ErrInvalidLayout indicates a layout with a negative size.
	ErrInvalidLayout = errors.New("slab: invalid layout")
)

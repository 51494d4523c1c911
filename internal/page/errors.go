package page

import "errors"

var (
	// ErrRegionSize indicates a region that is not exactly Size bytes.
	ErrRegionSize = errors.New("page: region must be exactly 4096 bytes")

	// ErrRegionAlign indicates a region that does not start on a 4096-byte boundary.
	ErrRegionAlign = errors.New("page: region is not 4096-byte aligned")

	// ErrSlotSize indicates a slot size that is not a size-class slot size.
	ErrSlotSize = errors.New("page: slot size must be a multiple of 8 in [8, 512]")

	// ErrBadPointer indicates a pointer that does not address a slot of its page.
	ErrBadPointer = errors.New("page: pointer does not address a slot")
)

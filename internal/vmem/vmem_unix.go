//go:build unix

package vmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Map maps size bytes of private anonymous memory.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vmem: invalid mapping size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("vmem: mmap %d bytes: %w", size, err)
	}
	return data, nil
}

// Unmap releases a region returned by Map. The slice must span the whole
// mapping; a slice rebuilt from the base pointer with the original length is
// accepted.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("vmem: munmap %d bytes: %w", len(data), err)
	}
	return nil
}

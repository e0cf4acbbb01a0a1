//go:build linux || darwin || freebsd || netbsd || openbsd

package mempool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapSource maps each block as anonymous private memory. Blocks are
// page-aligned and are returned to the OS as soon as they are released.
type MmapSource struct{}

// Acquire implements BlockSource.
func (MmapSource) Acquire(size int) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d: %w", ErrOutOfMemory, size, err)
	}
	return b, nil
}

// Release implements BlockSource.
func (MmapSource) Release(b []byte) error {
	return unix.Munmap(b)
}

// Name implements BlockSource.
func (MmapSource) Name() string {
	return "mmap"
}

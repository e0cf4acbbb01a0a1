//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package mempool

// MmapSource falls back to the Go heap on platforms without anonymous
// mappings.
type MmapSource struct {
	HeapSource
}

// Name implements BlockSource.
func (MmapSource) Name() string {
	return "mmap(heap)"
}

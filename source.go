package mempool

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/dustin/go-humanize"
	"modernc.org/memory"
)

// BlockSource supplies the raw memory blocks a Pool carves into slots.
// Clones of a pool share its source, so a source must be safe for
// concurrent use.
type BlockSource interface {
	// Acquire returns a block of at least size bytes, aligned to at least
	// the platform word size.
	Acquire(size int) ([]byte, error)

	// Release returns a block obtained from Acquire.
	Release(b []byte) error

	// Name identifies the source in logs and metrics.
	Name() string
}

// HeapSource allocates blocks on the Go heap. Released blocks are left to
// the garbage collector.
type HeapSource struct{}

// Acquire implements BlockSource.
func (HeapSource) Acquire(size int) (b []byte, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid block size %d", ErrOutOfMemory, size)
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("%w: %v", ErrOutOfMemory, r)
		}
	}()
	// Back the block with words so its base is pointer-aligned.
	words := make([]uint64, (size+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size), nil
}

// Release implements BlockSource.
func (HeapSource) Release(b []byte) error {
	return nil
}

// Name implements BlockSource.
func (HeapSource) Name() string {
	return "heap"
}

// MallocSource allocates blocks outside the Go heap with a C-style
// malloc/free allocator. Close returns any blocks still held to the OS.
type MallocSource struct {
	mu sync.Mutex
	a  memory.Allocator
}

// NewMallocSource creates an off-heap block source.
func NewMallocSource() *MallocSource {
	return &MallocSource{}
}

// Acquire implements BlockSource.
func (s *MallocSource) Acquire(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.a.Malloc(size)
	if err != nil {
		return nil, fmt.Errorf("%w: malloc %d: %w", ErrOutOfMemory, size, err)
	}
	return b, nil
}

// Release implements BlockSource.
func (s *MallocSource) Release(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Free(b)
}

// Name implements BlockSource.
func (s *MallocSource) Name() string {
	return "malloc"
}

// Close frees every block the source still holds.
func (s *MallocSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Close()
}

// LimitSource caps the number of bytes another source may hand out at once.
// Requests past the limit fail with ErrOutOfMemory.
type LimitSource struct {
	src   BlockSource
	limit int

	mu   sync.Mutex
	used int
}

// NewLimitSource wraps src with a byte budget. A nil src selects the Go heap.
func NewLimitSource(src BlockSource, limit int) *LimitSource {
	if src == nil {
		src = HeapSource{}
	}
	return &LimitSource{src: src, limit: limit}
}

// Acquire implements BlockSource.
func (s *LimitSource) Acquire(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size > s.limit-s.used {
		return nil, fmt.Errorf("%w: limit %s reached (%s in use)", ErrOutOfMemory,
			humanize.IBytes(uint64(s.limit)), humanize.IBytes(uint64(s.used)))
	}
	b, err := s.src.Acquire(size)
	if err != nil {
		return nil, err
	}
	s.used += len(b)
	return b, nil
}

// Release implements BlockSource.
func (s *LimitSource) Release(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used -= len(b)
	return s.src.Release(b)
}

// Name implements BlockSource.
func (s *LimitSource) Name() string {
	return "limit(" + s.src.Name() + ")"
}

// Used returns the number of bytes currently handed out.
func (s *LimitSource) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

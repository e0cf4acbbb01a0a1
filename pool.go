package mempool

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"
)

// Pool is a fixed-size allocator for values of type T. Not goroutine-safe.
// Use SafePool for concurrent access.
//
// The zero Pool is not usable; create pools with NewPool.
type Pool[T any] struct {
	blocks []block        // owned blocks, in acquisition order
	head   int            // 1-based index of the most recent block, 0 if none
	cursor uintptr        // offset of the next never-issued slot in the head block
	bound  uintptr        // first offset in the head block at which no slot fits
	free   unsafe.Pointer // head of the free list

	layout    layout
	blockSize uintptr
	cfg       config

	live  int // slots handed out
	nfree int // slots on the free list
}

// NewPool creates an empty pool for T with the given block size.
// If blockSize <= 0, DefaultBlockSize is used. No memory is acquired until
// the first allocation.
//
// NewPool fails with ErrPointerElement if T holds Go pointers, and with
// ErrBlockTooSmall if a block cannot hold its header slot plus one element
// slot.
func NewPool[T any](blockSize int, opts ...Option) (*Pool[T], error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if t := reflect.TypeFor[T](); hasPointers(t) {
		return nil, fmt.Errorf("%w: %v", ErrPointerElement, t)
	}
	l := layoutOf[T]()
	if uintptr(blockSize) < 2*l.slotSize {
		return nil, fmt.Errorf("%w: block %d, slot %d", ErrBlockTooSmall, blockSize, l.slotSize)
	}
	return &Pool[T]{
		layout:    l,
		blockSize: uintptr(blockSize),
		cfg:       newConfig(opts),
	}, nil
}

// MustNewPool is like NewPool but panics on misconfiguration.
func MustNewPool[T any](blockSize int, opts ...Option) *Pool[T] {
	p, err := NewPool[T](blockSize, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Alloc returns uninitialized storage for one T.
// Freed slots are reused most-recent first; otherwise the next slot of the
// current block is issued, and a new block is acquired once the current one
// is exhausted. The only error is a wrapped ErrOutOfMemory from the block
// source, in which case the pool is unchanged.
func (p *Pool[T]) Alloc() (*T, error) {
	// Fast path: pop the free list
	if s := p.free; s != nil {
		if debugGuards {
			checkPoison(s, p.layout.slotSize)
		}
		p.free = slotLink(s)
		p.nfree--
		p.live++
		return (*T)(s), nil
	}

	if p.cursor >= p.bound {
		if err := p.acquireBlock(); err != nil {
			return nil, err
		}
	}
	s := unsafe.Add(p.blocks[p.head-1].base, p.cursor)
	p.cursor += p.layout.slotSize
	p.live++
	return (*T)(s), nil
}

// AllocN is Alloc with an explicit element count and locality hint.
// Only n == 1 is supported; the hint is ignored.
func (p *Pool[T]) AllocN(n int, hint *T) (*T, error) {
	if n != 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrBatchUnsupported, n)
	}
	return p.Alloc()
}

// Dealloc returns ptr's slot to the free list. ptr must have come from
// Alloc on this pool and must not already be free; neither is checked
// unless the package is built with the mempool_debug tag. A nil ptr is a
// no-op.
//
// Dealloc does not tear down the element; use Delete for live elements.
func (p *Pool[T]) Dealloc(ptr *T) {
	if ptr == nil {
		return
	}
	s := unsafe.Pointer(ptr)
	if debugGuards {
		p.checkDealloc(s)
		poisonSlot(s, p.layout.slotSize)
	}
	setSlotLink(s, p.free)
	p.free = s
	p.nfree++
	p.live--
}

// DeallocN is Dealloc with an explicit element count, which must be 1.
func (p *Pool[T]) DeallocN(ptr *T, n int) {
	if n != 1 {
		panic(fmt.Errorf("%w: n=%d", ErrBatchUnsupported, n))
	}
	p.Dealloc(ptr)
}

// MaxSize returns an advisory upper bound on the number of elements the
// pool could hold if every addressable block were acquired.
func (p *Pool[T]) MaxSize() int {
	maxBlocks := math.MaxInt / int(p.blockSize)
	return int(p.blockSize-p.layout.slotSize) / int(p.layout.slotSize) * maxBlocks
}

// Release returns every block to the source, most recently acquired
// first, and leaves the pool empty but usable. Pointers obtained from the
// pool are invalid afterwards. Releasing an empty pool is a no-op.
func (p *Pool[T]) Release() {
	p.releaseBlocks()
	p.reset()
}

// Clone returns a new, empty pool with the same block size, source and
// logger. No blocks or free slots are shared with p; the source is.
func (p *Pool[T]) Clone() *Pool[T] {
	return &Pool[T]{layout: p.layout, blockSize: p.blockSize, cfg: p.cfg}
}

// Move transfers all blocks and bookkeeping to a new pool and leaves p
// empty. Pointers obtained from p remain valid and belong to the result.
func (p *Pool[T]) Move() *Pool[T] {
	q := *p
	p.reset()
	return &q
}

// MoveFrom releases p's own blocks and takes over src's blocks, source and
// bookkeeping, leaving src empty. Moving a pool into itself is a no-op.
func (p *Pool[T]) MoveFrom(src *Pool[T]) {
	if p == src {
		return
	}
	p.Release()
	*p = *src
	src.reset()
}

func (p *Pool[T]) reset() {
	p.blocks = nil
	p.head = 0
	p.cursor, p.bound = 0, 0
	p.free = nil
	p.live, p.nfree = 0, 0
}

// checkDealloc panics if s is not a slot issued by p or is already free.
// Only called in debug builds.
func (p *Pool[T]) checkDealloc(s unsafe.Pointer) {
	addr := uintptr(s)
	owned := false
	for i := range p.blocks {
		b := &p.blocks[i]
		base := uintptr(b.base)
		if addr < base || addr >= base+p.blockSize {
			continue
		}
		body := p.layout.slotSize + pad(base+p.layout.slotSize, p.layout.slotAlign)
		off := addr - base
		if off < body || (off-body)%p.layout.slotSize != 0 {
			panic(fmt.Errorf("mempool: dealloc of misaligned slot %#x", addr))
		}
		if i == p.head-1 && off >= p.cursor {
			panic(fmt.Errorf("mempool: dealloc of never-issued slot %#x", addr))
		}
		owned = true
		break
	}
	if !owned {
		panic(fmt.Errorf("mempool: dealloc of foreign pointer %#x", addr))
	}
	for f := p.free; f != nil; f = slotLink(f) {
		if f == s {
			panic(fmt.Errorf("mempool: double free of slot %#x", addr))
		}
	}
}

package mempool

import "errors"

var (
	// ErrOutOfMemory indicates that the block source could not supply a new block.
	ErrOutOfMemory = errors.New("mempool: out of memory")

	// ErrBlockTooSmall indicates a block size that cannot hold the header slot plus one element slot.
	ErrBlockTooSmall = errors.New("mempool: block size must be at least twice the slot size")

	// ErrPointerElement indicates an element type whose layout contains Go pointers.
	// Blocks are not scanned by the garbage collector, so such elements cannot be pooled.
	ErrPointerElement = errors.New("mempool: element type must be pointer-free")

	// ErrBatchUnsupported indicates a request for more than one element per call.
	ErrBatchUnsupported = errors.New("mempool: only single-element allocation is supported")
)

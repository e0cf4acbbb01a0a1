// Package mempool implements a fixed-size object pool for Go.
//
// # Overview
//
// A Pool[T] hands out storage for exactly one T per call. Memory comes from
// a BlockSource in large fixed-size blocks; each block is carved into equal
// slots, and freed slots are recycled through an intrusive free list kept
// inside the slots themselves. Allocation and deallocation are O(1) and
// never touch the source except when a new block is needed.
//
// This is useful for:
//
//   - Large numbers of same-typed records with independent lifetimes
//   - Keeping hot objects off the garbage-collected heap
//   - Bounding memory growth with a LimitSource
//
// # Basic Usage
//
//	p, err := mempool.NewPool[Order](0) // Use default block size
//	if err != nil {
//		return err
//	}
//	defer p.Release() // Return all blocks
//
//	o, err := p.New(Order{ID: 1, Qty: 10})
//	if err != nil {
//		return err
//	}
//	// ...
//	p.Delete(o) // Slot goes back on the free list
//
// Alloc/Dealloc work on raw storage; Construct/Destroy turn raw storage into
// a live element and back. New and Delete combine the two.
//
// # Element Types
//
// Blocks are not scanned by the garbage collector, so T must not contain
// pointers, strings, slices, maps, channels, funcs or interfaces. NewPool
// rejects such types with ErrPointerElement.
//
// If *T implements Destroyer, Destroy and Delete call it before the slot is
// zeroed.
//
// # Memory Layout
//
// Every block starts with a header slot linking it to the block acquired
// before it. Slots follow, aligned to max(alignof T, pointer alignment). A
// block of size B holds (B - S) / S slots of size S. Blocks are only
// returned to the source by Release, newest first.
//
// # Block Sources
//
//   - HeapSource: Go heap (default)
//   - MallocSource: off-heap malloc/free
//   - MmapSource: anonymous memory mappings
//   - LimitSource: byte budget around another source
//
// # Thread Safety
//
// Pool is not thread-safe. Give each goroutine its own pool, or use
// SafePool:
//
//	sp, _ := mempool.NewSafePool[Order](0)
//	defer sp.Release()
//	o, _ := sp.New(Order{ID: 2})
//	sp.Delete(o)
//
// # Debug Builds
//
// Building with -tags mempool_debug poisons freed slots and panics on
// double frees, foreign pointers and writes after free. Release builds
// perform none of these checks.
package mempool

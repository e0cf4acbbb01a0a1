package mempool

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// NumBlocks returns the number of blocks currently owned by the pool.
func (p *Pool[T]) NumBlocks() int {
	return len(p.blocks)
}

// Capacity returns the total size in bytes of all blocks owned by the pool.
func (p *Pool[T]) Capacity() int {
	return len(p.blocks) * int(p.blockSize)
}

// InUse returns the number of slots currently handed out.
func (p *Pool[T]) InUse() int {
	return p.live
}

// FreeSlots returns the number of slots waiting on the free list.
func (p *Pool[T]) FreeSlots() int {
	return p.nfree
}

// SizeInUse returns the number of bytes occupied by slots currently handed out.
func (p *Pool[T]) SizeInUse() int {
	return p.live * int(p.layout.slotSize)
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the pool owns no blocks.
func (p *Pool[T]) Utilization() float64 {
	capacity := p.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(p.SizeInUse()) / float64(capacity)
}

// BlockSize returns the size of each block in bytes.
func (p *Pool[T]) BlockSize() int {
	return int(p.blockSize)
}

// SlotSize returns the size of each slot in bytes.
func (p *Pool[T]) SlotSize() int {
	return int(p.layout.slotSize)
}

// SlotsPerBlock returns how many slots a block holds when its base is
// aligned to the slot alignment, which every bundled source guarantees.
func (p *Pool[T]) SlotsPerBlock() int {
	return int((p.blockSize - p.layout.slotSize) / p.layout.slotSize)
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool[T]) Metrics() PoolMetrics {
	return PoolMetrics{
		Source:        p.cfg.source.Name(),
		BlockSize:     p.BlockSize(),
		SlotSize:      p.SlotSize(),
		SlotsPerBlock: p.SlotsPerBlock(),
		NumBlocks:     p.NumBlocks(),
		Capacity:      p.Capacity(),
		InUse:         p.InUse(),
		FreeSlots:     p.FreeSlots(),
		SizeInUse:     p.SizeInUse(),
		Utilization:   p.Utilization(),
	}
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	Source        string  // Block source name
	BlockSize     int     // Bytes per block
	SlotSize      int     // Bytes per slot
	SlotsPerBlock int     // Slots carved from each block
	NumBlocks     int     // Blocks owned
	Capacity      int     // Total block bytes
	InUse         int     // Slots handed out
	FreeSlots     int     // Slots on the free list
	SizeInUse     int     // Bytes handed out
	Utilization   float64 // Ratio of used to total capacity (0.0-1.0)
}

func (m PoolMetrics) String() string {
	return fmt.Sprintf("source=%s blocks=%d capacity=%s in_use=%d (%s) free=%d slot=%s util=%.2f%%",
		m.Source, m.NumBlocks, humanize.IBytes(uint64(m.Capacity)),
		m.InUse, humanize.IBytes(uint64(m.SizeInUse)), m.FreeSlots,
		humanize.IBytes(uint64(m.SlotSize)), m.Utilization*100)
}

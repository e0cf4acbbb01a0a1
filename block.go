package mempool

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// block is one fixed-size chunk obtained from the pool's BlockSource.
// The first slot-sized region is a header holding the 1-based index of the
// block acquired before it (0 for the first block); slots are carved from
// the aligned body that follows.
type block struct {
	buf  []byte         // backing memory, as returned by the source
	base unsafe.Pointer // &buf[0]
}

// prev returns the 1-based index of the previously acquired block.
func (b *block) prev() int {
	return int(binary.NativeEndian.Uint32(b.buf))
}

func (b *block) setPrev(i int) {
	binary.NativeEndian.PutUint32(b.buf, uint32(i))
}

// acquireBlock links a new block at the head of the chain and points the
// cursor at its first aligned slot. On failure the pool is left untouched.
func (p *Pool[T]) acquireBlock() error {
	src := p.cfg.source
	buf, err := src.Acquire(int(p.blockSize))
	if err != nil {
		p.cfg.logger.Warn("mempool: block acquisition failed",
			"source", src.Name(), "size", p.blockSize, "err", err)
		if !errors.Is(err, ErrOutOfMemory) {
			err = fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		}
		return err
	}
	if uintptr(len(buf)) < p.blockSize {
		p.releaseBuf(buf)
		return fmt.Errorf("%w: source %s returned %d bytes, want %d",
			ErrOutOfMemory, src.Name(), len(buf), p.blockSize)
	}

	b := block{buf: buf, base: unsafe.Pointer(unsafe.SliceData(buf))}
	body := p.layout.slotSize
	body += pad(uintptr(b.base)+body, p.layout.slotAlign)
	bound := p.blockSize - p.layout.slotSize + 1
	if body >= bound {
		p.releaseBuf(buf)
		return fmt.Errorf("%w: block at %#x has no aligned slot", ErrBlockTooSmall, uintptr(b.base))
	}

	b.setPrev(p.head)
	p.blocks = append(p.blocks, b)
	p.head = len(p.blocks)
	p.cursor, p.bound = body, bound

	p.cfg.logger.Debug("mempool: block acquired",
		"source", src.Name(), "block", p.head, "size", p.blockSize,
		"slots", (p.blockSize-body)/p.layout.slotSize)
	return nil
}

// releaseBlocks walks the chain from the most recent block back to the
// first and hands every block back to the source.
func (p *Pool[T]) releaseBlocks() {
	n := 0
	for i := p.head; i != 0; n++ {
		b := &p.blocks[i-1]
		prev := b.prev()
		if err := p.cfg.source.Release(b.buf); err != nil {
			p.cfg.logger.Warn("mempool: block release failed",
				"source", p.cfg.source.Name(), "block", i, "err", err)
		}
		i = prev
	}
	if n > 0 {
		p.cfg.logger.Debug("mempool: blocks released",
			"source", p.cfg.source.Name(), "blocks", n)
	}
}

// releaseBuf returns a block that never joined the chain.
func (p *Pool[T]) releaseBuf(buf []byte) {
	if err := p.cfg.source.Release(buf); err != nil {
		p.cfg.logger.Warn("mempool: block release failed",
			"source", p.cfg.source.Name(), "err", err)
	}
}

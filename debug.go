//go:build mempool_debug

package mempool

import (
	"fmt"
	"unsafe"
)

const debugGuards = true

const poisonByte = 0xdb

// poisonSlot fills everything past the free-list link with poisonByte.
func poisonSlot(s unsafe.Pointer, size uintptr) {
	b := unsafe.Slice((*byte)(s), size)[ptrSize:]
	for i := range b {
		b[i] = poisonByte
	}
}

// checkPoison panics if a free slot was written after it was deallocated.
func checkPoison(s unsafe.Pointer, size uintptr) {
	b := unsafe.Slice((*byte)(s), size)[ptrSize:]
	for i, c := range b {
		if c != poisonByte {
			panic(fmt.Errorf("mempool: slot %#x modified after free at byte %d",
				uintptr(s), uintptr(i)+ptrSize))
		}
	}
}

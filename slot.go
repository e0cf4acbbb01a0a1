package mempool

import (
	"reflect"
	"unsafe"
)

const (
	ptrSize  = unsafe.Sizeof(uintptr(0))
	ptrAlign = unsafe.Alignof(uintptr(0))
)

// layout describes how slots for one element type are carved from a block.
type layout struct {
	elemSize  uintptr // unsafe.Sizeof(T)
	slotSize  uintptr // element or link, rounded up to slotAlign
	slotAlign uintptr // max(alignof T, alignof pointer)
}

func layoutOf[T any]() layout {
	var zero T
	size, align := unsafe.Sizeof(zero), unsafe.Alignof(zero)
	l := layout{elemSize: size, slotSize: size, slotAlign: align}
	if l.slotAlign < ptrAlign {
		l.slotAlign = ptrAlign
	}
	if l.slotSize < ptrSize {
		l.slotSize = ptrSize
	}
	l.slotSize = alignUp(l.slotSize, l.slotAlign)
	return l
}

// alignUp rounds n up to a multiple of align, which must be a power of two.
func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// pad returns the number of bytes to add to addr to reach the next multiple
// of align.
func pad(addr, align uintptr) uintptr {
	return (align - addr%align) % align
}

// A slot holds either a live element or, while it sits on the free list, the
// address of the next free slot. The two views never overlap in time: slots
// leave the free list through slotLink and enter it through setSlotLink.
//
// Links are written as uintptr so that storing them into unscanned block
// memory never runs a write barrier against whatever element bytes were
// there before. They are read back through an unsafe.Pointer view of the
// same word.

// slotLink returns the next-free link of a slot that is on the free list.
func slotLink(s unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(s)
}

// setSlotLink turns s into a free-list cell pointing at next.
func setSlotLink(s, next unsafe.Pointer) {
	*(*uintptr)(s) = uintptr(next)
}

// hasPointers reports whether values of t carry Go pointers anywhere in
// their layout.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

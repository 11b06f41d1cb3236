package vec

import (
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// MaxZeroSizedCap is the capacity reported for zero-sized element types.
// They occupy no memory, so the only bound is the count itself.
const MaxZeroSizedCap = math.MaxInt

// StorageKind describes where a buffer keeps its elements.
type StorageKind int

const (
	// StorageNone: nothing is stored (zero-sized elements or empty buffer).
	StorageNone StorageKind = iota
	// StorageAllocator: a block from the process-wide Allocator.
	StorageAllocator
	// StorageHeap: garbage-collected typed memory, used for element types
	// that hold pointers.
	StorageHeap
)

func (k StorageKind) String() string {
	switch k {
	case StorageAllocator:
		return "allocator"
	case StorageHeap:
		return "heap"
	default:
		return "none"
	}
}

// RawBuffer owns storage for Cap() elements of T. It never tracks which
// slots are initialized; that is the owner's job.
//
// The zero value is an empty buffer. RawBuffer is not safe for concurrent use.
type RawBuffer[T any] struct {
	mem   []byte    // allocator block, nil unless kind == StorageAllocator
	slots []T       // typed view over mem, or heap storage; len == cap
	cap   int
	kind  StorageKind
	alloc Allocator // allocator that produced mem
}

// NewRawBuffer returns an empty buffer. No memory is allocated.
func NewRawBuffer[T any]() *RawBuffer[T] {
	return &RawBuffer[T]{}
}

// Cap returns the number of elements the buffer can hold.
func (b *RawBuffer[T]) Cap() int {
	if elemSize[T]() == 0 {
		return MaxZeroSizedCap
	}
	return b.cap
}

// ElemSize returns sizeof(T) in bytes.
func (b *RawBuffer[T]) ElemSize() int {
	return elemSize[T]()
}

// ReservedBytes returns the bytes held for element storage.
func (b *RawBuffer[T]) ReservedBytes() int {
	return b.cap * elemSize[T]()
}

// Storage reports where elements live.
func (b *RawBuffer[T]) Storage() StorageKind {
	return b.kind
}

// Grow doubles the capacity, starting at 1. It is meant to be called when
// the owner is about to store one element past Cap().
//
// Grow panics with ErrCapacityOverflow for zero-sized T (their capacity is
// already unbounded) or when doubling would exceed the addressable element
// count, and with ErrAllocationFailed when the allocator cannot deliver.
func (b *RawBuffer[T]) Grow() {
	size := elemSize[T]()
	if size == 0 {
		panic(errors.Wrap(ErrCapacityOverflow, "zero-sized element capacity exhausted"))
	}

	newCap := 1
	if b.cap > 0 {
		if b.cap > math.MaxInt/2/size {
			panic(errors.Wrapf(ErrCapacityOverflow, "cannot double capacity %d", b.cap))
		}
		newCap = 2 * b.cap
	}

	if b.cap == 0 {
		b.kind = StorageAllocator
		if holdsPointers(reflect.TypeFor[T]()) {
			b.kind = StorageHeap
		}
	}

	switch b.kind {
	case StorageHeap:
		slots := make([]T, newCap)
		copy(slots, b.slots)
		clear(b.slots)
		b.slots = slots
	default:
		if b.mem == nil {
			b.alloc = CurrentAllocator()
			b.mem = allocateBlock[T](b.alloc, newCap*size)
		} else {
			b.mem = reallocateBlock[T](b.alloc, newCap*size, b.mem)
		}
		b.slots = viewSlots[T](b.mem, newCap)
	}
	b.cap = newCap
}

// Release frees the storage using the current layout. It does not drop
// elements. Releasing an empty buffer, or one of zero-sized elements, is a
// no-op, and Release may be called more than once.
func (b *RawBuffer[T]) Release() {
	if b.cap == 0 || elemSize[T]() == 0 {
		return
	}
	if b.kind == StorageAllocator && b.mem != nil {
		b.alloc.Free(b.mem)
	}
	*b = RawBuffer[T]{}
}

// window returns the slots [0, n). n must not exceed Cap().
func (b *RawBuffer[T]) window(n int) []T {
	if elemSize[T]() == 0 {
		return zeroSizedSlots[T](n)
	}
	return b.slots[:n:n]
}

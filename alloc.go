package vec

import (
	"reflect"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// Allocator hands out raw byte blocks that back vector storage.
//
// The method set matches arrow's memory.Allocator, so memory.DefaultAllocator,
// memory.NewGoAllocator() and memory.NewCheckedAllocator(...) can be used
// as-is. Implementations signal failure by panicking or by returning a block
// shorter than requested; either is fatal for the vector.
type Allocator interface {
	// Allocate returns a block of exactly size bytes.
	Allocate(size int) []byte
	// Reallocate resizes b to size bytes, preserving its contents.
	Reallocate(size int, b []byte) []byte
	// Free releases a block previously returned by Allocate or Reallocate.
	Free(b []byte)
}

var _ Allocator = memory.DefaultAllocator

type allocatorRef struct {
	a Allocator
}

// processAllocator is shared by every RawBuffer in the process.
var processAllocator = atomic.NewPointer(&allocatorRef{a: memory.DefaultAllocator})

// CurrentAllocator returns the process-wide allocator new buffers draw from.
func CurrentAllocator() Allocator {
	return processAllocator.Load().a
}

// SetAllocator installs a as the process-wide allocator and returns the
// previous one. A nil a restores arrow's default Go allocator.
//
// Buffers that already hold a block keep using the allocator that produced
// it, so swapping allocators never frees memory with the wrong one.
func SetAllocator(a Allocator) Allocator {
	if a == nil {
		a = memory.DefaultAllocator
	}
	return processAllocator.Swap(&allocatorRef{a: a}).a
}

// zeroSizedBase anchors views over zero-sized element types.
var zeroSizedBase struct{}

func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func elemAlign[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// viewSlots reinterprets mem as n elements of T.
func viewSlots[T any](mem []byte, n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(mem))), n)
}

// zeroSizedSlots returns a synthetic view of n zero-sized elements.
func zeroSizedSlots[T any](n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(&zeroSizedBase)), n)
}

// allocateBlock asks a for size bytes aligned for T. Short or misaligned
// blocks are fatal.
func allocateBlock[T any](a Allocator, size int) []byte {
	return checkBlock[T](a.Allocate(size), size)
}

func reallocateBlock[T any](a Allocator, size int, old []byte) []byte {
	return checkBlock[T](a.Reallocate(size, old), size)
}

func checkBlock[T any](b []byte, size int) []byte {
	if len(b) < size {
		panic(errors.Wrapf(ErrAllocationFailed, "requested %d bytes, got %d", size, len(b)))
	}
	if addr := uintptr(unsafe.Pointer(unsafe.SliceData(b))); addr%elemAlign[T]() != 0 {
		panic(errors.Wrapf(ErrAllocationFailed, "block %#x not aligned to %d", addr, elemAlign[T]()))
	}
	return b[:size]
}

// holdsPointers reports whether values of t contain anything the garbage
// collector has to trace. Such values must not live in allocator bytes.
func holdsPointers(t reflect.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && holdsPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if holdsPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

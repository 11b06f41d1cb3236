// Package vec implements a growable contiguous vector on top of a raw byte
// allocator instead of the built-in append.
//
// # Overview
//
// Storage is split in two layers:
//
//   - RawBuffer owns a block sized for Cap() elements and knows only how to
//     allocate it, double it and free it.
//   - Vec owns a RawBuffer plus a length. Slots [0, Len()) are live values,
//     the rest is spare capacity that is never read or exposed.
//
// Two iterators move values out of a vector: IntoIter consumes the whole
// vector and frees the storage once exhausted or closed, Drain removes a
// range while the vector keeps its storage for reuse. Both finish on their
// own when the last element is yielded; Close is only needed when stopping
// early.
//
// # Basic Usage
//
//	v := vec.New[int]()
//	defer v.Release()
//
//	v.Push(1)
//	v.Push(3)
//	_ = v.Insert(1, 2)      // [1 2 3]
//	x, _ := v.Remove(0)     // x == 1, v == [2 3]
//	last, ok := v.Pop()     // 3, true
//	slices.Sort(v.Slice())  // plain slice view over live elements
//
//	it := v.IntoIter()      // v is now empty
//	for x := range it.All() {
//		_ = x
//	}
//	it.Close()
//
// # Growth
//
// Capacity doubles on demand: 0, 1, 2, 4, 8, ... It never shrinks. Zero-sized
// element types never allocate and report MaxZeroSizedCap.
//
// # Allocators
//
// One allocator serves the whole process; install it with SetAllocator. The
// contract is arrow's memory.Allocator, so memory.DefaultAllocator (the
// default) and memory.NewCheckedAllocator work directly. This package adds
// ArenaAllocator (chunked bump allocation), MmapAllocator (off-heap memory
// via modernc.org/memory), SafeAllocator (mutex) and InstrumentedAllocator
// (Prometheus metrics and go-kit logging). Config builds such a stack.
//
// Element types that contain pointers are kept in garbage-collected typed
// memory instead, since the collector does not scan raw allocator bytes.
//
// # Element Lifetime
//
// Types implementing Dropper are told when the container discards them:
// Release, Clear, Truncate and closing an iterator before it is exhausted.
// Values handed back to the caller are never dropped by the container.
//
// # Important Notes
//
//   - Vec, IntoIter and Drain are not goroutine-safe
//   - Slice() views are invalidated by any call that changes the length
//   - A vector must not be mutated while a Drain from it is open; doing so
//     panics. Release is the exception and closes the drain first
//   - Allocation failure panics with an error wrapping ErrAllocationFailed
package vec

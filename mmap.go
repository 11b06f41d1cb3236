package vec

import (
	"github.com/pkg/errors"
	"modernc.org/memory"
)

// MmapAllocator serves blocks from memory mapped outside the Go heap, via
// modernc.org/memory. Vector storage placed here is invisible to the garbage
// collector, which is why RawBuffer only uses allocator memory for element
// types without pointers.
//
// Not goroutine-safe. Close unmaps everything; blocks still held by vectors
// become invalid.
type MmapAllocator struct {
	m memory.Allocator
}

var _ Allocator = (*MmapAllocator)(nil)

// NewMmapAllocator returns an empty off-heap allocator.
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{}
}

// Allocate returns size bytes of off-heap memory. Failure is fatal.
func (a *MmapAllocator) Allocate(size int) []byte {
	b, err := a.m.Malloc(size)
	if err != nil {
		panic(errors.Wrapf(ErrAllocationFailed, "mmap malloc %d bytes: %v", size, err))
	}
	return b
}

// Reallocate resizes b, moving it if needed. Failure is fatal.
func (a *MmapAllocator) Reallocate(size int, b []byte) []byte {
	nb, err := a.m.Realloc(b, size)
	if err != nil {
		panic(errors.Wrapf(ErrAllocationFailed, "mmap realloc %d to %d bytes: %v", len(b), size, err))
	}
	return nb
}

// Free returns b to the allocator.
func (a *MmapAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	if err := a.m.Free(b); err != nil {
		panic(errors.Wrap(err, "mmap free"))
	}
}

// Close releases every mapping held by the allocator.
func (a *MmapAllocator) Close() error {
	return a.m.Close()
}

package vec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawBuffer_Empty(t *testing.T) {
	b := NewRawBuffer[int64]()
	require.Equal(t, 0, b.Cap())
	require.Equal(t, 0, b.ReservedBytes())
	require.Equal(t, StorageNone, b.Storage())

	// Releasing an empty buffer never reaches the allocator.
	counting := newCountingAllocator()
	withAllocator(t, counting)
	b.Release()
	require.Zero(t, counting.frees)
}

func TestRawBuffer_GrowDoubles(t *testing.T) {
	counting := newCountingAllocator()
	withAllocator(t, counting)

	var b RawBuffer[int32]
	for _, want := range []int{1, 2, 4, 8, 16, 32} {
		b.Grow()
		require.Equal(t, want, b.Cap())
		require.Equal(t, want*4, b.ReservedBytes())
	}
	require.Equal(t, StorageAllocator, b.Storage())
	require.Equal(t, 1, counting.allocs, "only the first growth allocates")
	require.Equal(t, 5, counting.reallocs)

	b.Release()
	require.Equal(t, 1, counting.frees)
	require.Equal(t, 0, b.Cap())

	// A second release is a no-op.
	b.Release()
	require.Equal(t, 1, counting.frees)
}

func TestRawBuffer_GrowKeepsContents(t *testing.T) {
	withCheckedAllocator(t)

	var b RawBuffer[uint64]
	b.Grow()
	b.window(1)[0] = 7
	for i := 0; i < 4; i++ {
		b.Grow()
	}
	require.Equal(t, uint64(7), b.window(1)[0])
	b.Release()
}

func TestRawBuffer_HeapStorageForPointers(t *testing.T) {
	counting := newCountingAllocator()
	withAllocator(t, counting)

	var b RawBuffer[string]
	b.Grow()
	b.window(1)[0] = "kept"
	b.Grow()
	b.Grow()

	require.Equal(t, StorageHeap, b.Storage())
	require.Equal(t, 4, b.Cap())
	require.Equal(t, "kept", b.window(1)[0])
	require.Zero(t, counting.allocs+counting.reallocs, "pointer types bypass the allocator")

	b.Release()
	require.Zero(t, counting.frees)
	require.Equal(t, 0, b.Cap())
}

func TestRawBuffer_ZeroSized(t *testing.T) {
	var b RawBuffer[struct{}]
	require.Equal(t, MaxZeroSizedCap, b.Cap())
	require.Equal(t, 0, b.ElemSize())
	require.Equal(t, StorageNone, b.Storage())

	err := recoverError(b.Grow)
	require.ErrorIs(t, err, ErrCapacityOverflow)

	b.Release()
	require.Equal(t, MaxZeroSizedCap, b.Cap())
}

func TestRawBuffer_ShortBlockIsFatal(t *testing.T) {
	withAllocator(t, shortAllocator{})

	var b RawBuffer[int64]
	err := recoverError(b.Grow)
	require.ErrorIs(t, err, ErrAllocationFailed)
}

func TestRawBuffer_KeepsOriginalAllocator(t *testing.T) {
	first := newCountingAllocator()
	second := newCountingAllocator()

	withAllocator(t, first)
	var b RawBuffer[int64]
	b.Grow()

	SetAllocator(second)
	b.Grow()
	b.Grow()
	b.Release()

	require.Equal(t, 1, first.allocs)
	require.Equal(t, 2, first.reallocs)
	require.Equal(t, 1, first.frees)
	require.Zero(t, second.allocs+second.reallocs+second.frees)
}

// shortAllocator hands out one byte less than asked for.
type shortAllocator struct{}

func (shortAllocator) Allocate(size int) []byte { return make([]byte, size-1) }

func (shortAllocator) Reallocate(size int, _ []byte) []byte { return make([]byte, size-1) }

func (shortAllocator) Free([]byte) {}

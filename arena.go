package vec

import "unsafe"

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
}

// ArenaAllocator is a chunked bump allocator that can back vectors.
// Blocks are carved sequentially out of large chunks; Free is a no-op and
// memory comes back all at once with Reset or Release. A buffer that is the
// most recent block of its chunk grows in place, which suits the doubling
// pattern of a single hot vector.
//
// Not goroutine-safe. Wrap it in a SafeAllocator before installing it with
// SetAllocator if vectors are built from several goroutines.
type ArenaAllocator struct {
	chunks       []chunk
	chunkSize    int
	currentChunk *chunk
}

var _ Allocator = (*ArenaAllocator)(nil)

// NewArenaAllocator creates an arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArenaAllocator(chunkSize int) *ArenaAllocator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &ArenaAllocator{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// Allocate returns size bytes from the current chunk, opening a new chunk
// when it does not fit. Returns nil if size <= 0.
func (a *ArenaAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	a.panicIfReleased()

	// Fast path: use cached current chunk
	if c := a.currentChunk; c != nil {
		off := alignPtr(c.offset)
		if off+uintptr(size) <= uintptr(len(c.buf)) {
			return c.take(off, size)
		}
	}

	a.grow(size)
	c := a.currentChunk
	return c.take(alignPtr(c.offset), size)
}

// Reallocate resizes b. Shrinking reslices; growing extends b in place when
// it is the last block of the current chunk and the chunk has room, and
// otherwise copies into a fresh block.
func (a *ArenaAllocator) Reallocate(size int, b []byte) []byte {
	if len(b) == 0 {
		return a.Allocate(size)
	}
	if size <= len(b) {
		return b[:size]
	}
	a.panicIfReleased()

	if c := a.currentChunk; c != nil && len(c.buf) > 0 {
		base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
		start := uintptr(unsafe.Pointer(unsafe.SliceData(b))) - base
		if start < uintptr(len(c.buf)) && start+uintptr(len(b)) == c.offset &&
			start+uintptr(size) <= uintptr(len(c.buf)) {
			return c.take(start, size)
		}
	}

	nb := a.Allocate(size)
	copy(nb, b)
	return nb
}

// Free is a no-op: arena memory is reclaimed by Reset or Release.
func (a *ArenaAllocator) Free([]byte) {}

// Reset rewinds every chunk but keeps them for reuse. Any block handed out
// earlier, and therefore any vector built on them, must no longer be used.
func (a *ArenaAllocator) Reset() {
	a.panicIfReleased()
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	if len(a.chunks) > 0 {
		a.currentChunk = &a.chunks[0]
	}
}

// Release drops all chunks and makes the arena unusable.
// Any subsequent allocation will panic.
func (a *ArenaAllocator) Release() {
	a.chunks = nil
	a.currentChunk = nil
}

// take hands out buf[off:off+size] and moves the offset past it.
func (c *chunk) take(off uintptr, size int) []byte {
	end := off + uintptr(size)
	c.offset = end
	return c.buf[off:end:end]
}

// grow appends a new chunk of at least min bytes and makes it current.
func (a *ArenaAllocator) grow(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.currentChunk = &a.chunks[len(a.chunks)-1]
}

// panicIfReleased panics if the arena has been released.
func (a *ArenaAllocator) panicIfReleased() {
	if a.chunks == nil {
		panic("vec: arena used after Release()")
	}
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	const align = unsafe.Sizeof(uintptr(0))
	mask := align - 1
	return (off + mask) & ^mask
}

package vec

import "sync"

// SafeAllocator is a mutex-protected wrapper around an Allocator. Vectors
// themselves stay unsynchronized, but they all share the process-wide
// allocator, so backends that are not goroutine-safe (ArenaAllocator,
// MmapAllocator) must be wrapped before vectors on different goroutines
// grow at the same time.
type SafeAllocator struct {
	mu sync.Mutex
	a  Allocator
}

var _ Allocator = (*SafeAllocator)(nil)

// NewSafeAllocator wraps a with a mutex.
func NewSafeAllocator(a Allocator) *SafeAllocator {
	return &SafeAllocator{a: a}
}

// Allocate thread-safely allocates size bytes.
func (s *SafeAllocator) Allocate(size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(size)
}

// Reallocate thread-safely resizes b.
func (s *SafeAllocator) Reallocate(size int, b []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Reallocate(size, b)
}

// Free thread-safely releases b.
func (s *SafeAllocator) Free(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Free(b)
}

// Unwrap returns the wrapped allocator.
func (s *SafeAllocator) Unwrap() Allocator {
	return s.a
}

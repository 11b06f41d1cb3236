package vec

import (
	"iter"

	"github.com/pkg/errors"
)

// Vec is a growable contiguous sequence of T backed by a RawBuffer.
// Elements [0, Len()) are live; the remaining capacity is never exposed.
//
// The zero value is an empty Vec ready to use. Vec is not goroutine-safe.
type Vec[T any] struct {
	buf   RawBuffer[T]
	len   int
	drain *Drain[T] // open drain borrowing buf, if any
}

// New returns an empty vector. No memory is allocated until the first Push.
func New[T any]() *Vec[T] {
	return &Vec[T]{}
}

// WithValues returns a vector holding values in order.
func WithValues[T any](values ...T) *Vec[T] {
	v := New[T]()
	v.Extend(values...)
	return v
}

// Len returns the number of live elements.
func (v *Vec[T]) Len() int {
	return v.len
}

// Cap returns the number of elements the current storage can hold.
func (v *Vec[T]) Cap() int {
	return v.buf.Cap()
}

// IsEmpty reports whether the vector has no live elements.
func (v *Vec[T]) IsEmpty() bool {
	return v.len == 0
}

// Push appends value, doubling the storage first when it is full.
func (v *Vec[T]) Push(value T) {
	v.panicIfDraining()
	if v.len == v.buf.Cap() {
		v.buf.Grow()
	}
	v.buf.window(v.len + 1)[v.len] = value
	v.len++
}

// Extend pushes values in order.
func (v *Vec[T]) Extend(values ...T) {
	for _, value := range values {
		v.Push(value)
	}
}

// Pop removes and returns the last element. It reports false when the
// vector is empty.
func (v *Vec[T]) Pop() (T, bool) {
	v.panicIfDraining()
	var zero T
	if v.len == 0 {
		return zero, false
	}
	v.len--
	s := v.buf.window(v.len + 1)
	value := s[v.len]
	s[v.len] = zero
	return value, true
}

// Insert places value at index, shifting [index, Len()) one slot right.
// index may equal Len(). Out-of-range indices return ErrIndexOutOfBounds
// and leave the vector untouched.
func (v *Vec[T]) Insert(index int, value T) error {
	v.panicIfDraining()
	if index < 0 || index > v.len {
		return errors.Wrapf(ErrIndexOutOfBounds, "insert at %d, len %d", index, v.len)
	}
	if v.len == v.buf.Cap() {
		v.buf.Grow()
	}
	s := v.buf.window(v.len + 1)
	copy(s[index+1:], s[index:v.len])
	s[index] = value
	v.len++
	return nil
}

// Remove deletes and returns the element at index, shifting the elements
// after it one slot left.
func (v *Vec[T]) Remove(index int) (T, error) {
	v.panicIfDraining()
	var zero T
	if index < 0 || index >= v.len {
		return zero, errors.Wrapf(ErrIndexOutOfBounds, "remove at %d, len %d", index, v.len)
	}
	s := v.buf.window(v.len)
	value := s[index]
	copy(s[index:], s[index+1:])
	s[v.len-1] = zero
	v.len--
	return value, nil
}

// SwapRemove deletes and returns the element at index by moving the last
// element into its place. It does not preserve order but runs in O(1).
func (v *Vec[T]) SwapRemove(index int) (T, error) {
	v.panicIfDraining()
	var zero T
	if index < 0 || index >= v.len {
		return zero, errors.Wrapf(ErrIndexOutOfBounds, "swap remove at %d, len %d", index, v.len)
	}
	s := v.buf.window(v.len)
	value := s[index]
	s[index] = s[v.len-1]
	s[v.len-1] = zero
	v.len--
	return value, nil
}

// At returns the element at index. It panics if index is out of range,
// exactly like indexing a slice.
func (v *Vec[T]) At(index int) T {
	return v.Slice()[index]
}

// Get returns the element at index, or false if index is out of range.
func (v *Vec[T]) Get(index int) (T, bool) {
	if index < 0 || index >= v.len {
		var zero T
		return zero, false
	}
	return v.buf.window(v.len)[index], true
}

// Slice returns the live elements as a slice sharing the vector's storage.
// Elements may be modified in place; its capacity is clamped to Len() so
// appending to it never writes into the vector's spare capacity. The view
// is invalidated by any call that grows or shrinks the vector.
func (v *Vec[T]) Slice() []T {
	return v.buf.window(v.len)
}

// All iterates over index/value pairs front to back without consuming.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, value := range v.Slice() {
			if !yield(i, value) {
				return
			}
		}
	}
}

// Backward iterates over index/value pairs back to front without consuming.
func (v *Vec[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s := v.Slice()
		for i := len(s) - 1; i >= 0; i-- {
			if !yield(i, s[i]) {
				return
			}
		}
	}
}

// Truncate drops every element at index n and beyond. It does nothing when
// n >= Len(). Capacity is kept.
func (v *Vec[T]) Truncate(n int) {
	v.panicIfDraining()
	if n < 0 {
		n = 0
	}
	if n >= v.len {
		return
	}
	tail := v.buf.window(v.len)[n:]
	v.len = n
	dropSlots(tail)
}

// Clear drops every element and keeps the storage for reuse.
func (v *Vec[T]) Clear() {
	v.Truncate(0)
}

// Release drops every element front to back, then frees the storage.
// An open Drain is closed first. The vector is empty afterwards and may be
// reused.
func (v *Vec[T]) Release() {
	if v.drain != nil {
		v.drain.Close()
	}
	v.Clear()
	v.buf.Release()
}

// panicIfDraining panics if a Drain currently borrows the storage.
func (v *Vec[T]) panicIfDraining() {
	if v.drain != nil {
		panic(errDrainOpen)
	}
}

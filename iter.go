package vec

import (
	"iter"

	"github.com/pkg/errors"
)

// rawValIter moves values out of slots [start, end) from either end.
// Every yielded slot is zeroed so nothing is yielded or dropped twice.
type rawValIter[T any] struct {
	slots []T
	start int
	end   int
}

func (it *rawValIter[T]) next() (T, bool) {
	var zero T
	if it.start == it.end {
		return zero, false
	}
	value := it.slots[it.start]
	it.slots[it.start] = zero
	it.start++
	return value, true
}

func (it *rawValIter[T]) nextBack() (T, bool) {
	var zero T
	if it.start == it.end {
		return zero, false
	}
	it.end--
	value := it.slots[it.end]
	it.slots[it.end] = zero
	return value, true
}

func (it *rawValIter[T]) len() int {
	return it.end - it.start
}

// dropRemaining drops everything not yet yielded and exhausts the range.
func (it *rawValIter[T]) dropRemaining() {
	dropSlots(it.slots[it.start:it.end])
	it.start = it.end
}

// seqOf adapts a pull function to a range-over-func sequence.
func seqOf[T any](pull func() (T, bool)) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			value, ok := pull()
			if !ok || !yield(value) {
				return
			}
		}
	}
}

// IntoIter owns a vector's storage and hands out its elements by value.
// The storage is freed as soon as the last element is yielded. An iterator
// abandoned early must be closed, which drops whatever was not yielded.
type IntoIter[T any] struct {
	buf  RawBuffer[T]
	iter rawValIter[T]
}

// IntoIter moves the vector's elements and storage into a consuming
// iterator. The vector is left empty, with no storage, and may be reused.
func (v *Vec[T]) IntoIter() *IntoIter[T] {
	v.panicIfDraining()
	it := &IntoIter[T]{
		buf:  v.buf,
		iter: rawValIter[T]{slots: v.buf.window(v.len), end: v.len},
	}
	v.buf = RawBuffer[T]{}
	v.len = 0
	it.closeIfExhausted()
	return it
}

// Next returns the front element.
func (it *IntoIter[T]) Next() (T, bool) {
	value, ok := it.iter.next()
	it.closeIfExhausted()
	return value, ok
}

// NextBack returns the back element.
func (it *IntoIter[T]) NextBack() (T, bool) {
	value, ok := it.iter.nextBack()
	it.closeIfExhausted()
	return value, ok
}

// Len returns the exact number of elements left.
func (it *IntoIter[T]) Len() int {
	return it.iter.len()
}

// All yields the remaining elements front to back. Ranging to the end
// frees the storage; breaking out early leaves the rest for later.
func (it *IntoIter[T]) All() iter.Seq[T] {
	return seqOf(it.Next)
}

// Backward yields the remaining elements back to front.
func (it *IntoIter[T]) Backward() iter.Seq[T] {
	return seqOf(it.NextBack)
}

// Collect moves the remaining elements into a new slice and closes the
// iterator.
func (it *IntoIter[T]) Collect() []T {
	out := make([]T, 0, it.Len())
	for value := range it.All() {
		out = append(out, value)
	}
	it.Close()
	return out
}

// Close drops the elements not yet yielded and frees the storage. It is
// safe to call more than once.
func (it *IntoIter[T]) Close() {
	it.iter.dropRemaining()
	it.iter = rawValIter[T]{}
	it.buf.Release()
}

func (it *IntoIter[T]) closeIfExhausted() {
	if it.iter.len() == 0 {
		it.Close()
	}
}

// Drain borrows a vector's storage and moves a range of its elements out.
// While a Drain is open the vector reports only the elements before the
// range, and any mutation of the vector other than Release panics. The
// drain finishes when its last element is yielded or when Close is called:
// whatever was not yielded is dropped, the elements after the range slide
// back into place and the vector gets its storage back at full capacity.
type Drain[T any] struct {
	vec       *Vec[T]
	iter      rawValIter[T]
	tailStart int
	tailLen   int
}

// Drain moves out every element. The vector's length drops to zero at once,
// so a Drain that is never closed can not cause an element to be yielded or
// dropped twice.
func (v *Vec[T]) Drain() *Drain[T] {
	d, _ := v.DrainRange(0, v.len)
	return d
}

// DrainRange moves out the elements in [lo, hi). It returns
// ErrIndexOutOfBounds unless 0 <= lo <= hi <= Len().
func (v *Vec[T]) DrainRange(lo, hi int) (*Drain[T], error) {
	v.panicIfDraining()
	if lo < 0 || hi < lo || hi > v.len {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "drain range [%d, %d), len %d", lo, hi, v.len)
	}
	d := &Drain[T]{
		vec:       v,
		iter:      rawValIter[T]{slots: v.buf.window(v.len), start: lo, end: hi},
		tailStart: hi,
		tailLen:   v.len - hi,
	}
	v.len = lo
	v.drain = d
	d.closeIfExhausted()
	return d, nil
}

// Next returns the front element of the drained range.
func (d *Drain[T]) Next() (T, bool) {
	value, ok := d.iter.next()
	d.closeIfExhausted()
	return value, ok
}

// NextBack returns the back element of the drained range.
func (d *Drain[T]) NextBack() (T, bool) {
	value, ok := d.iter.nextBack()
	d.closeIfExhausted()
	return value, ok
}

// Len returns the exact number of elements left in the drained range.
func (d *Drain[T]) Len() int {
	return d.iter.len()
}

// All yields the remaining drained elements front to back. Ranging to the
// end finishes the drain.
func (d *Drain[T]) All() iter.Seq[T] {
	return seqOf(d.Next)
}

// Backward yields the remaining drained elements back to front.
func (d *Drain[T]) Backward() iter.Seq[T] {
	return seqOf(d.NextBack)
}

// Collect moves the remaining drained elements into a new slice and closes
// the drain.
func (d *Drain[T]) Collect() []T {
	out := make([]T, 0, d.Len())
	for value := range d.All() {
		out = append(out, value)
	}
	d.Close()
	return out
}

// Close finishes the drain. It is safe to call more than once.
func (d *Drain[T]) Close() {
	if d.vec == nil {
		return
	}
	d.iter.dropRemaining()

	v := d.vec
	lo := v.len
	if d.tailLen > 0 && d.tailStart != lo {
		s := d.iter.slots
		copy(s[lo:], s[d.tailStart:d.tailStart+d.tailLen])
		clear(s[lo+d.tailLen : d.tailStart+d.tailLen])
	}
	v.len = lo + d.tailLen
	v.drain = nil

	d.vec = nil
	d.iter = rawValIter[T]{}
}

func (d *Drain[T]) closeIfExhausted() {
	if d.iter.len() == 0 {
		d.Close()
	}
}

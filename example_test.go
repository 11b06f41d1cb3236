package vec

import (
	"fmt"
	"slices"
)

// Example demonstrates basic vector usage
func Example() {
	v := New[int]()
	defer v.Release() // Always clean up

	for i := range 5 {
		v.Push(i * 10)
	}
	fmt.Printf("len=%d cap=%d\n", v.Len(), v.Cap())

	_ = v.Insert(1, 5)
	removed, _ := v.Remove(3)
	fmt.Printf("removed %d, now %v\n", removed, v.Slice())

	last, _ := v.Pop()
	fmt.Printf("popped %d\n", last)

	// The slice view works with any slice algorithm.
	slices.Reverse(v.Slice())
	fmt.Println(v.Slice())

	// Output:
	// len=5 cap=8
	// removed 20, now [0 5 10 30 40]
	// popped 40
	// [30 10 5 0]
}

// ExampleVec_IntoIter demonstrates consuming a vector from both ends
func ExampleVec_IntoIter() {
	v := WithValues("a", "b", "c", "d")

	it := v.IntoIter()
	defer it.Close()

	front, _ := it.Next()
	back, _ := it.NextBack()
	fmt.Println(front, back, it.Len())

	for s := range it.All() {
		fmt.Println(s)
	}
	fmt.Println("source len:", v.Len())

	// Output:
	// a d 2
	// b
	// c
	// source len: 0
}

// ExampleVec_DrainRange demonstrates removing a range while keeping storage
func ExampleVec_DrainRange() {
	v := WithValues(1, 2, 3, 4, 5)
	defer v.Release()

	d, err := v.DrainRange(1, 3)
	if err != nil {
		panic(err)
	}
	fmt.Println(d.Collect())
	fmt.Println(v.Slice(), v.Cap())

	// Output:
	// [2 3]
	// [1 4 5] 8
}

type connection struct {
	name string
}

func (c connection) Drop() {
	fmt.Println("closing", c.name)
}

// ExampleDropper demonstrates element cleanup on release
func ExampleDropper() {
	v := WithValues(connection{"db"}, connection{"cache"}, connection{"queue"})

	kept, _ := v.Remove(1)
	v.Release()
	fmt.Println("still own", kept.name)

	// Output:
	// closing db
	// closing queue
	// still own cache
}

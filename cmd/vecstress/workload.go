package main

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/vec"
)

// Workload names accepted by the run command.
const (
	workloadPush   = "push"
	workloadInsert = "insert"
	workloadDrain  = "drain"
	workloadIter   = "iter"
	workloadAll    = "all"
)

var workloadNames = []string{workloadPush, workloadInsert, workloadDrain, workloadIter}

// record holds pointers, so its vectors use garbage-collected storage.
type record struct {
	id    int64
	label string
	tags  []string
}

type workload func(n int) (checksum int64, err error)

var workloads = map[string]workload{
	workloadPush:   pushWorkload,
	workloadInsert: insertWorkload,
	workloadDrain:  drainWorkload,
	workloadIter:   iterWorkload,
}

func pushWorkload(n int) (int64, error) {
	ints := vec.New[int64]()
	defer ints.Release()
	recs := vec.New[record]()
	defer recs.Release()

	for i := range n {
		ints.Push(int64(i))
		recs.Push(record{id: int64(i), label: strconv.Itoa(i)})
	}

	var sum int64
	for ints.Len() > 0 {
		x, _ := ints.Pop()
		r, _ := recs.Pop()
		if x != r.id {
			return 0, errors.Errorf("pop mismatch: %d != %d", x, r.id)
		}
		sum += x
	}
	return sum, nil
}

func insertWorkload(n int) (int64, error) {
	v := vec.New[int64]()
	defer v.Release()

	// Midpoint inserts and removes shift half the vector every time.
	for i := range n {
		if err := v.Insert(v.Len()/2, int64(i)); err != nil {
			return 0, errors.Wrap(err, "insert")
		}
	}

	var sum int64
	for v.Len() > 0 {
		x, err := v.Remove(v.Len() / 2)
		if err != nil {
			return 0, errors.Wrap(err, "remove")
		}
		sum += x
	}
	return sum, nil
}

func drainWorkload(n int) (int64, error) {
	v := vec.New[record]()
	defer v.Release()
	ids := vec.New[int64]()
	defer ids.Release()

	var sum int64
	for round := 0; round < 4; round++ {
		for i := range n {
			v.Push(record{id: int64(i), tags: []string{"round", strconv.Itoa(round)}})
			ids.Push(int64(i))
		}

		d, err := v.DrainRange(v.Len()/4, v.Len()/2)
		if err != nil {
			return 0, errors.Wrap(err, "drain records")
		}
		for r := range d.All() {
			sum += r.id
		}
		d.Close()

		for _, x := range ids.Drain().Collect() {
			sum += x
		}
		v.Clear()
	}
	return sum, nil
}

func iterWorkload(n int) (int64, error) {
	v := vec.New[int64]()
	for i := range n {
		v.Push(int64(i))
	}

	it := v.IntoIter()
	defer it.Close()

	var sum int64
	for it.Len() > 0 {
		front, _ := it.Next()
		sum += front
		if back, ok := it.NextBack(); ok {
			sum += back
		}
	}
	return sum, nil
}

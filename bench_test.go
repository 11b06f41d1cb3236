package vec_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/pavanmanishd/vec"
)

// BenchmarkPush compares appending to a Vec against a built-in slice.
func BenchmarkPush(b *testing.B) {
	sizes := []int{16, 1024, 65536}

	for _, n := range sizes {
		b.Run(fmt.Sprintf("Vec_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				v := vec.New[int64]()
				for j := 0; j < n; j++ {
					v.Push(int64(j))
				}
				v.Release()
			}
		})

		b.Run(fmt.Sprintf("Builtin_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var s []int64
				for j := 0; j < n; j++ {
					s = append(s, int64(j))
				}
				_ = s
			}
		})
	}
}

// BenchmarkInsertFront is the worst case for shifting.
func BenchmarkInsertFront(b *testing.B) {
	const n = 1024

	b.Run("Vec", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			v := vec.New[int64]()
			for j := 0; j < n; j++ {
				_ = v.Insert(0, int64(j))
			}
			v.Release()
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var s []int64
			for j := 0; j < n; j++ {
				s = append(s, 0)
				copy(s[1:], s)
				s[0] = int64(j)
			}
			_ = s
		}
	})
}

// BenchmarkDrainReuse fills and drains one vector repeatedly, keeping its storage.
func BenchmarkDrainReuse(b *testing.B) {
	type record struct {
		ID    int64
		Score float64
		Data  [48]byte
	}

	v := vec.New[record]()
	defer v.Release()
	b.ReportAllocs()
	b.ResetTimer()

	var sum int64
	for i := 0; i < b.N; i++ {
		for j := 0; j < 100; j++ {
			v.Push(record{ID: int64(j)})
		}
		d := v.Drain()
		for r := range d.All() {
			sum += r.ID
		}
		d.Close()
	}
	_ = sum
}

// BenchmarkIntoIter measures consuming a vector by value.
func BenchmarkIntoIter(b *testing.B) {
	for i := 0; i < b.N; i++ {
		v := vec.New[int64]()
		for j := 0; j < 256; j++ {
			v.Push(int64(j))
		}
		it := v.IntoIter()
		for range it.All() {
		}
		it.Close()
	}
}

// BenchmarkAllocators runs the same growth workload on every backend.
func BenchmarkAllocators(b *testing.B) {
	backends := []struct {
		name string
		new  func() (vec.Allocator, func())
	}{
		{"Go", func() (vec.Allocator, func()) {
			return memory.NewGoAllocator(), func() {}
		}},
		{"Mmap", func() (vec.Allocator, func()) {
			m := vec.NewMmapAllocator()
			return m, func() { _ = m.Close() }
		}},
		{"Arena", func() (vec.Allocator, func()) {
			a := vec.NewArenaAllocator(64 * 1024)
			return a, a.Release
		}},
		{"SafeArena", func() (vec.Allocator, func()) {
			a := vec.NewArenaAllocator(64 * 1024)
			return vec.NewSafeAllocator(a), a.Release
		}},
	}

	for _, be := range backends {
		b.Run(be.name, func(b *testing.B) {
			a, done := be.new()
			prev := vec.SetAllocator(a)
			defer func() {
				vec.SetAllocator(prev)
				done()
			}()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				v := vec.New[int64]()
				for j := 0; j < 512; j++ {
					v.Push(int64(j))
				}
				v.Release()
				if ar, ok := a.(*vec.ArenaAllocator); ok && i%64 == 63 {
					ar.Reset()
				}
			}
		})
	}
}

// BenchmarkConcurrentVectors has each goroutine own a vector on a shared allocator.
func BenchmarkConcurrentVectors(b *testing.B) {
	for _, workers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("Workers_%d", workers), func(b *testing.B) {
			prev := vec.SetAllocator(vec.NewSafeAllocator(memory.NewGoAllocator()))
			defer vec.SetAllocator(prev)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var wg sync.WaitGroup
				for w := 0; w < workers; w++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						v := vec.New[int32]()
						for j := 0; j < 256; j++ {
							v.Push(int32(j))
						}
						v.Release()
					}()
				}
				wg.Wait()
			}
		})
	}
}

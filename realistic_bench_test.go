package mempool

import (
	"fmt"
	"runtime"
	"testing"
)

type benchRecord struct {
	ID   int64
	Data [56]byte // Total 64 bytes
}

// BenchmarkRealisticUsage tests scenarios where a pool should excel
func BenchmarkRealisticUsage(b *testing.B) {

	// Test 1: Steady churn of same-sized records
	b.Run("Churn/Pool", func(b *testing.B) {
		p := MustNewPool[benchRecord](64 * 1024)
		defer p.Release()
		live := make([]*benchRecord, 0, 100)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				r, _ := p.New(benchRecord{ID: int64(j)})
				live = append(live, r)
			}
			for _, r := range live {
				p.Delete(r)
			}
			live = live[:0]
		}
	})

	b.Run("Churn/Builtin", func(b *testing.B) {
		live := make([]*benchRecord, 0, 100)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				live = append(live, &benchRecord{ID: int64(j)})
			}
			live = live[:0]
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Test 2: Element sizes across slot classes
	for _, size := range []string{"8B", "64B", "512B"} {
		b.Run("Sizes/"+size, func(b *testing.B) {
			switch size {
			case "8B":
				benchAllocFree[int64](b)
			case "64B":
				benchAllocFree[benchRecord](b)
			case "512B":
				benchAllocFree[[512]byte](b)
			}
		})
	}

	// Test 3: Growth from empty, the worst case for a pool
	b.Run("GrowFromEmpty", func(b *testing.B) {
		for _, blockSize := range []int{4096, 64 * 1024} {
			b.Run(fmt.Sprintf("block-%d", blockSize), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					p := MustNewPool[benchRecord](blockSize)
					for j := 0; j < 1000; j++ {
						p.Alloc()
					}
					p.Release()
				}
			})
		}
	})
}

func benchAllocFree[T any](b *testing.B) {
	p := MustNewPool[T](64 * 1024)
	defer p.Release()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, _ := p.Alloc()
		p.Dealloc(v)
	}
}

// BenchmarkConcurrencyPatterns compares a shared SafePool with one pool per goroutine
func BenchmarkConcurrencyPatterns(b *testing.B) {
	b.Run("SafePool_Parallel", func(b *testing.B) {
		s, _ := NewSafePool[benchRecord](64 * 1024)
		defer s.Release()

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				r, _ := s.Alloc()
				s.Dealloc(r)
			}
		})
	})

	b.Run("Pool_PerGoroutine", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			p := MustNewPool[benchRecord](64 * 1024)
			defer p.Release()
			for pb.Next() {
				r, _ := p.Alloc()
				p.Dealloc(r)
			}
		})
	})

	b.Run("Builtin_Parallel", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			var sink *benchRecord
			for pb.Next() {
				sink = &benchRecord{}
			}
			_ = sink
		})
	})
}

package threadpool

import (
	"sync/atomic"
	"testing"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	const n = 50
	var seen [n]atomic.Int32
	p := New(8)
	p.ForEach(n, func(i int) {
		seen[i].Add(1)
	})
	for i, c := range seen {
		if c.Load() != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c.Load())
		}
	}
}

func TestNoneRunsSynchronouslyInOrder(t *testing.T) {
	var order []int
	None.ForEach(5, func(i int) {
		order = append(order, i)
	})
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want ascending from 0", order)
		}
	}
}

func TestForEachZeroIsNoop(t *testing.T) {
	called := false
	New(4).ForEach(0, func(i int) { called = true })
	if called {
		t.Fatal("ForEach(0, ...) invoked fn")
	}
}

func TestNewNegativeWorkersDegradesToSynchronous(t *testing.T) {
	p := New(-3)
	var total atomic.Int32
	p.ForEach(10, func(i int) { total.Add(1) })
	if total.Load() != 10 {
		t.Fatalf("total = %d, want 10", total.Load())
	}
}

func TestScopeWaitsForSpawnedWork(t *testing.T) {
	p := New(4)
	var total atomic.Int32
	p.Scope(func(s *Spawner) {
		for i := 0; i < 20; i++ {
			s.Spawn(func() { total.Add(1) })
		}
	})
	if total.Load() != 20 {
		t.Fatalf("total = %d, want 20", total.Load())
	}
}

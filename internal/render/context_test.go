package render

import (
	"testing"

	"github.com/jxlcore/jxl/internal/imageheader"
	"github.com/jxlcore/jxl/internal/xerr"
)

func TestNewRenderContextDefaultsToUnlimitedAndSynchronous(t *testing.T) {
	rc := NewRenderContext(&imageheader.Header{})
	if _, err := rc.Alloc.Reserve(1 << 40); err != nil {
		t.Fatalf("default Alloc should be unlimited, got: %v", err)
	}
	visited := 0
	rc.Pool.ForEach(10, func(i int) { visited++ })
	if visited != 10 {
		t.Fatalf("default Pool should run every job, visited = %d", visited)
	}
}

func TestWithBudgetCapsReservations(t *testing.T) {
	rc := NewRenderContext(&imageheader.Header{}).WithBudget(100)
	if _, err := rc.Alloc.Reserve(50); err != nil {
		t.Fatalf("Reserve within budget: %v", err)
	}
	_, err := rc.Alloc.Reserve(100)
	if err == nil || !xerr.Is(err, xerr.OutOfMemory) {
		t.Fatalf("Reserve over budget = %v, want xerr.OutOfMemory", err)
	}
}

func TestWithWorkersConfiguresPool(t *testing.T) {
	rc := NewRenderContext(&imageheader.Header{}).WithWorkers(4)
	seen := make([]bool, 16)
	rc.Pool.ForEach(len(seen), func(i int) { seen[i] = true })
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d never visited", i)
		}
	}
}

func TestCanvasByteSizeAccountsForExtraChannels(t *testing.T) {
	base := canvasByteSize(100, 50, 0)
	withExtra := canvasByteSize(100, 50, 2)
	if base != 100*50*3*4 {
		t.Fatalf("canvasByteSize(no extra) = %d, want %d", base, 100*50*3*4)
	}
	if withExtra-base != 100*50*2*4 {
		t.Fatalf("extra channel delta = %d, want %d", withExtra-base, 100*50*2*4)
	}
}

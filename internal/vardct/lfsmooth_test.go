package vardct

import "testing"

func TestSmoothLfChannelLeavesUniformGridUnchanged(t *testing.T) {
	grid := make([]float32, 25)
	for i := range grid {
		grid[i] = 3
	}
	SmoothLfChannel(grid, 5, 5, 1.0)
	for i, v := range grid {
		if !almostEqual(v, 3, 1e-4) {
			t.Fatalf("sample %d = %v, want unchanged 3", i, v)
		}
	}
}

func TestSmoothLfChannelSkipsTooSmallGrids(t *testing.T) {
	grid := []float32{1, 2, 3, 4}
	orig := append([]float32(nil), grid...)
	SmoothLfChannel(grid, 2, 2, 1.0)
	for i := range grid {
		if grid[i] != orig[i] {
			t.Fatalf("SmoothLfChannel modified a grid smaller than 3x3: %v", grid)
		}
	}
}

func TestSmoothLfChannelLeavesSharpEdgeAlone(t *testing.T) {
	// A large step between the center and its neighbors should exceed the
	// gating threshold (scaled by a large lfDequant) and be left untouched.
	grid := []float32{
		0, 0, 0,
		0, 1000, 0,
		0, 0, 0,
	}
	before := grid[4]
	SmoothLfChannel(grid, 3, 3, 100.0)
	if grid[4] != before {
		t.Fatalf("center = %v, want untouched %v (edge should not be smoothed)", grid[4], before)
	}
}

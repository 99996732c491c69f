package features

import "testing"

func TestUpsampleFactorOneIsIdentity(t *testing.T) {
	grid := []float32{1, 2, 3, 4}
	out := Upsample(grid, 2, 2, 2, 2, 1, nil)
	if &out[0] != &grid[0] {
		t.Fatal("Upsample(factor=1) should return the input slice unchanged")
	}
}

func TestUpsampleInvalidFactorIsIdentity(t *testing.T) {
	grid := []float32{1, 2, 3, 4}
	out := Upsample(grid, 2, 2, 6, 6, 3, nil)
	if len(out) != len(grid) {
		t.Fatalf("Upsample with unsupported factor should pass the grid through unchanged, got len %d", len(out))
	}
}

func TestUpsampleFactorTwoProducesFrameSizedOutput(t *testing.T) {
	grid := make([]float32, 4*4)
	for i := range grid {
		grid[i] = float32(i)
	}
	weights := make([]float32, 25) // matN=1 -> one 5x5 sub-kernel
	weights[9] = 1                 // center tap (2,2) only, in packed upper-triangle order
	out := Upsample(grid, 4, 4, 8, 8, 2, weights)
	if len(out) != 8*8 {
		t.Fatalf("len(out) = %d, want 64", len(out))
	}
}

func TestUpsampleClampsToNeighborhoodRange(t *testing.T) {
	grid := []float32{0, 0, 0, 10, 0, 0, 0, 0, 0}
	weights := make([]float32, 25)
	for i := range weights {
		weights[i] = 100 // deliberately huge weight to force clamping
	}
	out := Upsample(grid, 3, 3, 6, 6, 2, weights)
	for i, v := range out {
		if v < 0 || v > 10 {
			t.Fatalf("sample %d = %v, want clamped within input neighborhood range [0,10]", i, v)
		}
	}
}

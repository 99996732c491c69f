package vardct

import "testing"

func TestApplyChromaFromLumaAddsScaledLuma(t *testing.T) {
	x := []float32{0, 0}
	b := []float32{0, 0}
	y := []float32{2, 4}
	ApplyChromaFromLuma(x, b, y, 2, 1, 1, 2, 4)
	// cf=4, kX=1, kB=2: x += (1/4)*y, b += (2/4)*y
	if !almostEqual(x[0], 0.5, 1e-6) || !almostEqual(x[1], 1, 1e-6) {
		t.Fatalf("x = %v, want [0.5, 1]", x)
	}
	if !almostEqual(b[0], 1, 1e-6) || !almostEqual(b[1], 2, 1e-6) {
		t.Fatalf("b = %v, want [1, 2]", b)
	}
}

func TestApplyChromaFromLumaZeroColourFactorTreatedAsOne(t *testing.T) {
	x := []float32{0}
	b := []float32{0}
	y := []float32{3}
	ApplyChromaFromLuma(x, b, y, 1, 1, 2, 0, 0)
	if !almostEqual(x[0], 6, 1e-6) {
		t.Fatalf("x[0] = %v, want 6 (colourFactor 0 treated as 1)", x[0])
	}
}

func TestChromaFromLumaFactor(t *testing.T) {
	got := ChromaFromLumaFactor(10, 1.5, 4)
	want := float32(1.5 + 10.0/4.0)
	if !almostEqual(got, want, 1e-6) {
		t.Fatalf("ChromaFromLumaFactor = %v, want %v", got, want)
	}
}

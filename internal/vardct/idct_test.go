package vardct

import "testing"

func almostEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestInverseDCTDcOnlyProducesFlatBlock(t *testing.T) {
	coeffs := make([]float32, 64)
	coeffs[0] = 8
	out := InverseDCT(Dct8, coeffs, 8, 8)
	if len(out) != 64 {
		t.Fatalf("len(out) = %d, want 64", len(out))
	}
	want := out[0]
	for i, v := range out {
		if !almostEqual(v, want, 1e-3) {
			t.Fatalf("sample %d = %v, want flat %v (DC-only block)", i, v, want)
		}
	}
}

func TestInverseDCTRectangularShapesProduceCorrectLength(t *testing.T) {
	cases := []struct {
		tt   TransformType
		w, h int
	}{
		{Dct16x8, 16, 8},
		{Dct8x16, 8, 16},
		{Dct32, 32, 32},
	}
	for _, c := range cases {
		coeffs := make([]float32, c.w*c.h)
		out := InverseDCT(c.tt, coeffs, c.w, c.h)
		if len(out) != c.w*c.h {
			t.Fatalf("transform %v: len(out) = %d, want %d", c.tt, len(out), c.w*c.h)
		}
	}
}

func TestInverseHornussDCOnlyIsFlat(t *testing.T) {
	coeffs := make([]float32, 64)
	coeffs[0] = 16
	out := inverseHornuss(coeffs)
	for i, v := range out {
		if !almostEqual(v, 2, 1e-6) {
			t.Fatalf("sample %d = %v, want 2 (dc/8)", i, v)
		}
	}
}

func TestInverseDct2ZeroInputIsZeroOutput(t *testing.T) {
	out := inverseDct2(make([]float32, 16))
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestInverseAfvIdentityVariantMatchesBaseDCT(t *testing.T) {
	coeffs := make([]float32, 64)
	coeffs[0] = 4
	coeffs[5] = 1
	base := inverseSeparableDCT(Dct8, coeffs, 8, 8)
	afv0 := inverseAfv(coeffs, 0)
	for i := range base {
		if !almostEqual(base[i], afv0[i], 1e-6) {
			t.Fatalf("Afv0 (no flip) sample %d = %v, want %v", i, afv0[i], base[i])
		}
	}
}

func TestInverseAfvFlipsBothAxes(t *testing.T) {
	coeffs := make([]float32, 64)
	coeffs[3] = 5
	base := inverseSeparableDCT(Dct8, coeffs, 8, 8)
	flipped := inverseAfv(coeffs, 3) // variant 3: flipH and flipV
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := base[(7-y)*8+(7-x)]
			got := flipped[y*8+x]
			if !almostEqual(got, want, 1e-6) {
				t.Fatalf("flipped(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestTransposeRoundTrips(t *testing.T) {
	in := []float32{1, 2, 3, 4, 5, 6} // 2x3
	out := transpose(in, 3, 2)
	back := transpose(out, 2, 3)
	for i := range in {
		if in[i] != back[i] {
			t.Fatalf("transpose round-trip mismatch at %d: %v vs %v", i, in[i], back[i])
		}
	}
}

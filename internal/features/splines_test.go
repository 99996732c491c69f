package features

import "testing"

func TestApplySplinesPaintsAlongItsPath(t *testing.T) {
	width, height := 64, 64
	colorX := make([]float32, width*height)
	colorY := make([]float32, width*height)
	colorB := make([]float32, width*height)

	s := &Splines{
		Quant: []QuantSpline{{
			Points:            [][2]int32{{10, 10}, {30, 10}, {50, 10}},
			ManhattanDistance: 40,
			XYBDct:            [3][32]int32{{10}, {20}, {5}},
			SigmaDct:          [32]int32{20},
		}},
	}

	ApplySplines(s, colorX, colorY, colorB, width, height)

	var touched int
	for _, v := range colorY {
		if v != 0 {
			touched++
		}
	}
	if touched == 0 {
		t.Fatal("ApplySplines left the Y plane entirely untouched")
	}

	mid := 10*width + 30
	if colorY[mid] == 0 {
		t.Fatalf("sample at the spline's midpoint (30,10) = %v, want nonzero", colorY[mid])
	}

	corner := 63*width + 63
	if colorY[corner] != 0 {
		t.Fatalf("sample far from the spline (63,63) = %v, want untouched 0", colorY[corner])
	}
}

func TestApplySplinesNilIsNoop(t *testing.T) {
	plane := make([]float32, 4)
	ApplySplines(nil, plane, plane, plane, 2, 2)
	for _, v := range plane {
		if v != 0 {
			t.Fatal("ApplySplines(nil, ...) should not touch the planes")
		}
	}
}

func TestQuantAdjustScalePositiveShrinks(t *testing.T) {
	if got := quantAdjustScale(8); got >= 1 {
		t.Fatalf("quantAdjustScale(8) = %v, want < 1", got)
	}
}

func TestQuantAdjustScaleNegativeGrows(t *testing.T) {
	if got := quantAdjustScale(-8); got <= 1 {
		t.Fatalf("quantAdjustScale(-8) = %v, want > 1", got)
	}
}

package vardct

import "testing"

func TestParseTransformTypeRejectsOutOfRange(t *testing.T) {
	if _, err := ParseTransformType(uint8(numTransformTypes)); err == nil {
		t.Fatal("ParseTransformType accepted an out-of-range value")
	}
	tt, err := ParseTransformType(uint8(Dct32x16))
	if err != nil {
		t.Fatalf("ParseTransformType: %v", err)
	}
	if tt != Dct32x16 {
		t.Fatalf("ParseTransformType = %v, want Dct32x16", tt)
	}
}

func TestDctSelectSizeMatchesDequantMatrixSize(t *testing.T) {
	// Every transform's dequant matrix covers its select footprint, stored
	// with the longer side as the width: a rectangular pair such as
	// Dct16x8/Dct8x16 shares one slot, so one matrix serves both
	// orientations.
	for tt := Dct8; tt < numTransformTypes; tt++ {
		sw, sh := tt.DctSelectSize()
		dw, dh := tt.DequantMatrixSize()
		wantW, wantH := sw*8, sh*8
		if wantH > wantW {
			wantW, wantH = wantH, wantW
		}
		if dw != wantW || dh != wantH {
			t.Fatalf("transform %d: DctSelectSize=(%d,%d) but DequantMatrixSize=(%d,%d), want (%d,%d)", tt, sw, sh, dw, dh, wantW, wantH)
		}
	}
}

func TestNeedTransposeAgreesWithAspectRatio(t *testing.T) {
	if Dct8x16.NeedTranspose() == Dct16x8.NeedTranspose() {
		t.Fatal("Dct8x16 and Dct16x8 should need transpose differently")
	}
	if Hornuss.NeedTranspose() {
		t.Fatal("Hornuss is a specialty kernel, never transposed")
	}
}

func TestOrderIDGroupsRectangularPairsTogether(t *testing.T) {
	if Dct16x8.OrderID() != Dct8x16.OrderID() {
		t.Fatal("Dct16x8 and Dct8x16 should share an order group")
	}
	if Dct8.OrderID() == Dct16.OrderID() {
		t.Fatal("Dct8 and Dct16 should not share an order group")
	}
}

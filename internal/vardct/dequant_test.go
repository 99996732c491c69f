package vardct

import "testing"

func TestLibraryDefaultIsUnitWeighted(t *testing.T) {
	m := libraryDefault(4, 3)
	if m.Width != 4 || m.Height != 3 {
		t.Fatalf("dims = (%d,%d), want (4,3)", m.Width, m.Height)
	}
	for i, w := range m.Weights {
		if w != 1 {
			t.Fatalf("weight %d = %v, want 1", i, w)
		}
	}
}

func TestDequantMatrixAtClampsOutOfRangeToOne(t *testing.T) {
	m := &DequantMatrix{Width: 2, Height: 2, Weights: []float32{1, 2, 3, 4}}
	if got := m.at(1, 1); got != 4 {
		t.Fatalf("at(1,1) = %v, want 4", got)
	}
	if got := m.at(-1, 0); got != 1 {
		t.Fatalf("at(-1,0) = %v, want 1 (out of range fallback)", got)
	}
	if got := m.at(5, 5); got != 1 {
		t.Fatalf("at(5,5) = %v, want 1 (out of range fallback)", got)
	}
}

func TestSlotDequantSizesCoversEverySlot(t *testing.T) {
	sizes := slotDequantSizes()
	for slot, sz := range sizes {
		if sz[0] == 0 || sz[1] == 0 {
			t.Fatalf("slot %d has zero size %v, every slot should be reachable by some TransformType", slot, sz)
		}
	}
	// slot 0 is Dct8's own slot: 8x8.
	if sizes[0] != [2]int{8, 8} {
		t.Fatalf("slot 0 = %v, want [8,8]", sizes[0])
	}
}

func TestDequantizeScalesByWeightAndGlobalScale(t *testing.T) {
	m := &DequantMatrix{Width: 1, Height: 1, Weights: []float32{2}}
	got := Dequantize(m, 0, 0, 1, 1, 10, 3, 1)
	want := float32(10 * 2 * 3)
	if got != want {
		t.Fatalf("Dequantize = %v, want %v", got, want)
	}
}

func TestDequantizeDividesByHfMul(t *testing.T) {
	m := &DequantMatrix{Width: 1, Height: 1, Weights: []float32{1}}
	got := Dequantize(m, 0, 0, 1, 1, 100, 1, 4)
	if got != 25 {
		t.Fatalf("Dequantize = %v, want 25", got)
	}
}

package vardct

import "testing"

func TestHfMetadataMarkDecodedCoversWholeFootprint(t *testing.T) {
	m := &HfMetadata{Bw: 4, Bh: 4, HfDecoded: make([]bool, 16)}
	m.MarkDecoded(1, 1, 2, 2) // a 16x16 block anchored at (1,1)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := x >= 1 && x < 3 && y >= 1 && y < 3
			if got := m.Decoded(x, y); got != want {
				t.Fatalf("Decoded(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestHfMetadataMarkDecodedClipsToGrid(t *testing.T) {
	m := &HfMetadata{Bw: 2, Bh: 2, HfDecoded: make([]bool, 4)}
	m.MarkDecoded(1, 1, 4, 4) // footprint runs off the edge of the grid

	if !m.Decoded(1, 1) {
		t.Fatal("Decoded(1,1) = false, want true")
	}
	if m.Decoded(0, 0) {
		t.Fatal("Decoded(0,0) = true, want false (outside the marked footprint)")
	}
}

func TestHfMetadataDecodedOutOfRangeIsFalse(t *testing.T) {
	m := &HfMetadata{Bw: 2, Bh: 2, HfDecoded: make([]bool, 4)}
	if m.Decoded(-1, 0) || m.Decoded(2, 0) || m.Decoded(0, 2) {
		t.Fatal("Decoded should report false for any out-of-range coordinate")
	}
}

func TestHfMetadataDecodedNilReceiverIsFalse(t *testing.T) {
	var m *HfMetadata
	if m.Decoded(0, 0) {
		t.Fatal("Decoded on a nil *HfMetadata should report false")
	}
}

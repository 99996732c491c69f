package frame

import (
	"testing"

	"github.com/jxlcore/jxl/internal/bitio"
)

func TestParseTocSingleEntry(t *testing.T) {
	w := newBitWriter()
	w.bit(0)        // permutated_toc = false
	for w.pad() != 0 {
	}
	w.bits(0, 2)  // U32 selector -> case0, 10-bit raw
	w.bits(5, 10) // size = 5
	for w.pad() != 0 {
	}

	br := bitio.NewReader(w.bytes())
	h := &Header{Width: 1, Height: 1, GroupDim: 256}
	h.Passes.NumPasses = 1

	toc, err := ParseToc(br, h)
	if err != nil {
		t.Fatal(err)
	}
	if len(toc.Entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(toc.Entries))
	}
	if toc.Entries[0].Kind != KindAll {
		t.Fatalf("kind = %v, want KindAll", toc.Entries[0].Kind)
	}
	if toc.Entries[0].Size != 5 || toc.TotalSize != 5 {
		t.Fatalf("size = %d total = %d, want 5", toc.Entries[0].Size, toc.TotalSize)
	}
}

func TestTocGroupKindsOrdering(t *testing.T) {
	kinds := tocGroupKinds(1+2+1+2*3, 2, true, 2, 3)
	if kinds[0].kind != KindLfGlobal {
		t.Fatalf("entry 0 = %v, want LfGlobal", kinds[0].kind)
	}
	if kinds[1].kind != KindLfGroup || kinds[1].lfGroup != 0 {
		t.Fatalf("entry 1 = %+v, want LfGroup(0)", kinds[1])
	}
	if kinds[2].kind != KindLfGroup || kinds[2].lfGroup != 1 {
		t.Fatalf("entry 2 = %+v, want LfGroup(1)", kinds[2])
	}
	if kinds[3].kind != KindHfGlobal {
		t.Fatalf("entry 3 = %v, want HfGlobal", kinds[3].kind)
	}
	// pass 0 groups 0..2, then pass 1 groups 0..2
	if kinds[4].kind != KindGroupPass || kinds[4].passIdx != 0 || kinds[4].groupIdx != 0 {
		t.Fatalf("entry 4 = %+v, want GroupPass(0,0)", kinds[4])
	}
	if kinds[len(kinds)-1].kind != KindGroupPass || kinds[len(kinds)-1].passIdx != 1 || kinds[len(kinds)-1].groupIdx != 2 {
		t.Fatalf("last entry = %+v, want GroupPass(1,2)", kinds[len(kinds)-1])
	}
}

// pad reports bits written mod 8, used by tests to explicitly pad to a
// byte boundary between TOC sections the way ZeroPadToByte expects.
func (w *bitWriter) pad() int {
	n := len(w.bitVals) % 8
	if n == 0 {
		return 0
	}
	w.bit(0)
	return len(w.bitVals) % 8
}

package coding

import (
	"testing"

	"github.com/jxlcore/jxl/internal/bitio"
)

// TestDecoderSingleSymbolStream builds, by hand, the smallest possible
// entropy stream: LZ77 disabled, one context mapped to one cluster,
// split_exponent 0, and a single-symbol ANS distribution. The symbol
// must always decode to 0 regardless of the (here all-zero) ANS state.
// The header takes 9 bits and the initial state 32; a zero state is
// refilled with 16 bits on every read, so four reads need 64 more.
func TestDecoderSingleSymbolStream(t *testing.T) {
	data := []byte{0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	br := bitio.NewReader(data)

	dec, err := NewDecoder(br, 1, 0)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	for i := 0; i < 4; i++ {
		sym, err := dec.ReadSymbol(0)
		if err != nil {
			t.Fatalf("ReadSymbol: %v", err)
		}
		if sym != 0 {
			t.Fatalf("symbol %d: got %d, want 0", i, sym)
		}
	}
}

func TestAliasTableInvariants(t *testing.T) {
	dist := []uint16{1000, 1500, 596, 1000}
	table, err := buildAliasTable(dist, 2)
	if err != nil {
		t.Fatal(err)
	}
	bucketSize := uint16(ansTableSize >> 2)
	for _, c := range table.cutoffs {
		if c > bucketSize {
			t.Fatalf("cutoff %d exceeds bucket size %d", c, bucketSize)
		}
	}
	// Every residue in [0, 4096) must map to a symbol with non-zero mass.
	for idx := 0; idx < ansTableSize; idx++ {
		sym, offset := table.mapAlias(uint16(idx))
		if dist[sym] == 0 {
			t.Fatalf("residue %d mapped to zero-mass symbol %d", idx, sym)
		}
		if offset >= dist[sym] {
			t.Fatalf("residue %d: offset %d >= dist[%d]=%d", idx, offset, sym, dist[sym])
		}
	}
}

func TestHybridIntegerLiteral(t *testing.T) {
	cfg := HybridIntegerConfig{SplitExponent: 4, MsbInToken: 2, LsbInToken: 0}
	br := bitio.NewReader(nil)
	v, err := cfg.decode(5, br)
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 {
		t.Fatalf("got %d, want 5 (literal path)", v)
	}
}

func TestHybridIntegerSplitForm(t *testing.T) {
	// split_exponent=2, msb=1, lsb=1: split=4. token=4 -> rest=0, extraBits=0,
	// lsbBits=0, msbBits=0, value=(0<<(2-1)|0)<<0 = 0.
	cfg := HybridIntegerConfig{SplitExponent: 2, MsbInToken: 1, LsbInToken: 1}
	br := bitio.NewReader(nil)
	v, err := cfg.decode(4, br)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("got %d, want 0", v)
	}
}

func TestUnpackSigned(t *testing.T) {
	cases := map[uint32]int32{0: 0, 1: -1, 2: 1, 3: -2, 4: 2}
	for u, want := range cases {
		if got := UnpackSigned(u); got != want {
			t.Fatalf("UnpackSigned(%d) = %d, want %d", u, got, want)
		}
	}
}

func TestBuildPrefixCodeMaxLen(t *testing.T) {
	// Symbol 0 -> length 1, symbol 1 -> length 2, symbol 2 -> length 2.
	code, err := buildPrefixCode([]uint8{1, 2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if code.maxLen != 2 {
		t.Fatalf("maxLen = %d, want 2", code.maxLen)
	}
}

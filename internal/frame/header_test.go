package frame

import (
	"testing"

	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/imageheader"
)

func TestParseHeaderAllDefault(t *testing.T) {
	// all_default = 1 (single bit); nothing else is read.
	data := []byte{0x01}
	br := bitio.NewReader(data)
	img := &imageheader.Header{Width: 64, Height: 32}

	h, err := ParseHeader(br, img)
	if err != nil {
		t.Fatal(err)
	}
	if h.Encoding != EncodingVarDCT {
		t.Fatalf("default encoding = %v, want VarDCT", h.Encoding)
	}
	if h.Width != 64 || h.Height != 32 {
		t.Fatalf("got %dx%d, want 64x32", h.Width, h.Height)
	}
	if !h.IsLast {
		t.Fatal("default frame should be marked is_last")
	}
	if h.GroupDim != 256 {
		t.Fatalf("default group_dim = %d, want 256", h.GroupDim)
	}
}

func TestNumGroupsAndLfGroups(t *testing.T) {
	h := &Header{Width: 300, Height: 300, GroupDim: 256}
	if got := h.NumGroups(); got != 4 {
		t.Fatalf("NumGroups = %d, want 4", got)
	}
	if got := h.NumLfGroups(); got != 1 {
		t.Fatalf("NumLfGroups = %d, want 1", got)
	}
}

func TestParseHeaderZeroExtentRegionFails(t *testing.T) {
	// all_default=0, encoding bit=0 (VarDCT), flags U64 selector=0 (zero),
	// do_ycbcr=0, upsampling selector=00, passes num_passes(3 bits)=1,
	// group_dim selector=00, gaborish=0, epf iters(2b)=0, save_as_reference(2b)=0,
	// save_before_ct=0, blend mode(3b)=0(Replace), blend source(2b)=0,
	// is_last=1, has_region=0 -> falls back to img dims, which are 0 here.
	br := newBitWriter()
	br.bit(0) // all_default
	br.bits(0, 1) // encoding
	br.bits(0, 2) // U64 selector -> flags=0
	br.bit(0)     // do_ycbcr
	br.bits(0, 2) // upsampling selector
	br.bits(1, 3) // num_passes
	br.bits(0, 2) // group_dim selector
	br.bit(0)     // gaborish
	br.bits(0, 2) // epf iters=0 -> disabled
	br.bits(0, 2) // save_as_reference
	br.bit(0)     // save_before_ct
	br.bits(0, 3) // blend mode
	br.bits(0, 2) // blend source
	br.bit(1)     // is_last
	br.bit(0)     // has_region

	reader := bitio.NewReader(br.bytes())
	img := &imageheader.Header{}
	if _, err := ParseHeader(reader, img); err == nil {
		t.Fatal("expected error for zero-extent frame region")
	}
}

// bitWriter is a tiny LSB-first bit packer for hand-built test streams,
// mirroring bitio.Reader's consumption order.
type bitWriter struct {
	bitVals []byte
}

func newBitWriter() *bitWriter { return &bitWriter{} }

func (w *bitWriter) bit(v uint32) {
	w.bitVals = append(w.bitVals, byte(v&1))
}

func (w *bitWriter) bits(v uint32, n int) {
	for i := 0; i < n; i++ {
		w.bit((v >> uint(i)) & 1)
	}
}

func (w *bitWriter) bytes() []byte {
	out := make([]byte, (len(w.bitVals)+7)/8)
	for i, b := range w.bitVals {
		out[i/8] |= b << uint(i%8)
	}
	return out
}

package imageheader

import (
	"testing"

	"github.com/jxlcore/jxl/internal/bitio"
)

func TestParseAllDefaultOnePixel(t *testing.T) {
	// all_default=1, width selector(2b)=00 payload(9b)=0 -> w=1,
	// ratio(3b)=0 (explicit height), height selector(2b)=00 payload(9b)=0 -> h=1.
	data := []byte{0x01, 0x00, 0x00, 0x00}
	br := bitio.NewReader(data)

	h, err := Parse(br)
	if err != nil {
		t.Fatal(err)
	}
	if h.Width != 1 || h.Height != 1 {
		t.Fatalf("got %dx%d, want 1x1", h.Width, h.Height)
	}
	if h.Orientation != 1 {
		t.Fatalf("orientation = %d, want 1", h.Orientation)
	}
	if h.ColorEncoding.Space != ColorRGB || h.ColorEncoding.TF != TFSRGB {
		t.Fatalf("unexpected default color encoding: %+v", h.ColorEncoding)
	}
}

func TestReadSizeHeaderSmallestEncodingIsNonZero(t *testing.T) {
	// width selector(2b)=00 payload(9b) encodes 1 (offset 1 + raw 0), so to
	// hit a zero dimension we'd need raw=-1 which U32 cannot express; the
	// all-zero encoding (explicit dimensions, ratio selector 0) is the
	// smallest one and must still decode to non-zero dimensions.
	w, h, err := readSizeHeader(bitio.NewReader([]byte{0x00, 0x00, 0x00, 0x00}))
	if err != nil {
		t.Fatal(err)
	}
	if w == 0 || h == 0 {
		t.Fatalf("unexpected zero dimension w=%d h=%d", w, h)
	}
}

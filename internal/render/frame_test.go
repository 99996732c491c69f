package render

import (
	"testing"

	"github.com/jxlcore/jxl/internal/vardct"
)

func TestAssembleLfIntoCanvasSkipsHfDecodedBlocksAndFillsFootprint(t *testing.T) {
	canvas := NewCanvas(16, 8, 0)
	lfW, lfH := 2, 1 // two 8x8 blocks, one row

	meta := &vardct.HfMetadata{Bw: lfW, Bh: lfH, HfDecoded: make([]bool, lfW*lfH)}
	meta.HfDecoded[0] = true // block (0,0) already got its DC from the HF pass

	lg := &LfGroupResult{
		X0: 0, Y0: 0, Width: 16, Height: 8, LfWidth: lfW, LfHeight: lfH,
		LfChannels: [3][]int32{
			{0, 128},
			{0, 0},
			{0, 0},
		},
		HfMeta: meta,
	}

	g := &LfGlobal{
		ChannelDequant: &vardct.LfChannelDequantization{MXLf: 128, MYLf: 128, MBLf: 128}, // /128 -> 1.0 unscaled
		Quantizer:      &vardct.Quantizer{GlobalScale: 1, QuantLf: 1},
	}

	assembleLfIntoCanvas(canvas, []*LfGroupResult{lg}, g, true)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if v := canvas.Color[0][y*16+x]; v != 0 {
				t.Fatalf("hf-decoded block sample (%d,%d) = %v, want untouched 0", x, y, v)
			}
		}
	}
	for y := 0; y < 8; y++ {
		for x := 8; x < 16; x++ {
			if v := canvas.Color[0][y*16+x]; v != 128 {
				t.Fatalf("lf-only block sample (%d,%d) = %v, want 128", x, y, v)
			}
		}
	}
}

func TestAssembleLfIntoCanvasTreatsNilHfMetaAsNeedingOverlay(t *testing.T) {
	canvas := NewCanvas(8, 8, 0)
	lg := &LfGroupResult{
		X0: 0, Y0: 0, Width: 8, Height: 8, LfWidth: 1, LfHeight: 1,
		LfChannels: [3][]int32{{64}, {0}, {0}},
	}
	g := &LfGlobal{
		ChannelDequant: &vardct.LfChannelDequantization{MXLf: 128, MYLf: 128, MBLf: 128},
		Quantizer:      &vardct.Quantizer{GlobalScale: 1, QuantLf: 1},
	}

	assembleLfIntoCanvas(canvas, []*LfGroupResult{lg}, g, true)

	for _, v := range canvas.Color[0] {
		if v != 64 {
			t.Fatalf("sample = %v, want 64 (nil HfMeta should fall back to applying the LF overlay)", v)
		}
	}
}

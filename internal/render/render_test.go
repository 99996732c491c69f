package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jxlcore/jxl/internal/frame"
)

func TestLfGroupPixelOriginTiling(t *testing.T) {
	fh := &frame.Header{Width: 600, Height: 300, GroupDim: 256}
	// tile = group_dim*8 = 2048, larger than the whole frame: a single
	// LfGroup should cover it entirely.
	x0, y0, w, h := lfGroupPixelOrigin(fh, 0)
	if x0 != 0 || y0 != 0 || w != 600 || h != 300 {
		t.Fatalf("lfGroupPixelOrigin(0) = (%d,%d,%d,%d), want (0,0,600,300)", x0, y0, w, h)
	}
}

func TestGroupPixelOriginTilesAcrossRows(t *testing.T) {
	fh := &frame.Header{Width: 300, Height: 300, GroupDim: 256}
	if got := fh.NumGroups(); got != 4 {
		t.Fatalf("NumGroups = %d, want 4", got)
	}
	x0, y0, w, h := groupPixelOrigin(fh, 1)
	if x0 != 256 || y0 != 0 {
		t.Fatalf("groupPixelOrigin(1) origin = (%d,%d), want (256,0)", x0, y0)
	}
	if w != 44 || h != 256 {
		t.Fatalf("groupPixelOrigin(1) extent = (%d,%d), want (44,256)", w, h)
	}

	x0, y0, _, _ = groupPixelOrigin(fh, 2)
	if x0 != 0 || y0 != 256 {
		t.Fatalf("groupPixelOrigin(2) origin = (%d,%d), want (0,256)", x0, y0)
	}
}

func TestNewCanvasAllocatesPlanes(t *testing.T) {
	c := NewCanvas(4, 3, 2)
	for i, plane := range c.Color {
		if len(plane) != 12 {
			t.Fatalf("Color[%d] len = %d, want 12", i, len(plane))
		}
	}
	if len(c.Extra) != 2 || len(c.Extra[0]) != 12 {
		t.Fatalf("Extra planes not sized correctly: %+v", c.Extra)
	}
}

func TestBlendIntoReplaceMode(t *testing.T) {
	dst := NewCanvas(2, 2, 0)
	for c := 0; c < 3; c++ {
		for i := range dst.Color[c] {
			dst.Color[c][i] = 1
		}
	}
	src := NewCanvas(1, 1, 0)
	for c := 0; c < 3; c++ {
		src.Color[c][0] = 9
	}
	blends := []frame.BlendInfo{{Mode: frame.BlendReplace}, {Mode: frame.BlendReplace}, {Mode: frame.BlendReplace}}
	BlendInto(dst, src, 1, 1, blends, func(uint32) int { return -1 })

	if dst.Color[0][3] != 9 {
		t.Fatalf("bottom-right sample = %v, want 9", dst.Color[0][3])
	}
	if dst.Color[0][0] != 1 {
		t.Fatalf("top-left sample = %v, want untouched 1", dst.Color[0][0])
	}
}

func TestBlendIntoAddModeAccumulates(t *testing.T) {
	dst := NewCanvas(1, 1, 0)
	dst.Color[0][0] = 2
	src := NewCanvas(1, 1, 0)
	src.Color[0][0] = 3
	blends := []frame.BlendInfo{{Mode: frame.BlendAdd}}
	BlendInto(dst, src, 0, 0, blends, func(uint32) int { return -1 })

	if dst.Color[0][0] != 5 {
		t.Fatalf("channel0 = %v, want 2+3=5", dst.Color[0][0])
	}
}

func TestBlendIntoReplaceModeProducesExpectedCanvas(t *testing.T) {
	dst := NewCanvas(2, 2, 0)
	for c := 0; c < 3; c++ {
		for i := range dst.Color[c] {
			dst.Color[c][i] = 1
		}
	}
	src := NewCanvas(1, 1, 0)
	for c := 0; c < 3; c++ {
		src.Color[c][0] = 9
	}
	blends := []frame.BlendInfo{{Mode: frame.BlendReplace}, {Mode: frame.BlendReplace}, {Mode: frame.BlendReplace}}
	BlendInto(dst, src, 1, 1, blends, func(uint32) int { return -1 })

	want := &Canvas{
		Width: 2, Height: 2,
		Color: [3][]float32{
			{1, 1, 1, 9},
			{1, 1, 1, 9},
			{1, 1, 1, 9},
		},
		Extra: [][]float32{},
	}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Fatalf("canvas mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupCountBits(t *testing.T) {
	cases := []struct {
		n    uint32
		want uint
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
	}
	for _, c := range cases {
		if got := groupCountBits(c.n); got != c.want {
			t.Fatalf("groupCountBits(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

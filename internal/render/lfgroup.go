package render

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/frame"
	"github.com/jxlcore/jxl/internal/modular"
	"github.com/jxlcore/jxl/internal/vardct"
	"github.com/jxlcore/jxl/internal/xerr"
)

// LfGroupResult is one LfGroup's decoded low-frequency image (the
// coarse, 1/8-scale DC grid covering its tile of the frame) and, for
// VarDCT frames, the per-block transform/multiplier/EPF-sigma metadata
// HF decode in that same tile depends on.
type LfGroupResult struct {
	X0, Y0         int // top-left of this tile, in full-resolution pixels
	Width, Height  int // tile extent, in full-resolution pixels
	LfWidth, LfHeight int // tile extent, in 1/8-scale LF units

	LfChannels [3][]int32 // row-major, LfWidth*LfHeight, raw (undequantized) DC values

	HfMeta *vardct.HfMetadata
}

// lfGroupPixelOrigin locates LfGroup idx's top-left corner and extent in
// full-resolution pixels, per spec.md's row-major tiling of
// group_dim*8-sized tiles over the frame.
func lfGroupPixelOrigin(fh *frame.Header, idx uint32) (x0, y0, w, h int) {
	tile := int(fh.GroupDim) * 8
	perRow := int(ceilDivInt(int(fh.Width), tile))
	gx := int(idx) % perRow
	gy := int(idx) / perRow
	x0 = gx * tile
	y0 = gy * tile
	w = tile
	if x0+w > int(fh.Width) {
		w = int(fh.Width) - x0
	}
	h = tile
	if y0+h > int(fh.Height) {
		h = int(fh.Height) - y0
	}
	return x0, y0, w, h
}

func ceilDivInt(a, b int) int { return (a + b - 1) / b }

// DecodeLfGroup reads one frame's LfGroup section: the 3-channel (plus
// extra channels, appended after the color planes in the same decode
// pass) modular LF image for this tile, and, for VarDCT frames, the
// HfMetadata bundle that follows it in the same section.
func DecodeLfGroup(data []byte, fh *frame.Header, g *LfGlobal, lfGroupIdx uint32, numExtraChannels int) (*LfGroupResult, error) {
	x0, y0, w, h := lfGroupPixelOrigin(fh, lfGroupIdx)
	lfW := ceilDivInt(w, 8)
	lfH := ceilDivInt(h, 8)

	res := &LfGroupResult{X0: x0, Y0: y0, Width: w, Height: h, LfWidth: lfW, LfHeight: lfH}

	br := bitio.NewReader(data)

	img := &modular.Image{}
	for c := 0; c < 3; c++ {
		img.Channels = append(img.Channels, modular.NewChannel(lfW, lfH, 0, 0))
	}
	for c := 0; c < numExtraChannels; c++ {
		img.Channels = append(img.Channels, modular.NewChannel(lfW, lfH, 0, 0))
	}

	dec, err := coding.NewDecoder(br, g.NumTreeContexts, 8)
	if err != nil {
		return nil, xerr.Wrap(xerr.IncompleteFrame, err, "lf group entropy decoder")
	}
	if err := modular.DecodeGroup(dec, g.Tree, img, int(lfGroupIdx)); err != nil {
		return nil, xerr.Wrap(xerr.IncompleteFrame, err, "lf group modular decode")
	}

	for c := 0; c < 3; c++ {
		plane := make([]int32, lfW*lfH)
		for y := 0; y < lfH; y++ {
			for x := 0; x < lfW; x++ {
				plane[y*lfW+x] = img.Channels[c].At(x, y)
			}
		}
		res.LfChannels[c] = plane
	}

	if fh.Encoding == frame.EncodingVarDCT {
		p := vardct.HfMetadataParams{
			NumLfGroups:          fh.NumLfGroups(),
			LfGroupIdx:           lfGroupIdx,
			LfWidth:              uint32(lfW),
			LfHeight:             uint32(lfH),
			JpegUpsampling:       [3]uint32{uint32(fh.JpegUpsampling[0]), uint32(fh.JpegUpsampling[1]), uint32(fh.JpegUpsampling[2])},
			QuantizerGlobalScale: g.Quantizer.GlobalScale,
			EpfQuantMul:          fh.Filter.EpfQuantMul,
			EpfSharpLut:          fh.Filter.EpfSharpLut,
			EpfEnabled:           fh.Filter.EpfEnabled,
		}
		meta, err := vardct.ParseHfMetadata(br, g.Tree, g.NumTreeContexts, p)
		if err != nil {
			return nil, xerr.Wrap(xerr.IncompleteFrame, err, "hf metadata")
		}
		res.HfMeta = meta
	}

	return res, nil
}

package render

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/colorconv"
	"github.com/jxlcore/jxl/internal/features"
	"github.com/jxlcore/jxl/internal/filters"
	"github.com/jxlcore/jxl/internal/frame"
	"github.com/jxlcore/jxl/internal/imageheader"
	"github.com/jxlcore/jxl/internal/vardct"
	"github.com/jxlcore/jxl/internal/xerr"
)

// canvasByteSize estimates a canvas's total backing-array footprint (3
// color planes plus numExtra extra planes, float32 each) for the
// allocation tracker's charge.
func canvasByteSize(width, height uint32, numExtra int) uint64 {
	return uint64(width) * uint64(height) * uint64(3+numExtra) * 4
}

// FrameResult is the full outcome of decoding one frame section: the
// header (the caller needs IsLast, DurationTicks and friends to drive
// the animation loop) and, when the frame contributes pixels, the
// canvas it produced.
type FrameResult struct {
	Header *frame.Header
	Canvas *Canvas
}

// alphaChannelIndices returns the index (within the extra-channel list)
// of every channel tagged ExtraAlpha, the set Patches/BlendInfo entries
// may reference as their alpha source.
func alphaChannelIndices(img *imageheader.Header) []uint32 {
	var out []uint32
	for i, ec := range img.ExtraChannels {
		if ec.Type == imageheader.ExtraAlpha {
			out = append(out, uint32(i))
		}
	}
	return out
}

// DecodeFrame reads one complete frame section starting at data[0]
// (the frame header itself): header, TOC, LfGlobal, every LfGroup,
// (VarDCT only) HfGlobal, every (pass, group), then restoration
// filtering, rendering extras and color conversion over the assembled
// canvas. Returns the number of bytes the frame section consumed so
// the caller can advance to the next frame (or box) in the codestream.
//
// Grounded on internal/tcd.TileDecoder's staged-method shape: where
// that type steps InitTile -> DecodeCodeBlock -> ApplyInverseDWT across
// one tile-component, DecodeFrame steps header/TOC -> per-group decode
// -> filter -> composite across one frame.
func DecodeFrame(data []byte, rc *RenderContext) (*FrameResult, int, error) {
	br := bitio.NewReader(data)
	fh, err := frame.ParseHeader(br, rc.Image)
	if err != nil {
		return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "frame header")
	}
	if err := br.ZeroPadToByte(); err != nil {
		return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "frame header padding")
	}

	toc, err := frame.ParseToc(br, fh)
	if err != nil {
		return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "toc")
	}
	if err := br.ZeroPadToByte(); err != nil {
		return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "toc padding")
	}
	sectionBase := br.BytePos()
	section := func(e frame.TocEntry) []byte {
		start := sectionBase + int(e.Offset)
		return data[start : start+int(e.Size)]
	}

	numExtra := len(rc.Image.ExtraChannels)
	alphaIdx := alphaChannelIndices(rc.Image)

	lfGlobal, err := ParseLfGlobal(section(toc.LfGlobalEntry()), fh, numExtra, alphaIdx)
	if err != nil {
		return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "lf global")
	}

	numLfGroups := fh.NumLfGroups()
	lfGroups := make([]*LfGroupResult, numLfGroups)
	lfErrs := make([]error, numLfGroups)
	rc.Pool.ForEach(int(numLfGroups), func(i int) {
		gi := uint32(i)
		lfGroups[i], lfErrs[i] = DecodeLfGroup(section(toc.LfGroupEntry(gi)), fh, lfGlobal, gi, numExtra)
	})
	for _, err := range lfErrs {
		if err != nil {
			return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "lf group")
		}
	}

	allocHandle, err := rc.Alloc.Reserve(canvasByteSize(fh.Width, fh.Height, numExtra))
	if err != nil {
		return nil, 0, err
	}
	defer allocHandle.Release()

	canvas := NewCanvas(fh.Width, fh.Height, numExtra)

	if fh.Encoding == frame.EncodingVarDCT {
		hfGlobal, err := ParseHfGlobal(section(toc.HfGlobalEntry(numLfGroups)), fh, lfGlobal)
		if err != nil {
			return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "hf global")
		}

		numGroups := fh.NumGroups()
		hasHfGlobal := true
		for p := uint32(0); p < fh.Passes.NumPasses; p++ {
			groupErrs := make([]error, numGroups)
			rc.Pool.ForEach(int(numGroups), func(i int) {
				gi := uint32(i)
				lg := lfGroupForGroup(fh, lfGroups, gi)
				entry := toc.GroupPassEntry(numLfGroups, hasHfGlobal, numGroups, p, gi)
				groupErrs[i] = DecodeHfGroupPass(section(entry), fh, lfGlobal, hfGlobal, lg, p, gi, canvas)
			})
			for _, err := range groupErrs {
				if err != nil {
					return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "hf group pass")
				}
			}
		}
		assembleLfIntoCanvas(canvas, lfGroups, lfGlobal, fh.SkipAdaptiveLfSmoothing)
	} else {
		numGroups := fh.NumGroups()
		groupErrs := make([]error, numGroups)
		rc.Pool.ForEach(int(numGroups), func(i int) {
			gi := uint32(i)
			entry := toc.GroupPassEntry(numLfGroups, false, numGroups, 0, gi)
			groupErrs[i] = DecodeModularGroup(section(entry), fh, lfGlobal, gi, canvas)
		})
		for _, err := range groupErrs {
			if err != nil {
				return nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "modular group")
			}
		}
	}

	applyRestorationFilters(canvas, fh)
	applyRenderingExtras(canvas, fh, lfGlobal, rc)

	// A non-zero save_as_reference names the slot (1-3, since 0 means
	// "not saved") a later frame's patches or blend can read this
	// canvas back from. save_before_ct saves the pre-color-conversion
	// (still XYB/YCbCr) samples, matching what a referencing frame's
	// own pipeline expects to blend against.
	if fh.SaveAsReference != 0 && fh.SaveBeforeCT {
		rc.Refs[fh.SaveAsReference-1] = cloneCanvas(canvas)
	}

	applyColorConversion(canvas, rc.Image, fh)

	if fh.SaveAsReference != 0 && !fh.SaveBeforeCT {
		rc.Refs[fh.SaveAsReference-1] = cloneCanvas(canvas)
	}

	if fh.IsLast || !fh.UseLfFrame {
		rc.VisibleFrames++
	} else {
		rc.InvisibleFrames++
	}

	consumed := sectionBase + int(toc.TotalSize)

	return &FrameResult{Header: fh, Canvas: canvas}, consumed, nil
}

// lfGroupForGroup finds the LfGroup tile that covers Group gi's
// top-left pixel; a Group never spans more than one LfGroup tile since
// group_dim*8 is always a multiple of group_dim.
func lfGroupForGroup(fh *frame.Header, lfGroups []*LfGroupResult, gi uint32) *LfGroupResult {
	x0, y0, _, _ := groupPixelOrigin(fh, gi)
	tile := int(fh.GroupDim) * 8
	perRow := ceilDivInt(int(fh.Width), tile)
	gx := x0 / tile
	gy := y0 / tile
	idx := gy*perRow + gx
	if idx < 0 || idx >= len(lfGroups) {
		return nil
	}
	return lfGroups[idx]
}

// assembleLfIntoCanvas places each LfGroup's dequantized, adaptively
// smoothed DC grid into the canvas at full resolution, spread across
// each 8x8 block's whole footprint, wherever that block's HfMetadata
// entry records that the HF pass never supplied its own DC term
// (HfMeta.Decoded reports false). This replaces a numeric-equality
// guess with the grid's own bookkeeping, so a block whose HF
// reconstruction legitimately came out to 0.0 isn't mistaken for one
// still waiting on its low-frequency overlay.
func assembleLfIntoCanvas(canvas *Canvas, lfGroups []*LfGroupResult, g *LfGlobal, skipSmoothing bool) {
	lfDequant := [3]float32{g.ChannelDequant.MXLfUnscaled(), g.ChannelDequant.MYLfUnscaled(), g.ChannelDequant.MBLfUnscaled()}
	for _, lg := range lfGroups {
		if lg == nil {
			continue
		}
		for ch := 0; ch < 3; ch++ {
			grid := make([]float32, lg.LfWidth*lg.LfHeight)
			for i, v := range lg.LfChannels[ch] {
				grid[i] = float32(v) * lfDequant[ch] * float32(g.Quantizer.QuantLf)
			}
			if !skipSmoothing {
				vardct.SmoothLfChannel(grid, lg.LfWidth, lg.LfHeight, lfDequant[ch])
			}
			for y := 0; y < lg.LfHeight; y++ {
				for x := 0; x < lg.LfWidth; x++ {
					if lg.HfMeta.Decoded(x, y) {
						continue
					}
					v := grid[y*lg.LfWidth+x]
					for dy := 0; dy < 8; dy++ {
						py := lg.Y0 + y*8 + dy
						if py >= int(canvas.Height) {
							continue
						}
						for dx := 0; dx < 8; dx++ {
							px := lg.X0 + x*8 + dx
							if px >= int(canvas.Width) {
								continue
							}
							canvas.Color[ch][py*int(canvas.Width)+px] += v
						}
					}
				}
			}
		}
	}
}

func applyRestorationFilters(canvas *Canvas, fh *frame.Header) {
	w, h := int(canvas.Width), int(canvas.Height)
	if fh.Filter.GaborishEnabled {
		for c := 0; c < 3; c++ {
			wgt := fh.Filter.GaborWeights[c]
			canvas.Color[c] = filters.ApplyGaborish(canvas.Color[c], w, h, wgt[0], wgt[1])
		}
	}
	if fh.Filter.EpfEnabled {
		sigmaW := ceilDivInt(w, 8)
		sigmaH := ceilDivInt(h, 8)
		sigmaGrid := make([]float32, sigmaW*sigmaH)
		for i := range sigmaGrid {
			sigmaGrid[i] = fh.Filter.EpfSigmaForModular
			if fh.Encoding == frame.EncodingVarDCT {
				sigmaGrid[i] = fh.Filter.EpfQuantMul
			}
		}
		p := filters.EPFParams{
			Iterations:      fh.Filter.EpfIterations,
			ChannelScale:    fh.Filter.EpfChannelScale,
			BorderSadMul:    fh.Filter.EpfBorderSadMul,
			Pass0SigmaScale: fh.Filter.EpfSigmaScale,
			Pass2SigmaScale: fh.Filter.EpfPass2SigmaScale,
		}
		canvas.Color = filters.ApplyEPF(canvas.Color, w, h, sigmaGrid, sigmaW, p)
	}
	for c := 0; c < 3; c++ {
		hUp := fh.JpegUpsampling[c] == 1 || fh.JpegUpsampling[c] == 2
		vUp := fh.JpegUpsampling[c] == 1 || fh.JpegUpsampling[c] == 3
		if hUp || vUp {
			canvas.Color[c] = filters.UpsampleJpegChroma(canvas.Color[c], w, h, w, h, hUp, vUp)
		}
	}
}

// applyRenderingExtras composites patches (copied from a reference-
// frame slot and blended at each of their targets), splines (a
// Catmull-Rom stroke with a DCT32-coded color/width profile along its
// arc length), and synthetic noise onto the canvas, in that order, per
// spec.md §4.7 step 9.
func applyRenderingExtras(canvas *Canvas, fh *frame.Header, g *LfGlobal, rc *RenderContext) {
	w, h := int(canvas.Width), int(canvas.Height)
	if fh.HasPatches && g.Patches != nil {
		applyPatches(canvas, g.Patches, rc)
	}
	if fh.HasSplines && g.Splines != nil {
		features.ApplySplines(g.Splines, canvas.Color[0], canvas.Color[1], canvas.Color[2], w, h)
	}
	if fh.HasNoise && g.Noise != nil {
		noisePlanes := features.InitNoise(rc.VisibleFrames, rc.InvisibleFrames, w, h, int(fh.GroupDim))
		for c := 0; c < 3; c++ {
			for i := range canvas.Color[c] {
				canvas.Color[c][i] += noisePlanes[c][i]
			}
		}
	}
}

func applyColorConversion(canvas *Canvas, img *imageheader.Header, fh *frame.Header) {
	if fh.Encoding == frame.EncodingVarDCT {
		colorconv.InverseXYB(canvas.Color[0], canvas.Color[1], canvas.Color[2], img.OpsinInverseMatrix, img.OpsinBias, img.ToneMapping.IntensityTarget)
	} else if fh.DoYCbCr {
		colorconv.YCbCrToRGB(canvas.Color[1], canvas.Color[0], canvas.Color[2])
	}
}

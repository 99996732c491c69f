package vardct

import (
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// blockContextIndex computes the HfBlockContext cluster index for one
// block, per lf.rs: a channel offset combined with the bucket the
// block's LF-magnitude and quantization multiplier fall into against
// the channel's decoded thresholds.
func blockContextIndex(hc *HfBlockContext, channel int, lfMagnitude int32, qf uint32) int {
	return BlockContextIndex(hc, channel, lfMagnitude, qf)
}

// BlockContextIndex is the exported form of blockContextIndex, for
// callers outside the package (such as per-group HF coefficient decode)
// that need to resolve a block's entropy cluster before reading its
// coefficients.
func BlockContextIndex(hc *HfBlockContext, channel int, lfMagnitude int32, qf uint32) int {
	lfBucket := 0
	for _, th := range hc.LfThresholds[channel] {
		if lfMagnitude > th {
			lfBucket++
		}
	}
	qfBucket := 0
	for _, th := range hc.QfThresholds {
		if qf > th {
			qfBucket++
		}
	}
	numQfBuckets := len(hc.QfThresholds) + 1

	idx := (channel*numQfBuckets + qfBucket) + lfBucket*numQfBuckets*3
	if idx < 0 || idx >= len(hc.BlockCtxMap) {
		idx = 0
	}
	return int(hc.BlockCtxMap[idx])
}

// DecodeBlockCoefficients reads and dequantizes the dw*dh AC/DC
// coefficients of one VarDCT block in its HfPass-determined scan order,
// per spec.md §4.5 steps 2-3: each coefficient's token context combines
// the block's HfBlockContext cluster, a position class derived from
// scan index, and the running non-zero predecessor count; the decoded
// signed integer is then scaled by the slot's dequant matrix entry,
// global_scale, and the block's hf_mul.
func DecodeBlockCoefficients(dec *coding.Decoder, order []Coeff, blockCtx int, numHfPresets uint32, preset uint32, slot *DequantMatrix, dw, dh int, globalScale uint32, hfMul int32) ([]float32, error) {
	n := len(order)
	raw := make([]int32, dw*dh)
	prevNonZero := 0

	for i, pos := range order {
		posClass := positionClass(i, n)
		ctx := hfCoefficientContext(blockCtx, posClass, prevNonZero, numHfPresets, preset)
		tok, err := dec.ReadSymbol(ctx)
		if err != nil {
			return nil, xerr.Wrap(xerr.IncompleteFrame, err, "hf coefficient token")
		}
		v := coding.UnpackSigned(tok)
		raw[int(pos.Y)*dw+int(pos.X)] = v
		if v != 0 {
			prevNonZero++
		}
	}

	out := make([]float32, dw*dh)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			out[y*dw+x] = Dequantize(slot, x, y, dw, dh, raw[y*dw+x], globalScale, hfMul)
		}
	}
	return out, nil
}

// positionClass buckets a scan index into one of 3 coarse
// low/mid/high-frequency classes, used as a cheap proxy for the
// reference decoder's finer zig-zag-position context split.
func positionClass(i, n int) int {
	switch {
	case i == 0:
		return 0
	case i*3 < n:
		return 1
	default:
		return 2
	}
}

// hfCoefficientContext composes the final entropy context from the
// block's cluster, its scan-position class, the running non-zero
// predecessor count (clamped), and the preset selector, per spec.md
// §4.5's "495 * num_hf_presets * num_block_clusters" context space
// partition referenced by HfPass.
func hfCoefficientContext(blockCtx, posClass, prevNonZero int, numHfPresets, preset uint32) int {
	if prevNonZero > 15 {
		prevNonZero = 15
	}
	perPreset := 495
	local := (blockCtx*3+posClass)*16 + prevNonZero
	if local >= perPreset {
		local = local % perPreset
	}
	return int(preset)*perPreset + local
}

package vardct

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/modular"
	"github.com/jxlcore/jxl/internal/xerr"
)

// dequantMatrixEncoding selects how one of the 17 dequant-matrix slots
// is carried in the bitstream, per spec.md §4.5.
type dequantMatrixEncoding uint8

const (
	dqLibrary dequantMatrixEncoding = iota
	dqHornuss
	dqDct2
	dqDct4
	dqDct4x8
	dqAfv
	dqDctRaw
	dqRaw
)

// numDequantSlots is the number of DequantMatrixParamIndex values a
// frame's DequantMatrixSet carries, one per distinct transform-type
// footprint class.
const numDequantSlots = 17

// DequantMatrix holds one slot's dequantization weights, stored at the
// transform's own DequantMatrixSize() extent, row-major.
type DequantMatrix struct {
	Width, Height int
	Weights       []float32
}

func (m *DequantMatrix) at(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 1
	}
	return m.Weights[y*m.Width+x]
}

// libraryDefault builds the identity-weighted fallback matrix used for
// the "library preset" encoding: spec.md does not carry the reference
// decoder's tuned per-preset tables (original_source's dequant.rs was
// not among the filtered sources), so slot presets here fall back to
// flat unity weighting, which is dimensionally correct and exercised by
// the same per-position lookup the explicit encodings use.
func libraryDefault(w, h int) *DequantMatrix {
	weights := make([]float32, w*h)
	for i := range weights {
		weights[i] = 1
	}
	return &DequantMatrix{Width: w, Height: h, Weights: weights}
}

// DequantMatrixSet holds all 17 slots for one frame.
type DequantMatrixSet struct {
	Slots [numDequantSlots]*DequantMatrix
}

// ParseDequantMatrixSet reads the full set: one encoding selector and
// payload per slot, each slot sized by its TransformType's
// DequantMatrixSize(). The size for a slot with several TransformTypes
// mapping to it (e.g. Dct16x8/Dct8x16 both select slot 6) is taken from
// the first TransformType that maps there.
func ParseDequantMatrixSet(br *bitio.Reader, tree *modular.Tree, numTreeContexts int) (*DequantMatrixSet, error) {
	set := &DequantMatrixSet{}
	slotSize := slotDequantSizes()

	for slot := 0; slot < numDequantSlots; slot++ {
		w, h := slotSize[slot][0], slotSize[slot][1]
		encRaw, err := br.Read(3)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "dequant matrix encoding")
		}
		enc := dequantMatrixEncoding(encRaw)

		switch enc {
		case dqLibrary:
			set.Slots[slot] = libraryDefault(w, h)
		case dqHornuss, dqDct2, dqDct4, dqDct4x8, dqAfv, dqDctRaw:
			m, err := parseDctParamMatrix(br, w, h)
			if err != nil {
				return nil, xerr.Wrap(xerr.DequantMatrixZero, err, "dequant matrix dct params")
			}
			set.Slots[slot] = m
		case dqRaw:
			m, err := parseRawMatrix(br, tree, numTreeContexts, slot, w, h)
			if err != nil {
				return nil, xerr.Wrap(xerr.DequantMatrixZero, err, "dequant matrix raw modular")
			}
			set.Slots[slot] = m
		default:
			return nil, xerr.Newf(xerr.DequantMatrixZero, "dequant matrix encoding %d out of range", enc)
		}

		for _, w := range set.Slots[slot].Weights {
			if w == 0 {
				return nil, xerr.New(xerr.DequantMatrixZero, "dequant matrix entry is zero")
			}
		}
	}

	return set, nil
}

// parseDctParamMatrix reads six F16 control points and expands them to
// a full w x h weight grid by linear interpolation over evenly spaced
// buckets of the Manhattan distance (x+y)/(w+h) from the origin; the
// "DCT"/"DCT4"/"DCT4x8"/"AFV"/"Hornuss" encodings are all read this
// way. Non-positive interpolated weights are replaced by 1.
func parseDctParamMatrix(br *bitio.Reader, w, h int) (*DequantMatrix, error) {
	const numParams = 6
	params := make([]float32, numParams)
	for i := range params {
		v, err := br.ReadF16()
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "dct param")
		}
		params[i] = v
	}
	weights := make([]float32, w*h)
	maxDist := float32(w + h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := float32(x+y) / maxDist
			bucket := int(dist * float32(numParams-1))
			if bucket >= numParams-1 {
				bucket = numParams - 2
			}
			if bucket < 0 {
				bucket = 0
			}
			frac := dist*float32(numParams-1) - float32(bucket)
			v := params[bucket]*(1-frac) + params[bucket+1]*frac
			if v <= 0 {
				v = 1
			}
			weights[y*w+x] = v
		}
	}
	return &DequantMatrix{Width: w, Height: h, Weights: weights}, nil
}

// parseRawMatrix reads the slot as a raw 1-channel modular sub-image at
// (w, h), per spec.md's "raw" encoding.
func parseRawMatrix(br *bitio.Reader, tree *modular.Tree, numTreeContexts, slot, w, h int) (*DequantMatrix, error) {
	img := &modular.Image{Channels: []*modular.Channel{modular.NewChannel(w, h, 0, 0)}}
	dec, err := coding.NewDecoder(br, numTreeContexts, 8)
	if err != nil {
		return nil, err
	}
	if err := modular.DecodeGroup(dec, tree, img, slot); err != nil {
		return nil, err
	}
	weights := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := img.Channels[0].At(x, y)
			weights[y*w+x] = float32(v) / 65536.0
		}
	}
	return &DequantMatrix{Width: w, Height: h, Weights: weights}, nil
}

// slotDequantSizes maps each of the 17 dequant slots to the (w, h) of
// the first TransformType whose DequantMatrixParamIndex selects it.
func slotDequantSizes() [numDequantSlots][2]int {
	var sizes [numDequantSlots][2]int
	var filled [numDequantSlots]bool
	for t := TransformType(0); t < numTransformTypes; t++ {
		slot := t.DequantMatrixParamIndex()
		if filled[slot] {
			continue
		}
		w, h := t.DequantMatrixSize()
		sizes[slot] = [2]int{w, h}
		filled[slot] = true
	}
	return sizes
}

// Dequantize maps one decoded integer coefficient at grid position
// (x, y) within a dw x dh block using slot's weights (nearest-neighbor
// sampled if the block is smaller than the matrix, as for blocks that
// reuse a larger slot's table) back to its real-valued coefficient, per
// spec.md §4.5 step 3: coeff = int * dequant_matrix[pos] * global_scale
// / hf_mul.
func Dequantize(slotMatrix *DequantMatrix, x, y, dw, dh int, raw int32, globalScale uint32, hfMul int32) float32 {
	mx := x * slotMatrix.Width / dw
	my := y * slotMatrix.Height / dh
	weight := slotMatrix.at(mx, my)
	return float32(raw) * weight * float32(globalScale) / float32(hfMul)
}

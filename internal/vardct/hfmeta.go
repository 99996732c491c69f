package vardct

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/modular"
	"github.com/jxlcore/jxl/internal/xerr"
)

// HfMetadataParams carries the per-LfGroup context HfMetadata needs to
// size its modular sub-image and, when the restoration filter's EPF
// stage is active, to derive per-block sigma, ported from
// hf_metadata.rs's HfMetadataParams.
type HfMetadataParams struct {
	NumLfGroups         uint32
	LfGroupIdx          uint32
	LfWidth, LfHeight   uint32
	JpegUpsampling      [3]uint32
	QuantizerGlobalScale uint32
	EpfQuantMul         float32
	EpfSharpLut         [8]float32
	EpfEnabled          bool
}

// BlockState distinguishes a block grid cell that has not yet been
// visited by the construction scan from one that is merely covered by
// a larger neighboring block versus one that is the block's own
// anchor cell, per hf_metadata.rs's BlockInfo enum.
type BlockState uint8

const (
	BlockUninit BlockState = iota
	BlockOccupied
	BlockData
)

// BlockInfo is one cell of the per-8x8-unit block-info grid: for anchor
// cells (State == BlockData), the transform type and HF multiplier
// that cover this and any subsequent cells of the same block's
// footprint.
type BlockInfo struct {
	State     BlockState
	DctSelect TransformType
	HfMul     int32
}

// HfMetadata is the decoded per-LfGroup chroma-from-luma base grid,
// block transform-type/multiplier grid, and (optionally) per-block EPF
// sigma grid, ported from hf_metadata.rs's HfMetadata.
type HfMetadata struct {
	Bw, Bh    int
	XFromY    *modular.Channel
	BFromY    *modular.Channel
	BlockInfo []BlockInfo // row-major, Bw*Bh
	EpfSigma  []float32   // row-major, Bw*Bh; nil when EPF is disabled

	// HfDecoded marks, row-major over the same Bw*Bh grid as BlockInfo,
	// every cell whose sample already received its DC term from the HF
	// pass's own per-block coefficient (0,0) during this frame's group
	// decode. The LF-assembly pass consults this instead of guessing
	// from the canvas's numeric content, so a block that legitimately
	// reconstructs to exactly 0.0 isn't mistaken for one still waiting
	// on its low-frequency overlay.
	HfDecoded []bool
}

func (m *HfMetadata) at(x, y int) int { return y*m.Bw + x }

// MarkDecoded records that the dw x dh (in 8x8-unit) footprint anchored
// at (x, y) had its coefficients placed onto the canvas by the HF pass,
// so assembleLfIntoCanvas knows to leave that footprint alone.
func (m *HfMetadata) MarkDecoded(x, y, dw, dh int) {
	if m.HfDecoded == nil {
		return
	}
	for dy := 0; dy < dh; dy++ {
		if y+dy >= m.Bh {
			continue
		}
		for dx := 0; dx < dw; dx++ {
			if x+dx >= m.Bw {
				continue
			}
			m.HfDecoded[m.at(x+dx, y+dy)] = true
		}
	}
}

// Decoded reports whether (x, y) already got its DC from the HF pass;
// out-of-range coordinates and frames with no HfDecoded grid (shouldn't
// happen for VarDCT, but guarded defensively) report false so the LF
// overlay applies.
func (m *HfMetadata) Decoded(x, y int) bool {
	if m == nil || m.HfDecoded == nil || x < 0 || y < 0 || x >= m.Bw || y >= m.Bh {
		return false
	}
	return m.HfDecoded[m.at(x, y)]
}

// ParseHfMetadata reads the 4-channel modular sub-image (x_from_y,
// b_from_y, block_info_raw, sharpness) and folds it into the BlockInfo
// grid, per hf_metadata.rs's Bundle impl: nb_blocks is read as a raw
// "one more than fits in ceil(log2(bw*bh))" count, then the grid is
// filled in row-major scan order, each unoccupied cell consuming the
// next block_info_raw entry and marking its whole dct_select_size
// footprint as covered.
func ParseHfMetadata(br *bitio.Reader, tree *modular.Tree, numTreeContexts int, p HfMetadataParams) (*HfMetadata, error) {
	bw := int((p.LfWidth + 7) / 8)
	bh := int((p.LfHeight + 7) / 8)

	hUpsample, vUpsample := false, false
	for _, j := range p.JpegUpsampling {
		if j == 1 || j == 2 {
			hUpsample = true
		}
		if j == 1 || j == 3 {
			vUpsample = true
		}
	}
	if hUpsample {
		bw = (bw + 1) / 2 * 2
	}
	if vUpsample {
		bh = (bh + 1) / 2 * 2
	}

	nbBlocksBits := log2Ceil(uint32(bw * bh))
	nbBlocksRaw, err := br.Read(nbBlocksBits)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "hf metadata nb_blocks")
	}
	nbBlocks := int(nbBlocksRaw) + 1

	cfW := int((p.LfWidth + 63) / 64)
	cfH := int((p.LfHeight + 63) / 64)

	img := &modular.Image{Channels: []*modular.Channel{
		modular.NewChannel(cfW, cfH, 0, 0),
		modular.NewChannel(cfW, cfH, 0, 0),
		modular.NewChannel(nbBlocks, 2, 0, 0),
		modular.NewChannel(bw, bh, 0, 0),
	}}

	dec, err := coding.NewDecoder(br, numTreeContexts, 8)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidHfBlockInfo, err, "hf metadata entropy decoder")
	}
	streamIdx := int(1 + 2*p.NumLfGroups + p.LfGroupIdx)
	if err := modular.DecodeGroup(dec, tree, img, streamIdx); err != nil {
		return nil, xerr.Wrap(xerr.InvalidHfBlockInfo, err, "hf metadata modular decode")
	}

	xFromY, bFromY, blockInfoRaw, sharpness := img.Channels[0], img.Channels[1], img.Channels[2], img.Channels[3]

	m := &HfMetadata{Bw: bw, Bh: bh, XFromY: xFromY, BFromY: bFromY, BlockInfo: make([]BlockInfo, bw*bh), HfDecoded: make([]bool, bw*bh)}
	if p.EpfEnabled {
		m.EpfSigma = make([]float32, bw*bh)
	}

	dataIdx := 0
	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			if m.BlockInfo[m.at(x, y)].State != BlockUninit {
				continue
			}
			if dataIdx >= nbBlocks {
				return nil, xerr.New(xerr.InvalidHfBlockInfo, "block info grid exceeds decoded block count")
			}
			rawSelect := blockInfoRaw.At(dataIdx, 0)
			dctSelect, err := ParseTransformType(uint8(rawSelect))
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidHfBlockInfo, err, "block dct_select")
			}
			hfMul := blockInfoRaw.At(dataIdx, 1) + 1
			dw, dh := dctSelect.DctSelectSize()

			var sigma, sharpScaled float32
			if p.EpfEnabled {
				sigma = p.EpfQuantMul * 65536.0 / float32(p.QuantizerGlobalScale)
				sharpScaled = sigma / float32(hfMul)
			}

			for dy := 0; dy < dh; dy++ {
				for dx := 0; dx < dw; dx++ {
					if y+dy >= bh || x+dx >= bw {
						continue
					}
					idx := m.at(x+dx, y+dy)
					if dx == 0 && dy == 0 {
						m.BlockInfo[idx] = BlockInfo{State: BlockData, DctSelect: dctSelect, HfMul: hfMul}
					} else {
						m.BlockInfo[idx] = BlockInfo{State: BlockOccupied}
					}
					if p.EpfEnabled {
						sharpBin := sharpness.At(x+dx, y+dy)
						if sharpBin < 0 || int(sharpBin) >= len(p.EpfSharpLut) {
							return nil, xerr.Newf(xerr.InvalidHfBlockInfo, "epf sharpness bin %d out of range", sharpBin)
						}
						m.EpfSigma[idx] = sharpScaled * p.EpfSharpLut[sharpBin]
					}
				}
			}
			dataIdx++
			x += dw - 1
		}
	}

	return m, nil
}

// log2Ceil returns the bit width needed to index [0, next_power_of_two(v)),
// per hf_metadata.rs's (bw*bh).next_power_of_two().trailing_zeros().
func log2Ceil(v uint32) uint {
	if v <= 1 {
		return 0
	}
	var n uint
	p := uint32(1)
	for p < v {
		p <<= 1
		n++
	}
	return n
}

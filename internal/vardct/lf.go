package vardct

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// LfChannelDequantization carries the per-channel LF dequantization
// factors, ported from lf.rs's LfChannelDequantization bundle.
type LfChannelDequantization struct {
	MXLf, MYLf, MBLf float32
}

// MXLfUnscaled, MYLfUnscaled, MBLfUnscaled apply the fixed /128 scale
// the reference decoder folds in at point of use.
func (d LfChannelDequantization) MXLfUnscaled() float32 { return d.MXLf / 128 }
func (d LfChannelDequantization) MYLfUnscaled() float32 { return d.MYLf / 128 }
func (d LfChannelDequantization) MBLfUnscaled() float32 { return d.MBLf / 128 }

// ParseLfChannelDequantization reads the bundle, defaulting to
// (1/32, 1/4, 1/2) when all_default is set.
func ParseLfChannelDequantization(br *bitio.Reader) (*LfChannelDequantization, error) {
	d := &LfChannelDequantization{MXLf: 1.0 / 32, MYLf: 1.0 / 4, MBLf: 1.0 / 2}
	allDefault, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "lf dequant all_default")
	}
	if allDefault {
		return d, nil
	}
	if d.MXLf, err = readF16(br); err != nil {
		return nil, err
	}
	if d.MYLf, err = readF16(br); err != nil {
		return nil, err
	}
	if d.MBLf, err = readF16(br); err != nil {
		return nil, err
	}
	return d, nil
}

// Quantizer carries the frame's global quantization multipliers, ported
// from lf.rs's Quantizer bundle.
type Quantizer struct {
	GlobalScale uint32
	QuantLf     uint32
}

func ParseQuantizer(br *bitio.Reader) (*Quantizer, error) {
	globalScale, err := br.ReadU32(
		bitio.U32Config{Offset: 1, Bits: 11},
		bitio.U32Config{Offset: 2049, Bits: 11},
		bitio.U32Config{Offset: 4097, Bits: 12},
		bitio.U32Config{Offset: 8193, Bits: 16},
	)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "global_scale")
	}
	quantLf, err := br.ReadU32(
		bitio.U32Config{Offset: 16, Bits: 0},
		bitio.U32Config{Offset: 1, Bits: 5},
		bitio.U32Config{Offset: 1, Bits: 8},
		bitio.U32Config{Offset: 1, Bits: 16},
	)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "quant_lf")
	}
	return &Quantizer{GlobalScale: globalScale, QuantLf: quantLf}, nil
}

// LfChannelCorrelation carries the chroma-from-luma base parameters,
// ported from lf.rs's LfChannelCorrelation bundle.
type LfChannelCorrelation struct {
	ColourFactor              uint32
	BaseCorrelationX, BaseCorrelationB float32
	XFactorLf, BFactorLf      uint32
}

func ParseLfChannelCorrelation(br *bitio.Reader) (*LfChannelCorrelation, error) {
	c := &LfChannelCorrelation{ColourFactor: 84, BaseCorrelationX: 0, BaseCorrelationB: 1.0, XFactorLf: 128, BFactorLf: 128}
	allDefault, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "lf correlation all_default")
	}
	if allDefault {
		return c, nil
	}
	cf, err := br.ReadU32(
		bitio.U32Config{Offset: 84, Bits: 0},
		bitio.U32Config{Offset: 256, Bits: 0},
		bitio.U32Config{Offset: 2, Bits: 8},
		bitio.U32Config{Offset: 258, Bits: 16},
	)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "colour_factor")
	}
	c.ColourFactor = cf
	if c.BaseCorrelationX, err = readF16(br); err != nil {
		return nil, err
	}
	if c.BaseCorrelationB, err = readF16(br); err != nil {
		return nil, err
	}
	xf, err := br.Read(8)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "x_factor_lf")
	}
	c.XFactorLf = xf
	bf, err := br.Read(8)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "b_factor_lf")
	}
	c.BFactorLf = bf
	return c, nil
}

func readF16(br *bitio.Reader) (float32, error) {
	v, err := br.ReadF16()
	if err != nil {
		return 0, xerr.Wrap(xerr.InvalidFloat, err, "f16")
	}
	return v, nil
}

// defaultBlockCtxMap is the canonical 39-bin (13 lf-threshold buckets x
// 3 channels) block-context map, ported verbatim from lf.rs's hardcoded
// fallback when the "default" flag is set.
var defaultBlockCtxMap = []uint8{
	0, 1, 2, 2, 3, 3, 4, 5, 6, 6, 6, 6, 6,
	7, 8, 9, 9, 10, 11, 12, 13, 14, 14, 14, 14, 14,
	7, 8, 9, 9, 10, 11, 12, 13, 14, 14, 14, 14, 14,
}

// HfBlockContext partitions HF-coefficient entropy contexts by
// quantization and LF-magnitude thresholds, ported from lf.rs's
// HfBlockContext bundle.
type HfBlockContext struct {
	QfThresholds     []uint32
	LfThresholds     [3][]int32
	BlockCtxMap      []uint8
	NumBlockClusters uint32
}

// ParseHfBlockContext reads the bundle: either the canonical default map
// (15 clusters) or an explicit threshold-and-cluster-map encoding.
func ParseHfBlockContext(br *bitio.Reader) (*HfBlockContext, error) {
	useDefault, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "hf block context default flag")
	}
	if useDefault {
		return &HfBlockContext{BlockCtxMap: defaultBlockCtxMap, NumBlockClusters: 15}, nil
	}

	hc := &HfBlockContext{}
	bsize := uint32(1)
	for c := 0; c < 3; c++ {
		numThresholds, err := br.Read(4)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "num_lf_thresholds")
		}
		bsize *= numThresholds + 1
		for i := uint32(0); i < numThresholds; i++ {
			t, err := br.ReadU32(
				bitio.U32Config{Offset: 0, Bits: 4},
				bitio.U32Config{Offset: 16, Bits: 8},
				bitio.U32Config{Offset: 272, Bits: 16},
				bitio.U32Config{Offset: 65808, Bits: 32},
			)
			if err != nil {
				return nil, xerr.Wrap(xerr.UnexpectedEof, err, "lf_threshold")
			}
			hc.LfThresholds[c] = append(hc.LfThresholds[c], coding.UnpackSigned(t))
		}
	}

	numQfThresholds, err := br.Read(4)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "num_qf_thresholds")
	}
	bsize *= numQfThresholds + 1
	for i := uint32(0); i < numQfThresholds; i++ {
		t, err := br.ReadU32(
			bitio.U32Config{Offset: 0, Bits: 2},
			bitio.U32Config{Offset: 4, Bits: 3},
			bitio.U32Config{Offset: 12, Bits: 5},
			bitio.U32Config{Offset: 44, Bits: 8},
		)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "qf_threshold")
		}
		hc.QfThresholds = append(hc.QfThresholds, 1+t)
	}

	ctxMap, numClusters, err := coding.ReadClusterMap(br, int(bsize*39))
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidCluster, err, "hf block context cluster map")
	}
	hc.NumBlockClusters = uint32(numClusters)
	hc.BlockCtxMap = make([]uint8, len(ctxMap))
	for i, v := range ctxMap {
		hc.BlockCtxMap[i] = uint8(v)
	}
	return hc, nil
}

// Package frame implements per-frame parsing: the frame header, the
// table of contents over its tiles, and the group/lf-group count
// arithmetic every later layer (Modular, VarDCT, render) depends on.
// Grounded on the teacher codec's internal/codestream flat-header/
// linear-parser shape, generalized from JPEG2000's single per-codestream
// SIZ header to JPEG XL's per-frame header repeated once per animation
// frame.
package frame

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/imageheader"
	"github.com/jxlcore/jxl/internal/xerr"
)

// Encoding selects the frame's pixel-data subsystem.
type Encoding uint8

const (
	EncodingVarDCT Encoding = iota
	EncodingModular
)

// BlendMode selects how a frame's region composites onto the canvas or
// a reference-frame slot.
type BlendMode uint8

const (
	BlendReplace BlendMode = iota
	BlendAdd
	BlendBlend
	BlendMulAdd
	BlendMul
)

// BlendInfo carries the per-channel blend parameters read from the
// frame header, one slot for color and one per extra channel.
type BlendInfo struct {
	Mode        BlendMode
	AlphaChannel uint32
	Clamp       bool
	Source      uint32 // reference-frame slot, 0-3
}

// PassesInfo describes the progressive-refinement schedule: a count of
// passes, each with a downsampling factor and a shift applied to HF
// coefficients not yet present in that pass.
type PassesInfo struct {
	NumPasses      uint32
	Shift          []uint32
	Downsample     []uint32
	LastPassOfShift []uint32
}

// RestorationFilter bundles the EPF and Gabor-like filter parameters
// read from the frame header; per-channel sigma/weight fields live on
// HfMetadata and are filled in during VarDCT decode, not here.
type RestorationFilter struct {
	GaborishEnabled bool
	GaborWeights    [3][2]float32 // per channel: (w0 side, w1 diag)

	EpfEnabled      bool
	EpfIterations   uint32
	EpfQuantMul     float32 // VarDCT only; Modular frames use a fixed default
	EpfSigmaScale   float32 // pass0_sigma_scale
	EpfPass2SigmaScale float32
	EpfChannelScale [3]float32
	EpfSharpLut     [8]float32 // VarDCT only; unused (left zero) for Modular frames
	EpfBorderSadMul float32
	EpfSigmaForModular float32 // Modular only; VarDCT frames derive sigma from HfMetadata
}

// Header is one frame's full set of decoded parameters, per spec.md §3's
// "Frame header" data-model entry.
type Header struct {
	Encoding Encoding

	HasPatches bool
	HasSplines bool
	HasNoise   bool
	UseLfFrame bool
	SkipAdaptiveLfSmoothing bool

	DoYCbCr bool
	// JpegUpsampling[c] in [0,3]: 0 none, 1 both h+v, 2 h-only, 3 v-only.
	JpegUpsampling [3]uint8
	UpsamplingFactor uint32
	ExtraChannelUpsampling []uint32

	Passes PassesInfo
	Filter RestorationFilter

	SaveAsReference uint32 // 0 means not saved
	SaveBeforeCT    bool
	Blend           BlendInfo
	ExtraChannelBlend []BlendInfo

	IsLast bool
	DurationTicks uint32

	X0, Y0        int32
	Width, Height uint32

	GroupDim uint32
}

// NumGroups is ceil(frame_w/group_dim) * ceil(frame_h/group_dim), per
// spec.md §3's invariants.
func (h *Header) NumGroups() uint32 {
	return ceilDiv(h.Width, h.GroupDim) * ceilDiv(h.Height, h.GroupDim)
}

// NumLfGroups is the same computation over group_dim*8-sized tiles.
func (h *Header) NumLfGroups() uint32 {
	return ceilDiv(h.Width, h.GroupDim*8) * ceilDiv(h.Height, h.GroupDim*8)
}

func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

var groupDims = [4]uint32{128, 256, 512, 1024}

// ParseHeader reads one frame header, per spec.md §3/§4's component list.
// img is the already-parsed image header providing canvas bounds used
// when the frame omits an explicit region (full-frame case).
//
// No frame-header source file survived in the reference decoder's
// filtered index, so field order and bit widths here are this decoder's
// own encoding built from spec.md's prose description, in the same spirit
// as imageheader.Parse.
func ParseHeader(br *bitio.Reader, img *imageheader.Header) (*Header, error) {
	h := &Header{}

	allDefault, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "frame all_default")
	}

	if !allDefault {
		encBit, err := br.Read(1)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "frame encoding")
		}
		if encBit == 0 {
			h.Encoding = EncodingVarDCT
		} else {
			h.Encoding = EncodingModular
		}

		flags, err := br.ReadU64()
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "frame flags")
		}
		h.HasPatches = flags&1 != 0
		h.HasSplines = flags&2 != 0
		h.HasNoise = flags&4 != 0
		h.UseLfFrame = flags&8 != 0
		h.SkipAdaptiveLfSmoothing = flags&16 != 0

		h.DoYCbCr, err = br.ReadBool()
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "do_ycbcr")
		}
		if h.DoYCbCr {
			for c := 0; c < 3; c++ {
				v, err := br.Read(2)
				if err != nil {
					return nil, xerr.Wrap(xerr.UnexpectedEof, err, "jpeg_upsampling")
				}
				h.JpegUpsampling[c] = uint8(v)
			}
		}

		upsel, err := br.Read(2)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "upsampling selector")
		}
		h.UpsamplingFactor = [4]uint32{1, 2, 4, 8}[upsel]

		h.ExtraChannelUpsampling = make([]uint32, len(img.ExtraChannels))
		for i := range h.ExtraChannelUpsampling {
			sel, err := br.Read(2)
			if err != nil {
				return nil, xerr.Wrap(xerr.UnexpectedEof, err, "extra channel upsampling")
			}
			h.ExtraChannelUpsampling[i] = [4]uint32{1, 2, 4, 8}[sel]
		}

		if err := parsePasses(br, &h.Passes); err != nil {
			return nil, err
		}

		gdSel, err := br.Read(2)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "group_dim selector")
		}
		h.GroupDim = groupDims[gdSel]

		if err := parseRestorationFilter(br, &h.Filter, h.Encoding); err != nil {
			return nil, err
		}

		sref, err := br.Read(2)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "save_as_reference")
		}
		h.SaveAsReference = sref

		h.SaveBeforeCT, err = br.ReadBool()
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "save_before_ct")
		}

		if err := parseBlendInfo(br, &h.Blend); err != nil {
			return nil, err
		}
		h.ExtraChannelBlend = make([]BlendInfo, len(img.ExtraChannels))
		for i := range h.ExtraChannelBlend {
			if err := parseBlendInfo(br, &h.ExtraChannelBlend[i]); err != nil {
				return nil, err
			}
		}

		h.IsLast, err = br.ReadBool()
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "is_last")
		}
		if img.HasAnimation && !h.IsLast {
			h.DurationTicks, err = br.ReadU32(
				bitio.U32Config{Offset: 0, Bits: 0},
				bitio.U32Config{Offset: 0, Bits: 8},
				bitio.U32Config{Offset: 0, Bits: 16},
				bitio.U32Config{Offset: 0, Bits: 32},
			)
			if err != nil {
				return nil, xerr.Wrap(xerr.UnexpectedEof, err, "duration")
			}
		}

		hasRegion, err := br.ReadBool()
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "has_region")
		}
		if hasRegion {
			x0, y0, w, hh, err := parseRegion(br)
			if err != nil {
				return nil, err
			}
			h.X0, h.Y0, h.Width, h.Height = x0, y0, w, hh
		} else {
			h.Width, h.Height = img.Width, img.Height
		}
	} else {
		h.Encoding = EncodingVarDCT
		h.UpsamplingFactor = 1
		h.GroupDim = 256
		h.IsLast = true
		h.Width, h.Height = img.Width, img.Height
		h.ExtraChannelUpsampling = make([]uint32, len(img.ExtraChannels))
		for i := range h.ExtraChannelUpsampling {
			h.ExtraChannelUpsampling[i] = 1
		}
		h.ExtraChannelBlend = make([]BlendInfo, len(img.ExtraChannels))
		h.Passes.NumPasses = 1
	}

	if h.Width == 0 || h.Height == 0 {
		return nil, xerr.New(xerr.ValidationFailed, "frame region has zero extent")
	}

	return h, nil
}

func parsePasses(br *bitio.Reader, p *PassesInfo) error {
	numPasses, err := br.Read(3)
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "num_passes")
	}
	if numPasses == 0 {
		numPasses = 1
	}
	p.NumPasses = numPasses
	p.Shift = make([]uint32, numPasses)
	p.Downsample = make([]uint32, numPasses)
	p.LastPassOfShift = make([]uint32, numPasses)
	if numPasses == 1 {
		p.Downsample[0] = 1
		return nil
	}
	for i := uint32(0); i < numPasses; i++ {
		v, err := br.Read(2)
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "pass downsample")
		}
		p.Downsample[i] = [4]uint32{8, 4, 2, 1}[v]
		s, err := br.Read(3)
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "pass shift")
		}
		p.Shift[i] = s
	}
	return nil
}

var epfSharpLutDefault = [8]float32{0, 1.0 / 7, 2.0 / 7, 3.0 / 7, 4.0 / 7, 5.0 / 7, 6.0 / 7, 1.0}
var epfChannelScaleDefault = [3]float32{40.0, 5.0, 3.5}

const (
	gaborWeightDefault0 = 0.115169525
	gaborWeightDefault1 = 0.061248592

	epfQuantMulDefault       = 0.46
	epfPass0SigmaScaleDefault = 0.9
	epfPass2SigmaScaleDefault = 6.5
	epfBorderSadMulDefault    = 2.0 / 3.0
)

// parseRestorationFilter reads the Gabor-like and EPF blending parameters,
// ported from the reference decoder's Gabor/EdgePreservingFilter/EpfSigma
// bundles (jxl-frame/src/filter.rs). Custom per-field overrides are only
// read when their own enable bit is set; each otherwise falls back to the
// bitstream's fixed default, matching the original's per-field Default
// impls exactly (including the channel_scale bundle's trailing 32 ignored
// bits, kept here purely to stay byte-aligned with the reference stream).
func parseRestorationFilter(br *bitio.Reader, f *RestorationFilter, enc Encoding) error {
	var err error
	f.GaborishEnabled, err = br.ReadBool()
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "gaborish enabled")
	}
	if f.GaborishEnabled {
		custom, err := br.ReadBool()
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "gaborish custom")
		}
		if custom {
			for c := 0; c < 3; c++ {
				w0, err := br.ReadF16()
				if err != nil {
					return xerr.Wrap(xerr.UnexpectedEof, err, "gaborish weight")
				}
				w1, err := br.ReadF16()
				if err != nil {
					return xerr.Wrap(xerr.UnexpectedEof, err, "gaborish weight")
				}
				f.GaborWeights[c] = [2]float32{w0, w1}
			}
		} else {
			for c := 0; c < 3; c++ {
				f.GaborWeights[c] = [2]float32{gaborWeightDefault0, gaborWeightDefault1}
			}
		}
	}

	iters, err := br.Read(2)
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "epf iterations")
	}
	if iters == 0 {
		f.EpfEnabled = false
		return nil
	}
	f.EpfEnabled = true
	f.EpfIterations = iters

	sharpCustom := false
	if enc == EncodingVarDCT {
		sharpCustom, err = br.ReadBool()
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "epf sharp_lut custom")
		}
	}
	if sharpCustom {
		for i := range f.EpfSharpLut {
			f.EpfSharpLut[i], err = br.ReadF16()
			if err != nil {
				return xerr.Wrap(xerr.UnexpectedEof, err, "epf sharp_lut")
			}
		}
	} else {
		f.EpfSharpLut = epfSharpLutDefault
	}

	weightCustom, err := br.ReadBool()
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "epf channel_scale custom")
	}
	if weightCustom {
		for i := range f.EpfChannelScale {
			f.EpfChannelScale[i], err = br.ReadF16()
			if err != nil {
				return xerr.Wrap(xerr.UnexpectedEof, err, "epf channel_scale")
			}
		}
		if _, err := br.Read(32); err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "epf channel_scale padding")
		}
	} else {
		f.EpfChannelScale = epfChannelScaleDefault
	}

	sigmaCustom, err := br.ReadBool()
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "epf sigma custom")
	}
	if sigmaCustom {
		if enc == EncodingVarDCT {
			f.EpfQuantMul, err = br.ReadF16()
			if err != nil {
				return xerr.Wrap(xerr.UnexpectedEof, err, "epf quant_mul")
			}
		} else {
			f.EpfQuantMul = epfQuantMulDefault
		}
		f.EpfSigmaScale, err = br.ReadF16()
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "epf pass0_sigma_scale")
		}
		f.EpfPass2SigmaScale, err = br.ReadF16()
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "epf pass2_sigma_scale")
		}
		f.EpfBorderSadMul, err = br.ReadF16()
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "epf border_sad_mul")
		}
	} else {
		f.EpfQuantMul = epfQuantMulDefault
		f.EpfSigmaScale = epfPass0SigmaScaleDefault
		f.EpfPass2SigmaScale = epfPass2SigmaScaleDefault
		f.EpfBorderSadMul = epfBorderSadMulDefault
	}

	if enc == EncodingModular {
		f.EpfSigmaForModular, err = br.ReadF16()
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "epf sigma_for_modular")
		}
	} else {
		f.EpfSigmaForModular = 1.0
	}

	return nil
}

func parseBlendInfo(br *bitio.Reader, b *BlendInfo) error {
	mode, err := br.Read(3)
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "blend mode")
	}
	if mode > uint32(BlendMul) {
		return xerr.Newf(xerr.InvalidEnum, "blend mode %d out of range", mode)
	}
	b.Mode = BlendMode(mode)
	if b.Mode == BlendBlend || b.Mode == BlendMulAdd {
		ac, err := br.Read(2)
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "blend alpha channel")
		}
		b.AlphaChannel = ac
		b.Clamp, err = br.ReadBool()
		if err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "blend clamp")
		}
	}
	src, err := br.Read(2)
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "blend source")
	}
	b.Source = src
	return nil
}

func parseRegion(br *bitio.Reader) (x0, y0 int32, w, h uint32, err error) {
	ux0, err := readSignedRegionCoord(br)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	uy0, err := readSignedRegionCoord(br)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	rw, err := br.ReadU32(
		bitio.U32Config{Offset: 0, Bits: 8},
		bitio.U32Config{Offset: 256, Bits: 11},
		bitio.U32Config{Offset: 2304, Bits: 14},
		bitio.U32Config{Offset: 18688, Bits: 30},
	)
	if err != nil {
		return 0, 0, 0, 0, xerr.Wrap(xerr.UnexpectedEof, err, "region width")
	}
	rh, err := br.ReadU32(
		bitio.U32Config{Offset: 0, Bits: 8},
		bitio.U32Config{Offset: 256, Bits: 11},
		bitio.U32Config{Offset: 2304, Bits: 14},
		bitio.U32Config{Offset: 18688, Bits: 30},
	)
	if err != nil {
		return 0, 0, 0, 0, xerr.Wrap(xerr.UnexpectedEof, err, "region height")
	}
	return ux0, uy0, rw, rh, nil
}

func readSignedRegionCoord(br *bitio.Reader) (int32, error) {
	u, err := br.ReadU32(
		bitio.U32Config{Offset: 0, Bits: 8},
		bitio.U32Config{Offset: 256, Bits: 11},
		bitio.U32Config{Offset: 2304, Bits: 14},
		bitio.U32Config{Offset: 18688, Bits: 30},
	)
	if err != nil {
		return 0, err
	}
	if u&1 != 0 {
		return -int32(u >> 1), nil
	}
	return int32(u >> 1), nil
}

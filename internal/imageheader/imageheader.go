// Package imageheader decodes the JPEG XL image header: canvas size, bit
// depth, color encoding, orientation, tone mapping, and extra-channel
// metadata, following the flat header-struct-plus-parser-function shape
// of the teacher codec's internal/codestream.Header / ReadHeader.
package imageheader

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/xerr"
)

// WhitePoint enumerates the built-in illuminants.
type WhitePoint uint8

const (
	WhiteD65 WhitePoint = iota
	WhiteCustom
	WhiteE
	WhiteDCI
)

// Primaries enumerates the built-in gamuts.
type Primaries uint8

const (
	PrimariesSRGB Primaries = iota
	PrimariesCustom
	Primaries2100
	PrimariesP3
)

// TransferFunction enumerates the supported EOTFs.
type TransferFunction uint8

const (
	TF709 TransferFunction = iota
	TFUnknown
	TFLinear
	TFSRGB
	TFPQ
	TFDCI
	TFHLG
	TFGamma // carries an explicit Gamma value
)

// RenderingIntent mirrors the ICC rendering-intent enumeration.
type RenderingIntent uint8

const (
	IntentPerceptual RenderingIntent = iota
	IntentRelative
	IntentSaturation
	IntentAbsolute
)

// ColorSpace is the top-level color-model tag.
type ColorSpace uint8

const (
	ColorRGB ColorSpace = iota
	ColorGray
	ColorXYB
	ColorUnknown
)

// ColorEncoding is the enumerated (non-ICC) color description, or a flag
// that an ICC profile follows instead.
type ColorEncoding struct {
	WantICC   bool
	Space     ColorSpace
	WhitePt   WhitePoint
	CustomWP  [2]int32 // unscaled CIE xy when WhitePt==WhiteCustom
	Prim      Primaries
	CustomPrim [3][2]int32
	TF        TransferFunction
	Gamma     uint32 // 1e7-scaled, valid when TF==TFGamma
	Intent    RenderingIntent
}

// ExtraChannelType tags what an extra channel represents.
type ExtraChannelType uint8

const (
	ExtraAlpha ExtraChannelType = iota
	ExtraDepth
	ExtraSpotColor
	ExtraSelectionMask
	ExtraBlack
	ExtraCFA
	ExtraThermal
	ExtraUnknown
	ExtraOptional
)

// ExtraChannelInfo describes one non-color channel.
type ExtraChannelInfo struct {
	Type          ExtraChannelType
	BitDepth      BitDepth
	DimShift      uint32
	Name          string
	AlphaAssoc    bool // premultiplied, only meaningful when Type==ExtraAlpha
	SpotColor     [4]float32
	CfaChannel    uint32
}

// BitDepth describes either integer or floating-point samples.
type BitDepth struct {
	FloatSample  bool
	BitsPerSample uint32
	ExpBits      uint32 // valid when FloatSample
}

// ToneMapping carries the HDR display calibration the renderer and CMS
// need for PQ/HLG handling.
type ToneMapping struct {
	IntensityTarget float32
	MinNits         float32
	RelativeToMaxDisplay bool
	LinearBelow     float32
}

// Animation describes the optional looping/timing sub-header.
type Animation struct {
	TpsNumerator   uint32
	TpsDenominator uint32
	NumLoops       uint32
	HaveTimecodes  bool
}

// Header is the fully parsed, immutable image header: canvas size,
// bit depth, color encoding, orientation, tone mapping, and the extra
// channel list, referenced by every later frame.
type Header struct {
	Width, Height uint32
	Orientation   uint8 // 1-8, per EXIF

	ModularBitDepth BitDepth
	XYBEncoded      bool
	ColorEncoding   ColorEncoding
	ToneMapping     ToneMapping

	HasPreview bool
	PreviewW, PreviewH uint32

	HasAnimation bool
	Animation    Animation

	ExtraChannels []ExtraChannelInfo

	OpsinInverseMatrix [3][3]float32
	OpsinBias          [3]float32
	Up2Weights         []float32
	Up4Weights         []float32
	Up8Weights         []float32
}

var sizeHeaderRatios = [8][2]uint32{
	{1, 1}, {1, 1}, {12, 10}, {4, 3}, {3, 2}, {16, 9}, {5, 4}, {2, 1},
}

func readDimension32(br *bitio.Reader) (uint32, error) {
	v, err := br.ReadU32(
		bitio.U32Config{Offset: 1, Bits: 9},
		bitio.U32Config{Offset: 1, Bits: 13},
		bitio.U32Config{Offset: 1, Bits: 18},
		bitio.U32Config{Offset: 1, Bits: 30},
	)
	if err != nil {
		return 0, xerr.Wrap(xerr.UnexpectedEof, err, "dimension")
	}
	return v, nil
}

// readSizeHeader reads the canvas size, applying the 3-bit ratio
// selector (spec.md §3's "up to 4-bit ratio selector": selector 0 means
// "explicit height follows"; selectors 1-7 derive height from width).
func readSizeHeader(br *bitio.Reader) (w, h uint32, err error) {
	w, err = readDimension32(br)
	if err != nil {
		return 0, 0, err
	}
	ratio, err := br.Read(3)
	if err != nil {
		return 0, 0, xerr.Wrap(xerr.UnexpectedEof, err, "ratio selector")
	}
	if ratio == 0 {
		h, err = readDimension32(br)
		if err != nil {
			return 0, 0, err
		}
	} else {
		num, den := sizeHeaderRatios[ratio][0], sizeHeaderRatios[ratio][1]
		h = uint32((uint64(w)*uint64(den) + uint64(num) - 1) / uint64(num))
	}
	if w == 0 || h == 0 {
		return 0, 0, xerr.New(xerr.ValidationFailed, "canvas dimension is zero")
	}
	return w, h, nil
}

func readBitDepth(br *bitio.Reader) (BitDepth, error) {
	floatSample, err := br.ReadBool()
	if err != nil {
		return BitDepth{}, xerr.Wrap(xerr.UnexpectedEof, err, "bit depth kind")
	}
	bits, err := br.ReadU32(
		bitio.U32Config{Offset: 8, Bits: 0},
		bitio.U32Config{Offset: 10, Bits: 0},
		bitio.U32Config{Offset: 12, Bits: 0},
		bitio.U32Config{Offset: 1, Bits: 6},
	)
	if err != nil {
		return BitDepth{}, xerr.Wrap(xerr.UnexpectedEof, err, "bits per sample")
	}
	bd := BitDepth{FloatSample: floatSample, BitsPerSample: bits}
	if floatSample {
		exp, err := br.Read(4)
		if err != nil {
			return BitDepth{}, xerr.Wrap(xerr.UnexpectedEof, err, "exponent bits")
		}
		bd.ExpBits = exp + 1
	}
	return bd, nil
}

func readColorEncoding(br *bitio.Reader) (ColorEncoding, error) {
	var ce ColorEncoding
	wantICC, err := br.ReadBool()
	if err != nil {
		return ce, xerr.Wrap(xerr.UnexpectedEof, err, "want_icc")
	}
	ce.WantICC = wantICC
	if wantICC {
		return ce, nil
	}
	space, err := br.Read(2)
	if err != nil {
		return ce, xerr.Wrap(xerr.UnexpectedEof, err, "color space")
	}
	ce.Space = ColorSpace(space)

	wp, err := br.Read(2)
	if err != nil {
		return ce, xerr.Wrap(xerr.UnexpectedEof, err, "white point")
	}
	ce.WhitePt = WhitePoint(wp)
	if ce.WhitePt == WhiteCustom {
		x, err := readDimension32(br)
		if err != nil {
			return ce, err
		}
		y, err := readDimension32(br)
		if err != nil {
			return ce, err
		}
		ce.CustomWP = [2]int32{int32(x), int32(y)}
	}

	if ce.Space != ColorGray {
		prim, err := br.Read(2)
		if err != nil {
			return ce, xerr.Wrap(xerr.UnexpectedEof, err, "primaries")
		}
		ce.Prim = Primaries(prim)
		if ce.Prim == PrimariesCustom {
			for i := 0; i < 3; i++ {
				x, err := readDimension32(br)
				if err != nil {
					return ce, err
				}
				y, err := readDimension32(br)
				if err != nil {
					return ce, err
				}
				ce.CustomPrim[i] = [2]int32{int32(x), int32(y)}
			}
		}
	}

	tf, err := br.Read(3)
	if err != nil {
		return ce, xerr.Wrap(xerr.UnexpectedEof, err, "transfer function")
	}
	ce.TF = TransferFunction(tf)
	if ce.TF == TFGamma {
		g, err := br.Read(24)
		if err != nil {
			return ce, xerr.Wrap(xerr.UnexpectedEof, err, "gamma")
		}
		ce.Gamma = g
	}

	intent, err := br.Read(2)
	if err != nil {
		return ce, xerr.Wrap(xerr.UnexpectedEof, err, "rendering intent")
	}
	ce.Intent = RenderingIntent(intent)
	return ce, nil
}

func readExtraChannelInfo(br *bitio.Reader) (ExtraChannelInfo, error) {
	var ec ExtraChannelInfo
	allDefault, err := br.ReadBool()
	if err != nil {
		return ec, xerr.Wrap(xerr.UnexpectedEof, err, "extra channel all_default")
	}
	if allDefault {
		ec.Type = ExtraAlpha
		ec.BitDepth = BitDepth{BitsPerSample: 8}
		return ec, nil
	}
	typ, err := br.Read(4)
	if err != nil {
		return ec, xerr.Wrap(xerr.UnexpectedEof, err, "extra channel type")
	}
	if typ >= uint32(ExtraOptional)+1 {
		return ec, xerr.Newf(xerr.InvalidEnum, "extra channel type %d out of range", typ)
	}
	ec.Type = ExtraChannelType(typ)

	bd, err := readBitDepth(br)
	if err != nil {
		return ec, err
	}
	ec.BitDepth = bd

	shift, err := br.ReadU32(
		bitio.U32Config{Offset: 0, Bits: 0},
		bitio.U32Config{Offset: 3, Bits: 0},
		bitio.U32Config{Offset: 4, Bits: 0},
		bitio.U32Config{Offset: 1, Bits: 3},
	)
	if err != nil {
		return ec, xerr.Wrap(xerr.UnexpectedEof, err, "dim shift")
	}
	ec.DimShift = shift

	if ec.Type == ExtraAlpha {
		assoc, err := br.ReadBool()
		if err != nil {
			return ec, xerr.Wrap(xerr.UnexpectedEof, err, "alpha associated")
		}
		ec.AlphaAssoc = assoc
	}
	if ec.Type == ExtraSpotColor {
		for i := 0; i < 4; i++ {
			v, err := br.ReadF16()
			if err != nil {
				return ec, xerr.Wrap(xerr.UnexpectedEof, err, "spot color component")
			}
			ec.SpotColor[i] = v
		}
	}
	if ec.Type == ExtraCFA {
		v, err := br.ReadU32(
			bitio.U32Config{Offset: 1, Bits: 0},
			bitio.U32Config{Offset: 0, Bits: 2},
			bitio.U32Config{Offset: 3, Bits: 4},
			bitio.U32Config{Offset: 19, Bits: 8},
		)
		if err != nil {
			return ec, xerr.Wrap(xerr.UnexpectedEof, err, "cfa channel")
		}
		ec.CfaChannel = v
	}
	return ec, nil
}

// Parse reads the image header from the start of the codestream,
// immediately after the signature.
func Parse(br *bitio.Reader) (*Header, error) {
	h := &Header{}

	allDefault, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "header all_default")
	}

	w, height, err := readSizeHeader(br)
	if err != nil {
		return nil, err
	}
	h.Width, h.Height = w, height

	if allDefault {
		h.Orientation = 1
		h.ModularBitDepth = BitDepth{BitsPerSample: 8}
		h.ColorEncoding = ColorEncoding{Space: ColorRGB, TF: TFSRGB}
		h.ToneMapping = ToneMapping{IntensityTarget: 255}
		return h, nil
	}

	extraFields, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "extra_fields")
	}
	h.Orientation = 1
	if extraFields {
		orient, err := br.Read(3)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "orientation")
		}
		h.Orientation = uint8(orient) + 1

		havePreview, err := br.ReadBool()
		if err != nil {
			return nil, err
		}
		if havePreview {
			h.HasPreview = true
			pw, ph, err := readSizeHeader(br)
			if err != nil {
				return nil, err
			}
			h.PreviewW, h.PreviewH = pw, ph
		}

		haveAnimation, err := br.ReadBool()
		if err != nil {
			return nil, err
		}
		if haveAnimation {
			h.HasAnimation = true
			num, err := br.ReadU32(
				bitio.U32Config{Offset: 100, Bits: 0},
				bitio.U32Config{Offset: 1, Bits: 10},
				bitio.U32Config{Offset: 1, Bits: 16},
				bitio.U32Config{Offset: 1, Bits: 32},
			)
			if err != nil {
				return nil, err
			}
			den, err := br.ReadU32(
				bitio.U32Config{Offset: 1, Bits: 0},
				bitio.U32Config{Offset: 1001, Bits: 0},
				bitio.U32Config{Offset: 1, Bits: 8},
				bitio.U32Config{Offset: 1, Bits: 10},
			)
			if err != nil {
				return nil, err
			}
			loops, err := br.ReadU32(
				bitio.U32Config{Offset: 0, Bits: 0},
				bitio.U32Config{Offset: 0, Bits: 3},
				bitio.U32Config{Offset: 0, Bits: 16},
				bitio.U32Config{Offset: 0, Bits: 32},
			)
			if err != nil {
				return nil, err
			}
			tc, err := br.ReadBool()
			if err != nil {
				return nil, err
			}
			h.Animation = Animation{TpsNumerator: num, TpsDenominator: den, NumLoops: loops, HaveTimecodes: tc}
		}
	}

	bd, err := readBitDepth(br)
	if err != nil {
		return nil, err
	}
	h.ModularBitDepth = bd

	modularRepresentation, err := br.ReadBool()
	if err != nil {
		return nil, err
	}
	_ = modularRepresentation // 16-bit-buffer vs fully represented, not gated further here

	xyb, err := br.ReadBool()
	if err != nil {
		return nil, err
	}
	h.XYBEncoded = xyb

	ce, err := readColorEncoding(br)
	if err != nil {
		return nil, err
	}
	h.ColorEncoding = ce

	haveToneMapping, err := br.ReadBool()
	if err != nil {
		return nil, err
	}
	if haveToneMapping {
		target, err := br.ReadF16()
		if err != nil {
			return nil, err
		}
		minNits, err := br.ReadF16()
		if err != nil {
			return nil, err
		}
		relative, err := br.ReadBool()
		if err != nil {
			return nil, err
		}
		linearBelow, err := br.ReadF16()
		if err != nil {
			return nil, err
		}
		h.ToneMapping = ToneMapping{
			IntensityTarget:      target,
			MinNits:              minNits,
			RelativeToMaxDisplay: relative,
			LinearBelow:          linearBelow,
		}
	} else {
		h.ToneMapping = ToneMapping{IntensityTarget: 255}
	}

	numExtra, err := br.ReadU32(
		bitio.U32Config{Offset: 0, Bits: 0},
		bitio.U32Config{Offset: 1, Bits: 4},
		bitio.U32Config{Offset: 17, Bits: 8},
		bitio.U32Config{Offset: 273, Bits: 12},
	)
	if err != nil {
		return nil, err
	}
	h.ExtraChannels = make([]ExtraChannelInfo, numExtra)
	for i := range h.ExtraChannels {
		ec, err := readExtraChannelInfo(br)
		if err != nil {
			return nil, err
		}
		h.ExtraChannels[i] = ec
	}

	if h.XYBEncoded {
		h.OpsinInverseMatrix, h.OpsinBias = defaultOpsinInverseMatrix()
	}

	if err := br.ZeroPadToByte(); err != nil {
		return nil, err
	}
	return h, nil
}

// defaultOpsinInverseMatrix returns the standard XYB-to-linear-sRGB
// inverse opsin matrix and absorbance bias, matching jxl-color's xyb.rs
// constants.
func defaultOpsinInverseMatrix() ([3][3]float32, [3]float32) {
	return [3][3]float32{
			{11.031566901960783, -9.866943921568629, -0.16462299647058826},
			{-3.254147380392157, 4.418770392156863, -0.16462299647058826},
			{-3.6588512862745097, 2.7129230470588235, 1.9459282392156863},
		}, [3]float32{
			-0.0037930732552754493,
			-0.0037930732552754493,
			-0.0037930732552754493,
		}
}

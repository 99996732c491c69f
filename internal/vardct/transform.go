// Package vardct implements the VarDCT subsystem: the 26 block
// transform types, per-block dequantization, the LF (low-frequency)
// coefficient path, HF (high-frequency) coefficient decoding, chroma-
// from-luma, and adaptive LF smoothing. Grounded on the teacher codec's
// internal/tcd (tile-component decode) and internal/dwt packages for the
// overall "read tile metadata, then read and dequantize coefficients"
// shape, generalized from JPEG2000's single fixed-size DWT/DCT path to
// JPEG XL's per-block variable transform selection.
package vardct

import "github.com/jxlcore/jxl/internal/xerr"

// TransformType enumerates the 26 block shapes a VarDCT block can use,
// ported verbatim (including numeric order, which downstream tables
// index by) from the reference decoder's dct_select.rs.
type TransformType uint8

const (
	Dct8 TransformType = iota
	Hornuss
	Dct2
	Dct4
	Dct16
	Dct32
	Dct16x8
	Dct8x16
	Dct32x8
	Dct8x32
	Dct32x16
	Dct16x32
	Dct4x8
	Dct8x4
	Afv0
	Afv1
	Afv2
	Afv3
	Dct64
	Dct64x32
	Dct32x64
	Dct128
	Dct128x64
	Dct64x128
	Dct256
	Dct256x128
	Dct128x256

	numTransformTypes
)

// ParseTransformType validates a raw block-select byte, per dct_select.rs's
// TryFrom<u8>.
func ParseTransformType(v uint8) (TransformType, error) {
	if TransformType(v) >= numTransformTypes {
		return 0, xerr.Newf(xerr.InvalidEnum, "transform type %d out of range", v)
	}
	return TransformType(v), nil
}

// DctSelectSize returns the transform's footprint in 8x8 units.
func (t TransformType) DctSelectSize() (w, h int) {
	switch t {
	case Dct8, Hornuss, Dct2, Dct4, Dct4x8, Dct8x4, Afv0, Afv1, Afv2, Afv3:
		return 1, 1
	case Dct16:
		return 2, 2
	case Dct32:
		return 4, 4
	case Dct16x8:
		return 1, 2
	case Dct8x16:
		return 2, 1
	case Dct32x8:
		return 1, 4
	case Dct8x32:
		return 4, 1
	case Dct32x16:
		return 2, 4
	case Dct16x32:
		return 4, 2
	case Dct64:
		return 8, 8
	case Dct64x32:
		return 4, 8
	case Dct32x64:
		return 8, 4
	case Dct128:
		return 16, 16
	case Dct128x64:
		return 8, 16
	case Dct64x128:
		return 16, 8
	case Dct256:
		return 32, 32
	case Dct256x128:
		return 16, 32
	case Dct128x256:
		return 32, 16
	default:
		return 1, 1
	}
}

// DequantMatrixParamIndex selects which of the 17 dequant-matrix slots
// this transform type draws from.
func (t TransformType) DequantMatrixParamIndex() int {
	switch t {
	case Dct8:
		return 0
	case Hornuss:
		return 1
	case Dct2:
		return 2
	case Dct4:
		return 3
	case Dct16:
		return 4
	case Dct32:
		return 5
	case Dct16x8, Dct8x16:
		return 6
	case Dct32x8, Dct8x32:
		return 7
	case Dct32x16, Dct16x32:
		return 8
	case Dct4x8, Dct8x4:
		return 9
	case Afv0, Afv1, Afv2, Afv3:
		return 10
	case Dct64:
		return 11
	case Dct64x32, Dct32x64:
		return 12
	case Dct128:
		return 13
	case Dct128x64, Dct64x128:
		return 14
	case Dct256:
		return 15
	case Dct256x128, Dct128x256:
		return 16
	default:
		return 0
	}
}

// DequantMatrixSize returns the dequant matrix's own pixel extent, which
// for rectangular transforms differs from DctSelectSize()*8.
func (t TransformType) DequantMatrixSize() (w, h int) {
	switch t {
	case Dct8, Hornuss, Dct2, Dct4, Dct4x8, Dct8x4, Afv0, Afv1, Afv2, Afv3:
		return 8, 8
	case Dct16:
		return 16, 16
	case Dct32:
		return 32, 32
	case Dct16x8, Dct8x16:
		return 16, 8
	case Dct32x8, Dct8x32:
		return 32, 8
	case Dct32x16, Dct16x32:
		return 32, 16
	case Dct64:
		return 64, 64
	case Dct64x32, Dct32x64:
		return 64, 32
	case Dct128:
		return 128, 128
	case Dct128x64, Dct64x128:
		return 128, 64
	case Dct256:
		return 256, 256
	case Dct256x128, Dct128x256:
		return 256, 128
	default:
		return 8, 8
	}
}

// OrderID selects which of the 13 coefficient-scan-order groups this
// transform type's HfPass permutation belongs to.
func (t TransformType) OrderID() int {
	switch t {
	case Dct8:
		return 0
	case Hornuss, Dct2, Dct4, Dct4x8, Dct8x4, Afv0, Afv1, Afv2, Afv3:
		return 1
	case Dct16:
		return 2
	case Dct32:
		return 3
	case Dct16x8, Dct8x16:
		return 4
	case Dct32x8, Dct8x32:
		return 5
	case Dct32x16, Dct16x32:
		return 6
	case Dct64:
		return 7
	case Dct64x32, Dct32x64:
		return 8
	case Dct128:
		return 9
	case Dct128x64, Dct64x128:
		return 10
	case Dct256:
		return 11
	case Dct256x128, Dct128x256:
		return 12
	default:
		return 0
	}
}

// NeedTranspose reports whether coefficients should be transposed before
// the row/column inverse-DCT pass, per dct_select.rs's need_transpose.
func (t TransformType) NeedTranspose() bool {
	switch t {
	case Hornuss, Dct2, Dct4, Dct4x8, Dct8x4, Afv0, Afv1, Afv2, Afv3:
		return false
	default:
		w, h := t.DctSelectSize()
		return h >= w
	}
}

package modular

import "github.com/jxlcore/jxl/internal/xerr"

// RCTCode identifies one of the 42 reversible-color-transform variants:
// code = permutation*7 + ty, where ty in [0,7) selects the linear
// formula and permutation in [0,6) selects how the formula's three
// outputs are assigned back to the three channel slots. Ported from the
// reference decoder's rct.rs inverse_row_base/inverse_permute.
type RCTCode int

// permOutputs[p] gives, for permutation p, which of (d, e, f) - the
// formula's three outputs - lands in (channel0, channel1, channel2).
// 0=d, 1=e, 2=f.
var permOutputs = [6][3]int{
	{0, 1, 2},
	{2, 0, 1},
	{1, 2, 0},
	{0, 2, 1},
	{1, 0, 2},
	{2, 1, 0},
}

// ApplyInverseRCT reverses one of the 42 RCT codes over three
// consecutive channels starting at base, per spec.md §4.4: "one of 42
// permutation-and-type codes over three consecutive channels; each has
// an inverse linear-in-i32 formula computed with wrapping arithmetic."
func ApplyInverseRCT(img *Image, base int, code RCTCode) error {
	if code < 0 || code >= 42 {
		return xerr.Newf(xerr.InvalidPaletteParams, "RCT code %d out of range", code)
	}
	if base+3 > len(img.Channels) {
		return xerr.New(xerr.InvalidPaletteParams, "RCT base+3 exceeds channel count")
	}
	perm := int(code) / 7
	ty := uint32(code) % 7

	c0 := img.Channels[base]
	c1 := img.Channels[base+1]
	c2 := img.Channels[base+2]
	n := len(c0.Data)
	if len(c1.Data) != n || len(c2.Data) != n {
		return xerr.New(xerr.InvalidPaletteParams, "RCT channels have mismatched extents")
	}
	outMap := permOutputs[perm]

	for i := 0; i < n; i++ {
		a := c0.Data[i]
		b := c1.Data[i]
		c := c2.Data[i]

		var d, e, f int32
		if ty == 6 {
			tmp := a - (c >> 1)
			e = c + tmp
			f = tmp - (b >> 1)
			d = f + b
		} else {
			d = a
			if ty&1 != 0 {
				f = c + a
			} else {
				f = c
			}
			switch ty >> 1 {
			case 1:
				e = b + a
			case 2:
				e = b + ((a + f) >> 1)
			default:
				e = b
			}
		}

		outs := [3]int32{d, e, f}
		c0.Data[i] = outs[outMap[0]]
		c1.Data[i] = outs[outMap[1]]
		c2.Data[i] = outs[outMap[2]]
	}
	return nil
}

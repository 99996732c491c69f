// Package modular implements the Modular image subsystem: MA-tree-driven
// per-sample prediction over 32-bit-integer channel grids, with
// Squeeze/Palette/RCT transforms applied in reverse after decoding.
// Grounded on the teacher codec's internal/dwt lifting routines (for
// Squeeze) and internal/mct reversible color transforms (for RCT), both
// generalized from JPEG 2000's fixed transform set to JPEG XL's
// permutation-coded, per-frame transform list.
package modular

// Channel is one modular image plane: a 32-bit-integer grid with a
// shift relative to the frame's full-resolution color-sample grid.
type Channel struct {
	Width, Height   int
	HShift, VShift  int
	Data            []int32 // row-major, length Width*Height
}

// NewChannel allocates a zeroed channel grid.
func NewChannel(w, h, hshift, vshift int) *Channel {
	return &Channel{Width: w, Height: h, HShift: hshift, VShift: vshift, Data: make([]int32, w*h)}
}

func (c *Channel) at(x, y int) int32 {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.Data[y*c.Width+x]
}

// At is the exported form of at, for callers outside the package (such
// as VarDCT's HfMetadata grid construction) that need to read decoded
// modular sample values.
func (c *Channel) At(x, y int) int32 { return c.at(x, y) }

func (c *Channel) set(x, y int, v int32) {
	c.Data[y*c.Width+x] = v
}

// Image is the full set of decoded channels for one modular group, in
// the order produced by the bitstream: color channels first (1 for
// gray, 3 for RGB/YCbCr/XYB), then extra channels, then any
// Squeeze-emitted residual channels appended at the end of the list
// until inverse-Squeeze folds them back down.
type Image struct {
	Channels []*Channel
}

package vardct

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// HfPass carries the per-pass HF coefficient entropy decoder and, for
// each of the 13 order groups and 3 channels, an optional decoded
// permutation of that group's natural coefficient order. Grounded on
// hf_pass.rs's Bundle impl.
type HfPass struct {
	Permutation [13][3][]int
	HfDist      *coding.Decoder
}

// usedOrdersConfig is the U32(0x5F, 0x13, 0x00, u(13)) code from
// hf_pass.rs: two common literal bitmasks, an all-natural-order literal,
// and a raw 13-bit fallback.
var usedOrdersConfig = [4]bitio.U32Config{
	{Offset: 0x5F, Bits: 0},
	{Offset: 0x13, Bits: 0},
	{Offset: 0x00, Bits: 0},
	{Offset: 0, Bits: 13},
}

// ParseHfPass reads one HfPass bundle, per hf_pass.rs: a used-orders
// bitmask selects, per order group (LSB first), whether a permutation
// follows for each of its 3 channels; then a dedicated entropy decoder
// is initialized for 495*numHfPresets*numBlockClusters contexts.
func ParseHfPass(br *bitio.Reader, hfCtx *HfBlockContext, numHfPresets uint32) (*HfPass, error) {
	usedOrders, err := br.ReadU32(usedOrdersConfig[0], usedOrdersConfig[1], usedOrdersConfig[2], usedOrdersConfig[3])
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "used_orders")
	}

	hp := &HfPass{}

	if usedOrders != 0 {
		dec, err := coding.NewDecoder(br, 8, 8)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidTocPermutation, err, "hf order permutation decoder")
		}
		for i := 0; i < 13; i++ {
			if usedOrders&(1<<uint(i)) != 0 {
				bw, bh := blockSizes[i][0], blockSizes[i][1]
				size := bw * bh
				skip := size / 64
				for c := 0; c < 3; c++ {
					perm, err := coding.DecodePermutation(dec, 0, size, skip)
					if err != nil {
						return nil, xerr.Wrap(xerr.InvalidPermutation, err, "hf coefficient order")
					}
					hp.Permutation[i][c] = perm
				}
			}
		}
	}

	numContexts := int(495 * numHfPresets * hfCtx.NumBlockClusters)
	hfDist, err := coding.NewDecoder(br, numContexts, 8)
	if err != nil {
		return nil, xerr.Wrap(xerr.HfPresetOutOfRange, err, "hf coefficient decoder")
	}
	hp.HfDist = hfDist

	return hp, nil
}

// Order returns the coefficient scan order for (orderID, channel),
// applying the decoded permutation over the natural zig-zag order when
// one was read for that group.
func (hp *HfPass) Order(orderID, channel int) []Coeff {
	natural := naturalOrder(orderID)
	return ApplyPermutation(natural, hp.Permutation[orderID][channel])
}

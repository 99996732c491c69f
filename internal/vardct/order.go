package vardct

// blockSizes gives, for each of the 13 order groups, the transform's
// (width, height) in pixels, ported from hf_pass.rs's BLOCK_SIZES table
// (order is indexed by TransformType.OrderID()).
var blockSizes = [13][2]int{
	{8, 8}, {8, 8}, {16, 16}, {32, 32}, {16, 8}, {32, 8}, {32, 16},
	{64, 64}, {64, 32}, {128, 128}, {128, 64}, {256, 256}, {256, 128},
}

var naturalOrderCache [13][]Coeff

// Coeff is a coefficient position within a block, in coefficient
// (pixel) units: (x, y).
type Coeff struct{ X, Y uint8 }

// naturalOrder lazily computes and caches the zig-zag-like scan order
// for order group idx, grounded verbatim on hf_pass.rs's
// fill_natural_order: an initial sweep covering the lf_width x
// lf_height low-frequency corner in row-major order, then successive
// anti-diagonals (by Manhattan distance) covering the remaining
// coefficients, skipping positions already covered by the low-frequency
// corner or that don't land on a whole row for non-square transforms.
func naturalOrder(idx int) []Coeff {
	if cached := naturalOrderCache[idx]; cached != nil {
		return cached
	}
	bw, bh := blockSizes[idx][0], blockSizes[idx][1]
	out := make([]Coeff, 0, (bw/8)*(bh/8))
	fillNaturalOrder(bw, bh, &out)
	naturalOrderCache[idx] = out
	return out
}

func fillNaturalOrder(bw, bh int, out *[]Coeff) {
	yScale := bw / bh
	lbw := bw / 8
	lbh := bh / 8

	for idx := 0; idx < lbw*lbh; idx++ {
		x := idx % lbw
		y := idx / lbw
		*out = append(*out, Coeff{uint8(x), uint8(y)})
	}

	for dist := 1; dist < 2*bw; dist++ {
		margin := dist - bw
		if margin < 0 {
			margin = 0
		}
		for order := margin; order < dist-margin; order++ {
			var x, y int
			if dist%2 == 1 {
				x, y = order, dist-1-order
			} else {
				x, y = dist-1-order, order
			}
			if x < lbw && y < lbw {
				continue
			}
			if y%yScale != 0 {
				continue
			}
			*out = append(*out, Coeff{uint8(x), uint8(y / yScale)})
		}
	}
}

// ApplyPermutation reorders a natural-order scan by a decoded
// coefficient permutation (empty means identity), per hf_pass.rs's
// OrderIter: permutation[i] gives the natural-order index to visit at
// scan position i.
func ApplyPermutation(natural []Coeff, permutation []int) []Coeff {
	if len(permutation) == 0 {
		return natural
	}
	out := make([]Coeff, len(permutation))
	for i, idx := range permutation {
		out[i] = natural[idx]
	}
	return out
}

package coding

import "github.com/jxlcore/jxl/internal/xerr"

// DecodePermutation reads a Lehmer-coded permutation of [0, size), shared
// by TOC ordering and the generic permutation use sites spec.md §9 asks
// to resolve identically, grounded verbatim on the reference decoder's
// read_permutation: a leading "end" varint (context from size) gives how
// many Lehmer digits follow, starting at offset skip; digits beyond
// skip+end are implicitly zero. Each digit's context is add_log2_ceil of
// the *previous* digit's value, not of the shrinking remaining-count -
// this was the detail that made an earlier draft of this function
// non-conformant.
func DecodePermutation(d *Decoder, ctx int, size, skip int) ([]int, error) {
	if size == 0 {
		return nil, nil
	}
	end, err := readVarint(d, ctx+contextForIndex(uint32(size)))
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidPermutation, err, "lehmer length")
	}
	if int(end) > size-skip {
		return nil, xerr.Newf(xerr.InvalidPermutation, "lehmer length %d exceeds size-skip %d", end, size-skip)
	}

	lehmer := make([]uint32, size)
	prevVal := uint32(0)
	for i := skip; i < skip+int(end); i++ {
		v, err := readVarint(d, ctx+contextForIndex(prevVal))
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidPermutation, err, "lehmer digit")
		}
		lehmer[i] = v
		prevVal = v
	}

	remaining := make([]int, size)
	for i := range remaining {
		remaining[i] = i
	}
	out := make([]int, 0, size)
	for _, idx := range lehmer {
		if int(idx) >= len(remaining) {
			return nil, xerr.Newf(xerr.InvalidPermutation, "lehmer index %d out of range %d", idx, len(remaining))
		}
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out, nil
}

// readVarint reads a hybrid-integer token at the given context and
// unpacks it as an unsigned varint (Lehmer digits and TOC lengths are
// never negative, so no sign unpacking is needed here).
func readVarint(d *Decoder, ctx int) (uint32, error) {
	return d.ReadSymbol(ctx)
}

// contextForIndex implements add_log2_ceil: the number of bits needed to
// represent values below bound, clamped to 7, used both here and by TOC
// parsing to select which of a small bank of contexts a Lehmer digit is
// read from.
func contextForIndex(bound uint32) int {
	c := int(log2Ceil(bound))
	if c > 7 {
		c = 7
	}
	return c
}

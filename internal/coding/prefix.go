package coding

import "github.com/jxlcore/jxl/internal/xerr"

// prefixCode is a canonical Huffman decode table built from a
// length-limited code-length vector: symbols are assigned codes in order
// of increasing length, then increasing symbol index, exactly as
// spec.md §4.2 describes for the prefix-code distribution mode.
type prefixCode struct {
	// table[length][code] -> symbol+1 (0 means "no such code").
	table    [][]uint16
	maxLen   uint
}

const maxPrefixCodeLen = 15

func buildPrefixCode(lengths []uint8) (*prefixCode, error) {
	var maxLen uint8
	var numCodes int
	for _, l := range lengths {
		if l > maxPrefixCodeLen {
			return nil, xerr.Newf(xerr.InvalidPrefixHistogram, "code length %d exceeds %d", l, maxPrefixCodeLen)
		}
		if l > 0 {
			numCodes++
		}
		if l > maxLen {
			maxLen = l
		}
	}
	if numCodes == 0 {
		return nil, xerr.New(xerr.InvalidPrefixHistogram, "no symbols with non-zero length")
	}

	// Count codes per length, then derive the first code at each length
	// (canonical Huffman numbering).
	blCount := make([]int, maxLen+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}
	code := 0
	nextCode := make([]int, maxLen+1)
	for l := uint8(1); l <= maxLen; l++ {
		code = (code + blCount[l-1]) << 1
		nextCode[l] = code
	}

	table := make([][]uint16, maxLen+1)
	for l := uint8(1); l <= maxLen; l++ {
		table[l] = make([]uint16, 1<<l)
	}
	for symbol, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		if int(c) >= len(table[l]) {
			return nil, xerr.New(xerr.InvalidPrefixHistogram, "canonical code overflowed its length class")
		}
		table[l][reverseBits(uint32(c), uint(l))] = uint16(symbol) + 1
	}

	return &prefixCode{table: table, maxLen: uint(maxLen)}, nil
}

// reverseBits reverses the low n bits of v; prefix codes are consumed
// bit-by-bit LSB-first off the bitstream, while canonical numbering
// assigns codes MSB-first, so incoming bits are matched in reverse.
func reverseBits(v uint32, n uint) uint32 {
	var out uint32
	for i := uint(0); i < n; i++ {
		out = (out << 1) | (v & 1)
		v >>= 1
	}
	return out
}

type bitSource interface {
	Read(n uint) (uint32, error)
}

// decode walks bits one at a time until a complete code matches.
func (p *prefixCode) decode(br bitSource) (uint16, error) {
	var code uint32
	for l := uint(1); l <= p.maxLen; l++ {
		b, err := br.Read(1)
		if err != nil {
			return 0, xerr.Wrap(xerr.PrefixSymbolTooLarge, err, "prefix code bit read")
		}
		code |= b << (l - 1)
		if int(code) < len(p.table[l]) {
			if sym := p.table[l][code]; sym != 0 {
				return sym - 1, nil
			}
		}
	}
	return 0, xerr.New(xerr.PrefixSymbolTooLarge, "no prefix code matched within max length")
}

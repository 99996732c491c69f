package coding

import "github.com/jxlcore/jxl/internal/xerr"

// distribution is one cluster's entropy model: either an ANS alias table
// or a canonical prefix code, chosen by the stream itself (spec.md §4.2,
// "each cluster carries its own distribution, either an ANS histogram or
// a canonical prefix code").
type distribution struct {
	alias  *aliasTable
	prefix *prefixCode
}

func (d *distribution) readRawSymbol(state *uint32, br rawBitReader) (uint16, error) {
	if d.prefix != nil {
		return d.prefix.decode(br)
	}
	return d.alias.readSymbol(state, func() (uint32, error) { return br.Read(16) })
}

// readU8Like reads the small fixed-width integer spec.md's simple ANS
// histogram encoding uses for a literal symbol value: a 1-bit flag (0
// means the value is 0), then a 3-bit count n; n == 0 means 1, otherwise
// n raw bits v follow and the value is (1<<n)+v, matching the reference
// decoder's read_u8 helper.
func readU8Like(br rawBitReader) (uint32, error) {
	zero, err := br.Read(1)
	if err != nil {
		return 0, err
	}
	if zero == 0 {
		return 0, nil
	}
	n, err := br.Read(3)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 1, nil
	}
	v, err := br.Read(uint(n))
	if err != nil {
		return 0, err
	}
	return (1 << n) + v, nil
}

// parseDistribution reads one cluster's entropy model. The one- and
// two-symbol "simple code" shapes follow the reference decoder's
// Histogram::parse directly; the reference implementation's general
// (N-symbol) histogram path was unfinished in the source this was
// studied from, so the explicit-probability path below is this
// decoder's own reconstruction: it reads an alphabet size and then each
// symbol's exact 12-bit bucket count, which is sufficient to rebuild a
// valid alias table and is documented as such rather than claimed to
// be bit-exact with any other implementation.
func parseDistribution(br rawBitReader, logAlphabetSize uint) (*distribution, error) {
	tableSize := 1 << logAlphabetSize

	simple, err := br.Read(1)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "simple_code flag")
	}
	if simple != 0 {
		two, err := br.Read(1)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "two-symbol flag")
		}
		dist := make([]uint16, tableSize)
		if two != 0 {
			v0, err := readU8Like(br)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "symbol 0")
			}
			v1, err := readU8Like(br)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "symbol 1")
			}
			if v0 == v1 || int(v0) >= tableSize || int(v1) >= tableSize {
				return nil, xerr.Newf(xerr.InvalidAnsHistogram, "invalid two-symbol pair (%d, %d)", v0, v1)
			}
			prob, err := br.Read(12)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "two-symbol probability")
			}
			if prob == 0 {
				prob = 1
			}
			dist[v0] = uint16(prob)
			dist[v1] = uint16(ansTableSize - prob)
		} else {
			val, err := readU8Like(br)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "single symbol")
			}
			if int(val) >= tableSize {
				return nil, xerr.Newf(xerr.InvalidAnsHistogram, "single symbol %d out of range", val)
			}
			dist[val] = ansTableSize
		}
		table, err := buildAliasTable(dist, logAlphabetSize)
		if err != nil {
			return nil, err
		}
		return &distribution{alias: table}, nil
	}

	usePrefix, err := br.Read(1)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "prefix-code flag")
	}
	if usePrefix != 0 {
		alphabetSize, err := readU8Like(br)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidPrefixHistogram, err, "alphabet size")
		}
		n := int(alphabetSize) + 1
		lengths := make([]uint8, n)
		for i := range lengths {
			l, err := br.Read(4)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidPrefixHistogram, err, "code length")
			}
			lengths[i] = uint8(l)
		}
		code, err := buildPrefixCode(lengths)
		if err != nil {
			return nil, err
		}
		return &distribution{prefix: code}, nil
	}

	alphabetSize, err := readU8Like(br)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "alphabet size")
	}
	n := int(alphabetSize) + 1
	if n > tableSize {
		return nil, xerr.Newf(xerr.InvalidAnsHistogram, "alphabet size %d exceeds table size %d", n, tableSize)
	}
	dist := make([]uint16, tableSize)
	var sum uint32
	for i := 0; i < n; i++ {
		v, err := br.Read(12)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidAnsHistogram, err, "explicit bucket probability")
		}
		dist[i] = uint16(v)
		sum += v
	}
	if sum != ansTableSize {
		return nil, xerr.Newf(xerr.InvalidAnsHistogram, "explicit distribution sums to %d, want %d", sum, ansTableSize)
	}
	table, err := buildAliasTable(dist, logAlphabetSize)
	if err != nil {
		return nil, err
	}
	return &distribution{alias: table}, nil
}

package coding

import "github.com/jxlcore/jxl/internal/xerr"

// ansTableSize is the fixed-point precision (2^12) all ANS probabilities
// are expressed in.
const ansTableSize = 1 << 12

// aliasTable is the O(1) symbol-lookup structure spec.md §4.3 describes:
// bucket count = 2^log_alphabet_size, bucket size = 4096/bucket_count,
// each bucket holding one primary symbol (its own index) plus one
// fallback symbol and an offset into that fallback's own probability
// space. Built with the classic alias method, redistributing overfull
// buckets' excess mass into underfull buckets.
type aliasTable struct {
	dist          []uint16 // original per-symbol 12-bit probabilities
	symbols       []uint16 // per-bucket fallback symbol
	offsets       []uint16 // per-bucket fallback offset
	cutoffs       []uint16 // per-bucket primary/fallback threshold
	logBucketSize uint
}

// buildAliasTable constructs the alias table for a probability
// distribution whose values sum to exactly 4096 over at most
// 2^logAlphabetSize symbols.
func buildAliasTable(dist []uint16, logAlphabetSize uint) (*aliasTable, error) {
	tableSize := 1 << logAlphabetSize
	if len(dist) != tableSize {
		return nil, xerr.Newf(xerr.InvalidAnsHistogram, "distribution length %d != table size %d", len(dist), tableSize)
	}
	var sum uint32
	for _, d := range dist {
		sum += uint32(d)
	}
	if sum != ansTableSize {
		return nil, xerr.Newf(xerr.InvalidAnsHistogram, "distribution sums to %d, want %d", sum, ansTableSize)
	}

	bucketSize := uint16(ansTableSize >> logAlphabetSize)
	symbols := make([]uint16, tableSize)
	offsets := make([]uint16, tableSize)
	cutoffs := make([]uint16, tableSize)
	copy(cutoffs, dist)
	for i := range symbols {
		symbols[i] = uint16(i)
	}

	var overfull, underfull []int
	for i, c := range cutoffs {
		switch {
		case c > bucketSize:
			overfull = append(overfull, i)
		case c < bucketSize:
			underfull = append(underfull, i)
		}
	}

	for len(overfull) > 0 && len(underfull) > 0 {
		o := overfull[len(overfull)-1]
		overfull = overfull[:len(overfull)-1]
		u := underfull[len(underfull)-1]
		underfull = underfull[:len(underfull)-1]

		cutoffs[o] -= bucketSize - cutoffs[u]
		symbols[u] = uint16(o)
		// Positions [cutoffs[u], bucketSize) of bucket u continue the
		// fallback's offsets from its remaining primary mass cutoffs[o].
		offsets[u] = cutoffs[o] - cutoffs[u]

		switch {
		case cutoffs[o] > bucketSize:
			overfull = append(overfull, o)
		case cutoffs[o] < bucketSize:
			underfull = append(underfull, o)
		}
	}
	for _, i := range overfull {
		cutoffs[i] = bucketSize
	}
	for _, i := range underfull {
		cutoffs[i] = bucketSize
	}

	logBucketSize := 12 - logAlphabetSize
	return &aliasTable{
		dist:          dist,
		symbols:       symbols,
		offsets:       offsets,
		cutoffs:       cutoffs,
		logBucketSize: logBucketSize,
	}, nil
}

// mapAlias resolves a 12-bit state residue to (symbol, offset-within-symbol).
func (t *aliasTable) mapAlias(idx uint16) (symbol, offset uint16) {
	bucketMask := uint16(1)<<t.logBucketSize - 1
	i := idx >> t.logBucketSize
	pos := idx & bucketMask
	if pos >= t.cutoffs[i] {
		return t.symbols[i], t.offsets[i] + pos
	}
	return i, pos
}

// readSymbol resolves the next symbol from the shared 32-bit rANS state,
// advancing the state and refilling it from the bitstream as needed.
func (t *aliasTable) readSymbol(state *uint32, refill func() (uint32, error)) (uint16, error) {
	idx := uint16(*state & (ansTableSize - 1))
	symbol, offset := t.mapAlias(idx)
	*state = (*state>>12)*uint32(t.dist[symbol]) + uint32(offset)
	if *state < (1 << 16) {
		bits, err := refill()
		if err != nil {
			return 0, xerr.Wrap(xerr.InvalidAnsStream, err, "ANS state refill")
		}
		*state = (*state << 16) | bits
	}
	return symbol, nil
}

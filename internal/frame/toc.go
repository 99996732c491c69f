package frame

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// GroupKind tags what one TOC entry's bytes decode into, per spec.md §3's
// TOC entry list: a single "All" entry for the single-group single-pass
// case, else LfGlobal, one LfGroup per lf-group index, an optional
// HfGlobal (VarDCT only), then one GroupPass per (pass, group) pair in
// row-major order.
type GroupKind uint8

const (
	KindAll GroupKind = iota
	KindLfGlobal
	KindLfGroup
	KindHfGlobal
	KindGroupPass
)

// TocEntry is one decoded tile descriptor: what it contains and its
// byte range within the frame's codestream span.
type TocEntry struct {
	Kind     GroupKind
	LfGroup  uint32 // valid when Kind == KindLfGroup
	PassIdx  uint32 // valid when Kind == KindGroupPass
	GroupIdx uint32 // valid when Kind == KindGroupPass
	Offset   uint64
	Size     uint32
}

// Toc is the parsed, de-permuted table of contents for one frame.
type Toc struct {
	Entries   []TocEntry
	TotalSize uint64
}

// IsSingleEntry reports whether this frame has exactly one TOC entry
// (num_groups == 1 && num_passes == 1), in which case group byte ranges
// are never individually addressed.
func (t *Toc) IsSingleEntry() bool {
	return len(t.Entries) <= 1
}

// LfGlobalEntry returns the LfGlobal (or, for single-entry frames, All)
// tile descriptor, always at semantic position 0.
func (t *Toc) LfGlobalEntry() TocEntry {
	return t.Entries[0]
}

// LfGroupEntry returns the tile descriptor for lf-group idx.
func (t *Toc) LfGroupEntry(idx uint32) TocEntry {
	return t.Entries[1+idx]
}

// HfGlobalEntry returns the HfGlobal tile descriptor, only valid when
// the frame has one (VarDCT, multi-entry TOC).
func (t *Toc) HfGlobalEntry(numLfGroups uint32) TocEntry {
	return t.Entries[1+numLfGroups]
}

// GroupPassEntry returns the tile descriptor for (passIdx, groupIdx).
func (t *Toc) GroupPassEntry(numLfGroups uint32, hasHfGlobal bool, numGroups, passIdx, groupIdx uint32) TocEntry {
	base := 1 + numLfGroups
	if hasHfGlobal {
		base++
	}
	return t.Entries[base+passIdx*numGroups+groupIdx]
}

// ParseToc reads the table of contents for a frame whose header has
// already been parsed, grounded verbatim on the reference decoder's
// toc.rs Bundle impl: an optional permuted ordering (Lehmer-coded via
// the shared coding.DecodePermutation), then a flat list of U32-coded
// sizes, from which byte offsets are derived by running sum.
func ParseToc(br *bitio.Reader, h *Header) (*Toc, error) {
	numGroups := h.NumGroups()
	numPasses := h.Passes.NumPasses
	hasHfGlobal := h.Encoding == EncodingVarDCT
	numLfGroups := h.NumLfGroups()

	var entryCount uint32
	if numGroups == 1 && numPasses == 1 {
		entryCount = 1
	} else {
		entryCount = 1 + numLfGroups
		if hasHfGlobal {
			entryCount++
		}
		entryCount += numGroups * numPasses
	}

	permutated, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "toc permutated flag")
	}

	var permutation []int
	if permutated {
		dec, err := coding.NewDecoder(br, 8, 8)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidTocPermutation, err, "toc permutation decoder")
		}
		permutation, err = coding.DecodePermutation(dec, 0, int(entryCount), 0)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidTocPermutation, err, "toc permutation")
		}
	}

	if err := br.ZeroPadToByte(); err != nil {
		return nil, err
	}

	sizes := make([]uint32, entryCount)
	for i := range sizes {
		v, err := br.ReadU32(
			bitio.U32Config{Offset: 0, Bits: 10},
			bitio.U32Config{Offset: 1024, Bits: 14},
			bitio.U32Config{Offset: 17408, Bits: 22},
			bitio.U32Config{Offset: 4211712, Bits: 30},
		)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "toc entry size")
		}
		sizes[i] = v
	}

	offsets := make([]uint64, entryCount)
	var acc uint64
	for i, s := range sizes {
		offsets[i] = acc
		acc += uint64(s)
	}

	kinds := tocGroupKinds(entryCount, numLfGroups, hasHfGlobal, numPasses, numGroups)

	// The decoded Lehmer permutation maps each semantic (linear) TOC
	// position to the physical position its bytes actually occupy in
	// the stream, per toc.rs's zip(section_kinds, permutation) loop;
	// entries below stay indexed by semantic position throughout, so
	// downstream code addresses "LfGlobal", "LfGroup(i)", ... directly.
	entries := make([]TocEntry, entryCount)
	used := make([]bool, entryCount)
	for linear, k := range kinds {
		physical := linear
		if permutated {
			physical = permutation[linear]
			if physical < 0 || physical >= int(entryCount) || used[physical] {
				return nil, xerr.Newf(xerr.InvalidTocPermutation, "permutation index %d invalid or reused", physical)
			}
			used[physical] = true
		}
		entries[linear] = TocEntry{
			Kind:     k.kind,
			LfGroup:  k.lfGroup,
			PassIdx:  k.passIdx,
			GroupIdx: k.groupIdx,
			Offset:   offsets[physical],
			Size:     sizes[physical],
		}
	}

	if err := br.ZeroPadToByte(); err != nil {
		return nil, err
	}

	return &Toc{Entries: entries, TotalSize: acc}, nil
}

type groupKindInfo struct {
	kind     GroupKind
	lfGroup  uint32
	passIdx  uint32
	groupIdx uint32
}

func tocGroupKinds(entryCount, numLfGroups uint32, hasHfGlobal bool, numPasses, numGroups uint32) []groupKindInfo {
	if entryCount == 1 {
		return []groupKindInfo{{kind: KindAll}}
	}
	out := make([]groupKindInfo, 0, entryCount)
	out = append(out, groupKindInfo{kind: KindLfGlobal})
	for i := uint32(0); i < numLfGroups; i++ {
		out = append(out, groupKindInfo{kind: KindLfGroup, lfGroup: i})
	}
	if hasHfGlobal {
		out = append(out, groupKindInfo{kind: KindHfGlobal})
	}
	for p := uint32(0); p < numPasses; p++ {
		for g := uint32(0); g < numGroups; g++ {
			out = append(out, groupKindInfo{kind: KindGroupPass, passIdx: p, groupIdx: g})
		}
	}
	return out
}

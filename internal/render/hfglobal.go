package render

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/frame"
	"github.com/jxlcore/jxl/internal/vardct"
	"github.com/jxlcore/jxl/internal/xerr"
)

// HfGlobal bundles the one-per-frame VarDCT state that depends on the
// group grid's shape but not on any single group's pixels: the preset
// count every HfPass's coefficient context space is sized by, and one
// HfPass per coding pass. Grounded on hf_global.rs's Bundle impl.
type HfGlobal struct {
	NumHfPresets uint32
	Passes       []*vardct.HfPass
}

// ParseHfGlobal reads one frame's HfGlobal section. hf_global.rs reads
// num_hf_presets as ceil(log2(next_pow2(num_groups))) raw bits plus one;
// groupBits below computes that same bit width.
func ParseHfGlobal(data []byte, fh *frame.Header, g *LfGlobal) (*HfGlobal, error) {
	br := bitio.NewReader(data)

	bits := groupCountBits(fh.NumGroups())
	raw, err := br.Read(bits)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "num_hf_presets")
	}
	numHfPresets := raw + 1

	passes := make([]*vardct.HfPass, fh.Passes.NumPasses)
	for i := range passes {
		hp, err := vardct.ParseHfPass(br, g.BlockContext, numHfPresets)
		if err != nil {
			return nil, xerr.Wrap(xerr.IncompleteFrame, err, "hf pass")
		}
		passes[i] = hp
	}

	return &HfGlobal{NumHfPresets: numHfPresets, Passes: passes}, nil
}

// groupCountBits returns trailing_zeros(next_power_of_two(n)), the
// number of raw bits hf_global.rs's num_hf_presets read is sized with.
func groupCountBits(n uint32) uint {
	if n <= 1 {
		return 0
	}
	bits := uint(0)
	p := uint32(1)
	for p < n {
		p <<= 1
		bits++
	}
	return bits
}

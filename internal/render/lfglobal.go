package render

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/features"
	"github.com/jxlcore/jxl/internal/frame"
	"github.com/jxlcore/jxl/internal/modular"
	"github.com/jxlcore/jxl/internal/vardct"
)

// globalTreeContextBase is the fixed context-stream width DecodeTree's
// own (property, threshold, leaf) token reads use, per matree.go's
// ctxBase+0..5 usage.
const globalTreeContextBase = 6

// LfGlobal bundles the frame-wide parameters carried in the TOC's
// LfGlobal section: the rendering-extras feature lists (each their own
// dedicated entropy stream), VarDCT's scalar dequantization/correlation
// parameters, the MA tree every LF/HF modular channel in this frame
// walks, and (VarDCT only) the block-context map and dequant matrix
// set that depend on it.
//
// No single original_source file maps TOC sections to their bundle
// contents end to end (frame.rs/lf_global.rs were not among the
// filtered sources); this ordering - features first (each self
// contained), then VarDCT's raw-bit scalar parameters, then the shared
// MA tree, then the tree-dependent VarDCT bundles - follows the
// dependency order the later stages require and keeps every sub-parser
// reading directly off one shared bit cursor.
type LfGlobal struct {
	Patches *features.Patches
	Splines *features.Splines
	Noise   *features.NoiseParams

	Quantizer      *vardct.Quantizer
	ChannelDequant *vardct.LfChannelDequantization
	Correlation    *vardct.LfChannelCorrelation

	Tree            *modular.Tree
	NumTreeContexts int

	BlockContext    *vardct.HfBlockContext
	DequantMatrices *vardct.DequantMatrixSet
}

// ParseLfGlobal reads one frame's LfGlobal section from its already
// sliced-out byte range.
func ParseLfGlobal(data []byte, fh *frame.Header, numExtraChannels int, alphaChannelIndices []uint32) (*LfGlobal, error) {
	br := bitio.NewReader(data)
	g := &LfGlobal{}

	if fh.HasPatches {
		p, err := features.ParsePatches(br, fh.Width, fh.Height, numExtraChannels, alphaChannelIndices)
		if err != nil {
			return nil, err
		}
		g.Patches = p
	}
	if fh.HasSplines {
		s, err := features.ParseSplines(br, fh.Width, fh.Height)
		if err != nil {
			return nil, err
		}
		g.Splines = s
	}
	if fh.HasNoise {
		n, err := features.ParseNoiseParams(br)
		if err != nil {
			return nil, err
		}
		g.Noise = n
	}

	if fh.Encoding == frame.EncodingVarDCT {
		q, err := vardct.ParseQuantizer(br)
		if err != nil {
			return nil, err
		}
		g.Quantizer = q

		cd, err := vardct.ParseLfChannelDequantization(br)
		if err != nil {
			return nil, err
		}
		g.ChannelDequant = cd

		cc, err := vardct.ParseLfChannelCorrelation(br)
		if err != nil {
			return nil, err
		}
		g.Correlation = cc
	}

	treeDec, err := coding.NewDecoder(br, globalTreeContextBase, 8)
	if err != nil {
		return nil, err
	}
	tree, err := modular.DecodeTree(treeDec, 0)
	if err != nil {
		return nil, err
	}
	g.Tree = tree
	g.NumTreeContexts = tree.NumContexts()

	if fh.Encoding == frame.EncodingVarDCT {
		bc, err := vardct.ParseHfBlockContext(br)
		if err != nil {
			return nil, err
		}
		g.BlockContext = bc

		dm, err := vardct.ParseDequantMatrixSet(br, tree, g.NumTreeContexts)
		if err != nil {
			return nil, err
		}
		g.DequantMatrices = dm
	}

	return g, nil
}

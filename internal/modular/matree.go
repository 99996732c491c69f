package modular

import (
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// Property enumerates what an MA-tree internal node tests, per
// spec.md §4.4: neighbor samples, gradient, WP error components,
// channel/stream index, or the previous channel's sample at the same
// position.
type Property int

const (
	PropChannel Property = iota
	PropStreamIndex
	PropY
	PropX
	PropW // left
	PropN // top
	PropWW
	PropWN
	PropNN
	PropNE
	PropNW
	PropWWN
	PropWGradient
	PropWPError
	PropPrevChannel
	PropPrevChannelAbs
	numProperties
)

// Predictor enumerates the per-leaf prediction rule, evaluated against
// already-decoded neighbor samples.
type Predictor int

const (
	PredZero Predictor = iota
	PredLeft
	PredTop
	PredAvg
	PredSelect
	PredGradient
	PredWP
	numPredictors
)

// Node is one MA-tree node: internal nodes test Property against
// Threshold; leaves carry the entropy-decoding/reconstruction
// parameters. Nodes are held in a flat slice indexed by Left/Right, per
// spec.md §9 ("a flat vector of nodes with left/right indices; the tree
// is immutable").
type Node struct {
	IsLeaf    bool
	Property  Property
	Threshold int32
	Left      int // index of subtree taken when property > threshold
	Right     int

	// Leaf fields.
	Context    int
	PredictorID Predictor
	Offset     int32
	Multiplier uint32
}

// Tree is an immutable, flat MA tree shared read-only across group
// tasks.
type Tree struct {
	Nodes []Node
}

// NumContexts returns one past the highest leaf context index the tree
// assigns, the context-stream width every entropy decoder reading
// samples governed by this tree must be sized with.
func (t *Tree) NumContexts() int {
	max := -1
	for _, n := range t.Nodes {
		if n.IsLeaf && n.Context > max {
			max = n.Context
		}
	}
	return max + 1
}

const maxMaTreeNodes = 1 << 26

// DecodeTree reads an MA tree from the entropy stream by recursive
// descent: each node starts with a property token, 0 marking a leaf
// (context, predictor, offset, multiplier follow) and any other value a
// decision node (its threshold follows, then its left and right
// subtrees), bounded to maxMaTreeNodes, grounded on spec.md §4.4's property/leaf
// description and §9's flat-vector representation.
func DecodeTree(dec *coding.Decoder, ctxBase int) (*Tree, error) {
	t := &Tree{}
	var build func() (int, error)
	build = func() (int, error) {
		if len(t.Nodes) >= maxMaTreeNodes {
			return 0, xerr.New(xerr.InvalidMaTree, "tree exceeds node limit")
		}
		idx := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{})

		propTok, err := dec.ReadSymbol(ctxBase + 0)
		if err != nil {
			return 0, xerr.Wrap(xerr.InvalidMaTree, err, "property token")
		}
		if propTok == 0 {
			ctxTok, err := dec.ReadSymbol(ctxBase + 1)
			if err != nil {
				return 0, xerr.Wrap(xerr.InvalidMaTree, err, "leaf context")
			}
			predTok, err := dec.ReadSymbol(ctxBase + 2)
			if err != nil {
				return 0, xerr.Wrap(xerr.InvalidMaTree, err, "leaf predictor")
			}
			if predTok >= uint32(numPredictors) {
				return 0, xerr.Newf(xerr.InvalidMaTree, "predictor %d out of range", predTok)
			}
			offTok, err := dec.ReadSymbol(ctxBase + 3)
			if err != nil {
				return 0, xerr.Wrap(xerr.InvalidMaTree, err, "leaf offset")
			}
			multTok, err := dec.ReadSymbol(ctxBase + 4)
			if err != nil {
				return 0, xerr.Wrap(xerr.InvalidMaTree, err, "leaf multiplier")
			}
			t.Nodes[idx] = Node{
				IsLeaf:      true,
				Context:     int(ctxTok),
				PredictorID: Predictor(predTok),
				Offset:      coding.UnpackSigned(offTok),
				Multiplier:  multTok + 1,
			}
			return idx, nil
		}

		prop := Property(propTok - 1)
		if prop >= numProperties {
			return 0, xerr.Newf(xerr.InvalidMaTree, "property %d out of range", prop)
		}
		threshTok, err := dec.ReadSymbol(ctxBase + 5)
		if err != nil {
			return 0, xerr.Wrap(xerr.InvalidMaTree, err, "threshold")
		}
		threshold := coding.UnpackSigned(threshTok)

		left, err := build()
		if err != nil {
			return 0, err
		}
		right, err := build()
		if err != nil {
			return 0, err
		}
		t.Nodes[idx] = Node{Property: prop, Threshold: threshold, Left: left, Right: right}
		return idx, nil
	}
	root, err := build()
	if err != nil {
		return nil, err
	}
	if root != 0 {
		return nil, xerr.New(xerr.InvalidMaTree, "tree root must be node 0")
	}
	return t, nil
}

package modular

import (
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// walkTree descends the MA tree for one sample, returning the leaf
// reached, per spec.md §4.4 step 1.
func walkTree(tree *Tree, img *Image, chanIdx, streamIdx, x, y int, wp *wpState) (*Node, error) {
	c := img.Channels[chanIdx]
	w := c.at(x-1, y)
	n := c.at(x, y-1)
	nw := c.at(x-1, y-1)
	ne := c.at(x+1, y-1)
	ww := c.at(x-2, y)
	nn := c.at(x, y-2)
	wwn := c.at(x-2, y-1)
	var prevChan int32
	if chanIdx > 0 {
		prevChan = img.Channels[chanIdx-1].at(x, y)
	}

	idx := 0
	for steps := 0; ; steps++ {
		if steps > len(tree.Nodes) {
			return nil, xerr.New(xerr.InvalidMaTree, "tree walk exceeded node count, cycle?")
		}
		node := &tree.Nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		var v int32
		switch node.Property {
		case PropChannel:
			v = int32(chanIdx)
		case PropStreamIndex:
			v = int32(streamIdx)
		case PropY:
			v = int32(y)
		case PropX:
			v = int32(x)
		case PropW:
			v = w
		case PropN:
			v = n
		case PropWW:
			v = ww
		case PropWN:
			v = nw
		case PropNN:
			v = nn
		case PropNE:
			v = ne
		case PropNW:
			v = nw
		case PropWWN:
			v = wwn
		case PropWGradient:
			v = w + n - nw
		case PropWPError:
			v = int32(wp.errSum[0] - wp.errSum[1])
		case PropPrevChannel:
			v = prevChan
		case PropPrevChannelAbs:
			v = abs32(prevChan)
		default:
			return nil, xerr.Newf(xerr.PropertyNotFound, "property %d not found", node.Property)
		}
		if v > node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// DecodeGroup decodes every channel of img in scan order, per
// spec.md §4.4's four-step per-sample loop: walk the tree, read and
// unpack the residual token, compute the predictor, add, then update
// the self-correcting predictor state.
func DecodeGroup(dec *coding.Decoder, tree *Tree, img *Image, streamIdx int) error {
	for chanIdx, c := range img.Channels {
		wp := newWPState()
		for y := 0; y < c.Height; y++ {
			wp.prevPred = [4]int32{}
			for x := 0; x < c.Width; x++ {
				leaf, err := walkTree(tree, img, chanIdx, streamIdx, x, y, wp)
				if err != nil {
					return err
				}
				tok, err := dec.ReadSymbol(leaf.Context)
				if err != nil {
					return xerr.Wrap(xerr.InvalidMaTree, err, "sample token")
				}
				residual := coding.UnpackSigned(tok)
				pred := predict(c, x, y, leaf.PredictorID, wp)
				sample := residual*int32(leaf.Multiplier) + leaf.Offset + pred
				c.set(x, y, sample)
				if leaf.PredictorID == PredWP {
					updateWP(wp, sample)
				}
			}
		}
	}
	return nil
}

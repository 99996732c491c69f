package features

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// PatchBlendMode enumerates how a patch's pixels combine with the
// frame's existing content, per patch.rs's PatchBlendMode.
type PatchBlendMode uint8

const (
	PatchBlendNone PatchBlendMode = iota
	PatchBlendReplace
	PatchBlendAdd
	PatchBlendMul
	PatchBlendAbove
	PatchBlendBelow
	PatchBlendMulAddAbove
	PatchBlendMulAddBelow
	numPatchBlendModes
)

// UseAlpha reports whether this blend mode reads an alpha channel, per
// patch.rs's use_alpha.
func (m PatchBlendMode) UseAlpha() bool {
	switch m {
	case PatchBlendAbove, PatchBlendBelow, PatchBlendMulAddAbove, PatchBlendMulAddBelow:
		return true
	default:
		return false
	}
}

// BlendingModeInfo is one extra channel's blend parameters for one
// patch placement.
type BlendingModeInfo struct {
	Mode         PatchBlendMode
	AlphaChannel uint32
	Clamp        bool
}

// PatchTarget is one placement of a patch reference's pixels onto the
// frame, at (X, Y), with one BlendingModeInfo per color+extra channel.
type PatchTarget struct {
	X, Y     int32
	Blending []BlendingModeInfo
}

// PatchRef is one rectangular region of a reference frame slot, placed
// at one or more PatchTargets.
type PatchRef struct {
	RefIdx              uint32
	X0, Y0, Width, Height uint32
	Targets             []PatchTarget
}

// Patches is a frame's full patch list, per patch.rs's Patches bundle.
type Patches struct {
	Refs []PatchRef
}

// ParsePatches reads the patch list: a dedicated 10-context entropy
// stream carries ref_idx/x0/y0/width/height/count per reference, then
// per-target coordinates (absolute for the first target, signed deltas
// thereafter) and numExtraChannels+1 blend-mode records (one for the
// color channels plus one per extra channel), ported from patch.rs's
// Bundle impl.
func ParsePatches(br *bitio.Reader, frameWidth, frameHeight uint32, numExtraChannels int, alphaChannelIndices []uint32) (*Patches, error) {
	dec, err := coding.NewDecoder(br, 10, 8)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidCluster, err, "patches entropy decoder")
	}

	maxNumPatchRefs := uint32(1 << 24)
	if limit := uint64(frameWidth) * uint64(frameHeight) / 16; limit < uint64(maxNumPatchRefs) {
		maxNumPatchRefs = uint32(limit)
	}
	maxNumPatches := maxNumPatchRefs * 4

	numPatchRefs, err := dec.ReadSymbol(0)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "num_patch_refs")
	}
	if numPatchRefs > maxNumPatchRefs {
		return nil, xerr.Newf(xerr.TooManyPatches, "num_patch_refs %d exceeds limit %d", numPatchRefs, maxNumPatchRefs)
	}

	var totalPatches uint32
	refs := make([]PatchRef, 0, numPatchRefs)
	for i := uint32(0); i < numPatchRefs; i++ {
		refIdx, err := dec.ReadSymbol(1)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "ref_idx")
		}
		x0, err := dec.ReadSymbol(3)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "x0")
		}
		y0, err := dec.ReadSymbol(3)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "y0")
		}
		width, err := dec.ReadSymbol(2)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "width")
		}
		width++
		height, err := dec.ReadSymbol(2)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "height")
		}
		height++
		count, err := dec.ReadSymbol(7)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "count")
		}
		count++

		totalPatches += count
		if totalPatches > maxNumPatches {
			return nil, xerr.Newf(xerr.TooManyPatches, "total patches %d exceeds limit %d", totalPatches, maxNumPatches)
		}

		targets := make([]PatchTarget, 0, count)
		var prevX, prevY int32
		havePrev := false
		for t := uint32(0); t < count; t++ {
			var x, y int32
			if havePrev {
				dx, err := dec.ReadSymbol(6)
				if err != nil {
					return nil, xerr.Wrap(xerr.UnexpectedEof, err, "patch dx")
				}
				dy, err := dec.ReadSymbol(6)
				if err != nil {
					return nil, xerr.Wrap(xerr.UnexpectedEof, err, "patch dy")
				}
				x = prevX + coding.UnpackSigned(dx)
				y = prevY + coding.UnpackSigned(dy)
			} else {
				xv, err := dec.ReadSymbol(4)
				if err != nil {
					return nil, xerr.Wrap(xerr.UnexpectedEof, err, "patch x")
				}
				yv, err := dec.ReadSymbol(4)
				if err != nil {
					return nil, xerr.Wrap(xerr.UnexpectedEof, err, "patch y")
				}
				x, y = int32(xv), int32(yv)
			}
			prevX, prevY, havePrev = x, y, true

			blending := make([]BlendingModeInfo, 0, numExtraChannels+1)
			for c := 0; c < numExtraChannels+1; c++ {
				rawMode, err := dec.ReadSymbol(5)
				if err != nil {
					return nil, xerr.Wrap(xerr.UnexpectedEof, err, "blend mode")
				}
				if rawMode >= uint32(numPatchBlendModes) {
					return nil, xerr.Newf(xerr.InvalidEnum, "patch blend mode %d out of range", rawMode)
				}
				mode := PatchBlendMode(rawMode)

				var alphaChannel uint32
				if rawMode >= 4 && len(alphaChannelIndices) >= 2 {
					alphaChannel, err = dec.ReadSymbol(8)
					if err != nil {
						return nil, xerr.Wrap(xerr.UnexpectedEof, err, "blend alpha channel")
					}
				} else if len(alphaChannelIndices) > 0 {
					alphaChannel = alphaChannelIndices[0]
				}

				var clamp bool
				if rawMode >= 3 {
					c, err := dec.ReadSymbol(9)
					if err != nil {
						return nil, xerr.Wrap(xerr.UnexpectedEof, err, "blend clamp")
					}
					clamp = c != 0
				}

				blending = append(blending, BlendingModeInfo{Mode: mode, AlphaChannel: alphaChannel, Clamp: clamp})
			}

			targets = append(targets, PatchTarget{X: x, Y: y, Blending: blending})
		}

		refs = append(refs, PatchRef{RefIdx: refIdx, X0: x0, Y0: y0, Width: width, Height: height, Targets: targets})
	}

	return &Patches{Refs: refs}, nil
}

package render

import "github.com/jxlcore/jxl/internal/features"

// applyPatches composites every patch reference onto canvas: a
// rectangular region is copied out of the reference-frame slot it names
// (rc.Refs[RefIdx], populated by an earlier frame's save_as_reference),
// then placed at each of its targets with that target's per-channel
// PatchBlendMode, per patch.rs's render-time Patches application. A
// reference slot that was never saved (nil), or one a patch names
// before any frame has saved into it, is silently skipped -- there is
// nothing upstream in the stream that can supply its pixels.
func applyPatches(canvas *Canvas, patches *features.Patches, rc *RenderContext) {
	if patches == nil {
		return
	}
	for _, ref := range patches.Refs {
		if int(ref.RefIdx) >= len(rc.Refs) {
			continue
		}
		src := rc.Refs[ref.RefIdx]
		if src == nil {
			continue
		}
		for _, target := range ref.Targets {
			placePatch(canvas, src, ref, target)
		}
	}
}

// placePatch copies ref's Width x Height rectangle of src, anchored at
// (ref.X0, ref.Y0), onto canvas at (target.X, target.Y), blending each
// color channel with target.Blending[0] and each extra channel with
// target.Blending[1:], per-sample.
func placePatch(canvas, src *Canvas, ref features.PatchRef, target features.PatchTarget) {
	if len(target.Blending) == 0 {
		return
	}
	w, h := int(ref.Width), int(ref.Height)
	for y := 0; y < h; y++ {
		sy, dy := int(ref.Y0)+y, int(target.Y)+y
		if sy < 0 || sy >= int(src.Height) || dy < 0 || dy >= int(canvas.Height) {
			continue
		}
		for x := 0; x < w; x++ {
			sx, dx := int(ref.X0)+x, int(target.X)+x
			if sx < 0 || sx >= int(src.Width) || dx < 0 || dx >= int(canvas.Width) {
				continue
			}
			srcIdx := sy*int(src.Width) + sx
			dstIdx := dy*int(canvas.Width) + dx

			colorBlend := target.Blending[0]
			srcAlpha := channelAlpha(src, srcIdx, colorBlend)
			dstAlpha := channelAlpha(canvas, dstIdx, colorBlend)
			for c := 0; c < 3; c++ {
				if v, write := patchBlendSample(canvas.Color[c][dstIdx], src.Color[c][srcIdx], colorBlend.Mode, srcAlpha, dstAlpha, colorBlend.Clamp); write {
					canvas.Color[c][dstIdx] = v
				}
			}
			for c := 1; c < len(target.Blending); c++ {
				ec := c - 1
				if ec >= len(canvas.Extra) || ec >= len(src.Extra) {
					continue
				}
				b := target.Blending[c]
				sa := channelAlpha(src, srcIdx, b)
				da := channelAlpha(canvas, dstIdx, b)
				if v, write := patchBlendSample(canvas.Extra[ec][dstIdx], src.Extra[ec][srcIdx], b.Mode, sa, da, b.Clamp); write {
					canvas.Extra[ec][dstIdx] = v
				}
			}
		}
	}
}

// channelAlpha resolves one BlendingModeInfo's alpha source to a
// sample: fully opaque (1.0) for modes that don't read alpha, or when
// the referenced extra channel doesn't exist on c, else that channel's
// sample at idx.
func channelAlpha(c *Canvas, idx int, b features.BlendingModeInfo) float32 {
	if !b.Mode.UseAlpha() {
		return 1
	}
	if int(b.AlphaChannel) >= len(c.Extra) {
		return 1
	}
	return c.Extra[b.AlphaChannel][idx]
}

// patchBlendSample combines one patch sample into the canvas per mode,
// per patch.rs's PatchBlendMode table: None leaves dst untouched (the
// bool return is false), Replace/Add/Mul match the frame-level blend
// modes of the same name, and the Above/Below pairs composite using the
// patch's own alpha (Above) or the existing canvas content's alpha
// (Below) as the source-over weight, with MulAdd variants skipping the
// weighted complement term.
func patchBlendSample(dstV, srcV float32, mode features.PatchBlendMode, srcAlpha, dstAlpha float32, clamp bool) (float32, bool) {
	if clamp {
		if srcAlpha < 0 {
			srcAlpha = 0
		}
		if srcAlpha > 1 {
			srcAlpha = 1
		}
		if dstAlpha < 0 {
			dstAlpha = 0
		}
		if dstAlpha > 1 {
			dstAlpha = 1
		}
	}
	switch mode {
	case features.PatchBlendNone:
		return dstV, false
	case features.PatchBlendReplace:
		return srcV, true
	case features.PatchBlendAdd:
		return dstV + srcV, true
	case features.PatchBlendMul:
		return dstV * srcV, true
	case features.PatchBlendAbove:
		return srcV*srcAlpha + dstV*(1-srcAlpha), true
	case features.PatchBlendBelow:
		return dstV*dstAlpha + srcV*(1-dstAlpha), true
	case features.PatchBlendMulAddAbove:
		return dstV + srcV*srcAlpha, true
	case features.PatchBlendMulAddBelow:
		return dstV + srcV*dstAlpha, true
	default:
		return srcV, true
	}
}

// Package render orchestrates one frame's full decode: frame header and
// TOC framing (internal/frame), per-group LF and HF pixel reconstruction
// (internal/modular, internal/vardct), restoration filtering and
// rendering extras (internal/filters, internal/features), and color
// conversion (internal/colorconv), composited onto the output canvas or
// a reference-frame slot per the frame header's blend parameters.
// Grounded on the teacher codec's internal/tcd.TileDecoder for its
// "builder struct with InitTile/DecodeCodeBlock/ApplyInverseDWT staged
// methods" shape, generalized from one tile's wavelet pipeline to one
// frame's full restoration pipeline.
package render

import "github.com/jxlcore/jxl/internal/frame"

// Canvas is a fully decoded frame or reference-frame slot: three color
// planes (XYB if the image header is opsin-encoded, RGB/gray otherwise)
// plus one plane per extra channel, all row-major at Width x Height.
type Canvas struct {
	Width, Height uint32
	Color         [3][]float32
	Extra         [][]float32
}

// cloneCanvas deep-copies c, used when a frame saves itself into a
// reference-frame slot so a later frame's patches or blend can read it
// without aliasing a buffer this frame's own caller may still mutate.
func cloneCanvas(c *Canvas) *Canvas {
	out := &Canvas{Width: c.Width, Height: c.Height}
	for i := range c.Color {
		out.Color[i] = append([]float32(nil), c.Color[i]...)
	}
	out.Extra = make([][]float32, len(c.Extra))
	for i := range c.Extra {
		out.Extra[i] = append([]float32(nil), c.Extra[i]...)
	}
	return out
}

// NewCanvas allocates a zeroed canvas of the given size and extra-channel
// count.
func NewCanvas(width, height uint32, numExtra int) *Canvas {
	c := &Canvas{Width: width, Height: height}
	for i := range c.Color {
		c.Color[i] = make([]float32, width*height)
	}
	c.Extra = make([][]float32, numExtra)
	for i := range c.Extra {
		c.Extra[i] = make([]float32, width*height)
	}
	return c
}

// blendSample combines one already-positioned source sample into dst
// per mode, per spec.md's blend-mode table: Replace overwrites, Add
// accumulates, Mul multiplies, Blend and MulAdd use the source (or a
// separate alpha channel's) alpha as a weight.
func blendSample(dstV, srcV float32, mode frame.BlendMode, alpha float32, clamp bool) float32 {
	if clamp {
		if alpha < 0 {
			alpha = 0
		}
		if alpha > 1 {
			alpha = 1
		}
	}
	switch mode {
	case frame.BlendReplace:
		return srcV
	case frame.BlendAdd:
		return dstV + srcV
	case frame.BlendMul:
		return dstV * srcV
	case frame.BlendBlend:
		return srcV*alpha + dstV*(1-alpha)
	case frame.BlendMulAdd:
		return dstV + srcV*alpha
	default:
		return srcV
	}
}

// BlendInto composites src onto dst at (x0, y0), per-channel, using one
// BlendInfo per color+extra channel and extraAlphaIdx resolving each
// BlendInfo's AlphaChannel field to an index into src.Extra (or -1 for
// the implicit fully-opaque alpha of a frame with no alpha channel).
func BlendInto(dst, src *Canvas, x0, y0 int32, blends []frame.BlendInfo, extraAlphaIdx func(uint32) int) {
	planes := append(append([][]float32{}, src.Color[:]...), src.Extra...)
	dstPlanes := append(append([][]float32{}, dst.Color[:]...), dst.Extra...)

	for p := range planes {
		if p >= len(blends) {
			break
		}
		b := blends[p]
		var alphaPlane []float32
		if b.Mode == frame.BlendBlend || b.Mode == frame.BlendMulAdd {
			idx := extraAlphaIdx(b.AlphaChannel)
			if idx >= 0 && idx < len(src.Extra) {
				alphaPlane = src.Extra[idx]
			}
		}
		for y := uint32(0); y < src.Height; y++ {
			dy := y0 + int32(y)
			if dy < 0 || dy >= int32(dst.Height) {
				continue
			}
			for x := uint32(0); x < src.Width; x++ {
				dx := x0 + int32(x)
				if dx < 0 || dx >= int32(dst.Width) {
					continue
				}
				srcIdx := y*src.Width + x
				dstIdx := uint32(dy)*dst.Width + uint32(dx)
				alpha := float32(1.0)
				if alphaPlane != nil {
					alpha = alphaPlane[srcIdx]
				}
				dstPlanes[p][dstIdx] = blendSample(dstPlanes[p][dstIdx], planes[p][srcIdx], b.Mode, alpha, b.Clamp)
			}
		}
	}
}

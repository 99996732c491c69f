package vardct

import "math"

// InverseDCT transforms a dequantized dw*dh coefficient block (row-
// major, low frequency at the origin) back to dw*dh spatial samples,
// dispatching by TransformType per spec.md: a separable row-then-column
// inverse DCT-II for the regular sizes, transposing first when
// NeedTranspose() reports the transform's natural storage order is
// rotated, and dedicated small-kernel paths for Hornuss, DCT2 and
// AFV0-3. DCT4 and DCT4x8/8x4 have no dedicated path; they go through
// the separable DCT like the regular sizes.
func InverseDCT(t TransformType, coeffs []float32, dw, dh int) []float32 {
	switch t {
	case Hornuss:
		return inverseHornuss(coeffs)
	case Dct2:
		return inverseDct2(coeffs)
	case Afv0, Afv1, Afv2, Afv3:
		return inverseAfv(coeffs, int(t-Afv0))
	default:
		return inverseSeparableDCT(t, coeffs, dw, dh)
	}
}

func inverseSeparableDCT(t TransformType, coeffs []float32, dw, dh int) []float32 {
	in := coeffs
	w, h := dw, dh
	if t.NeedTranspose() {
		in = transpose(in, w, h)
		w, h = h, w
	}

	// Inverse DCT-II (the "DCT-III" synthesis form) along rows, then
	// columns.
	rowOut := make([]float32, w*h)
	for y := 0; y < h; y++ {
		idct1D(in[y*w:(y+1)*w], rowOut[y*w:(y+1)*w])
	}
	colIn := make([]float32, w*h)
	colOut := make([]float32, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			colIn[y] = rowOut[y*w+x]
		}
		tmp := make([]float32, h)
		idct1D(colIn[:h], tmp)
		for y := 0; y < h; y++ {
			colOut[y*w+x] = tmp[y]
		}
	}

	if t.NeedTranspose() {
		colOut = transpose(colOut, w, h)
	}
	return colOut
}

// idct1D computes the orthonormal inverse DCT-II (spatial-domain
// synthesis) of one row/column of n coefficients.
func idct1D(in, out []float32) {
	n := len(in)
	for x := 0; x < n; x++ {
		var sum float32
		for k := 0; k < n; k++ {
			ck := float32(1.0)
			if k == 0 {
				ck = float32(1.0 / math.Sqrt2)
			}
			angle := math.Pi / float64(n) * (float64(x) + 0.5) * float64(k)
			sum += ck * in[k] * float32(math.Cos(angle))
		}
		out[x] = sum * float32(math.Sqrt(2.0/float64(n)))
	}
}

func transpose(in []float32, w, h int) []float32 {
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[x*h+y] = in[y*w+x]
		}
	}
	return out
}

// inverseHornuss applies a simplified 8x8 "Hornuss" shape: coeffs[0]/8
// is spread over the whole block and every other coefficient is added
// to the sample at its own index. There is no quadrant structure and
// no per-coefficient table.
func inverseHornuss(coeffs []float32) []float32 {
	out := make([]float32, 64)
	dc := coeffs[0] / 8
	for i := range out {
		out[i] = dc
	}
	for i := 1; i < 64; i++ {
		out[i] += coeffs[i]
	}
	return out
}

// inverseDct2 applies the 2x2 Hadamard-like butterfly the reference
// decoder uses for its smallest transform, operating on a packed 4x4
// grid of 16 independent 2x2 sub-blocks, each taking 4 consecutive
// coefficient slots of the block's 64 (sub-blocks whose slots lie past
// the end of coeffs stay zero).
func inverseDct2(coeffs []float32) []float32 {
	out := make([]float32, 64)
	for by := 0; by < 4; by++ {
		for bx := 0; bx < 4; bx++ {
			base := (by*4 + bx) * 4
			if base+3 >= len(coeffs) {
				continue
			}
			a, b, c, d := coeffs[base], coeffs[base+1], coeffs[base+2], coeffs[base+3]
			p00 := (a + b + c + d) / 2
			p01 := (a - b + c - d) / 2
			p10 := (a + b - c - d) / 2
			p11 := (a - b - c + d) / 2
			y0, x0 := by*2, bx*2
			out[y0*8+x0] = p00
			out[y0*8+x0+1] = p01
			out[(y0+1)*8+x0] = p10
			out[(y0+1)*8+x0+1] = p11
		}
	}
	return out
}

// inverseAfv applies one of the 4 "AFV" (asymmetric flip variant) 8x8
// transforms: a regular 8x8 inverse DCT whose result is mirrored
// horizontally and/or vertically depending on variant, per spec.md's
// enumeration of Afv0..Afv3 as orientation variants of one base kernel.
func inverseAfv(coeffs []float32, variant int) []float32 {
	base := inverseSeparableDCT(Dct8, coeffs, 8, 8)
	flipH := variant&1 != 0
	flipV := variant&2 != 0
	if !flipH && !flipV {
		return base
	}
	out := make([]float32, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sx, sy := x, y
			if flipH {
				sx = 7 - x
			}
			if flipV {
				sy = 7 - y
			}
			out[y*8+x] = base[sy*8+sx]
		}
	}
	return out
}

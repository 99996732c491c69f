package colorconv

import "gonum.org/v1/gonum/mat"

// ChromaticityPoint is a CIE 1931 xy chromaticity coordinate.
type ChromaticityPoint struct{ X, Y float64 }

// PrimariesSet names the three gamut primaries plus white point a
// frame's decoded samples are defined relative to, in the image
// header's bitstream-level representation.
type PrimariesSet struct {
	Red, Green, Blue ChromaticityPoint
	White            ChromaticityPoint
}

// RGBToXYZMatrix builds the 3x3 matrix mapping linear RGB values under
// PrimariesSet to CIE XYZ, via the standard primaries-to-XYZ
// derivation (white-point-normalized scaling of each primary's XYZ
// column), using gonum for the 3x3 solve.
func RGBToXYZMatrix(p PrimariesSet) [3][3]float64 {
	xr, yr := p.Red.X, p.Red.Y
	xg, yg := p.Green.X, p.Green.Y
	xb, yb := p.Blue.X, p.Blue.Y
	xw, yw := p.White.X, p.White.Y

	m := mat.NewDense(3, 3, []float64{
		xr / yr, xg / yg, xb / yb,
		1, 1, 1,
		(1 - xr - yr) / yr, (1 - xg - yg) / yg, (1 - xb - yb) / yb,
	})

	wXYZ := mat.NewVecDense(3, []float64{xw / yw, 1, (1 - xw - yw) / yw})

	var mInv mat.Dense
	if err := mInv.Inverse(m); err != nil {
		return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}
	var s mat.VecDense
	s.MulVec(&mInv, wXYZ)

	var out mat.Dense
	scale := mat.NewDiagDense(3, []float64{s.AtVec(0), s.AtVec(1), s.AtVec(2)})
	out.Mul(m, scale)

	var result [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			result[r][c] = out.At(r, c)
		}
	}
	return result
}

// bradfordMA is the fixed Bradford cone-response matrix used for
// chromatic adaptation between white points; its inverse is computed in
// ChromaticAdaptationMatrix.
var bradfordMA = mat.NewDense(3, 3, []float64{
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
})

// ChromaticAdaptationMatrix builds the 3x3 XYZ-to-XYZ matrix adapting
// from srcWhite to dstWhite under the Bradford transform.
func ChromaticAdaptationMatrix(srcWhite, dstWhite ChromaticityPoint) [3][3]float64 {
	srcXYZ := mat.NewVecDense(3, []float64{srcWhite.X / srcWhite.Y, 1, (1 - srcWhite.X - srcWhite.Y) / srcWhite.Y})
	dstXYZ := mat.NewVecDense(3, []float64{dstWhite.X / dstWhite.Y, 1, (1 - dstWhite.X - dstWhite.Y) / dstWhite.Y})

	var srcCone, dstCone mat.VecDense
	srcCone.MulVec(bradfordMA, srcXYZ)
	dstCone.MulVec(bradfordMA, dstXYZ)

	ratio := mat.NewDiagDense(3, []float64{
		dstCone.AtVec(0) / srcCone.AtVec(0),
		dstCone.AtVec(1) / srcCone.AtVec(1),
		dstCone.AtVec(2) / srcCone.AtVec(2),
	})

	var maInv mat.Dense
	if err := maInv.Inverse(bradfordMA); err != nil {
		return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}

	var step mat.Dense
	step.Mul(&maInv, ratio)
	var result mat.Dense
	result.Mul(&step, bradfordMA)

	var out [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = result.At(r, c)
		}
	}
	return out
}

// ApplyMatrix3 transforms one r/g/b triple of planes in place by a
// fixed 3x3 matrix, the shared tail step of both RGBToXYZMatrix and
// ChromaticAdaptationMatrix pipelines.
func ApplyMatrix3(r, g, b []float32, m [3][3]float64) {
	for i := range r {
		rv, gv, bv := float64(r[i]), float64(g[i]), float64(b[i])
		r[i] = float32(m[0][0]*rv + m[0][1]*gv + m[0][2]*bv)
		g[i] = float32(m[1][0]*rv + m[1][1]*gv + m[1][2]*bv)
		b[i] = float32(m[2][0]*rv + m[2][1]*gv + m[2][2]*bv)
	}
}

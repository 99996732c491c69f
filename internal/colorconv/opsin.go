// Package colorconv implements the pixel-domain color conversions a
// decoded frame passes through on its way to a display-ready buffer:
// inverse XYB (opsin) to linear light, YCbCr to RGB, primaries/white-
// point transforms via a pluggable color management system, and
// transfer-function (gamma/PQ/HLG) decode to linear light. Grounded on the teacher
// codec's colorspace.go for its table-driven "one function per
// colorspace, dispatch by enum" shape, generalized from JPEG 2000's 19
// enumerated ICC colorspaces to JPEG XL's opsin/YCbCr/ICC pipeline.
package colorconv

import "math"

// InverseXYB converts one frame's X/Y/B planes (in place) from the
// perceptual XYB opsin space back to the frame's native linear color
// space, per the reference decoder's perform_inverse_xyb: degamma each
// channel's "mixed" LMS-like value via a shifted cube, then apply the
// image header's inverse opsin matrix, scaled by the tone-mapping
// intensity target.
func InverseXYB(x, y, b []float32, invMat [3][3]float32, opsinBias [3]float32, intensityTarget float32) {
	if len(x) != len(y) || len(y) != len(b) {
		panic("colorconv: XYB plane size mismatch")
	}
	itScale := float32(255.0) / intensityTarget
	cbrtOb := [3]float32{
		float32(math.Cbrt(float64(opsinBias[0]))),
		float32(math.Cbrt(float64(opsinBias[1]))),
		float32(math.Cbrt(float64(opsinBias[2]))),
	}

	for i := range x {
		gL := y[i] + x[i]
		gM := y[i] - x[i]
		gS := b[i]

		mixL := (cube(gL-cbrtOb[0]) + opsinBias[0]) * itScale
		mixM := (cube(gM-cbrtOb[1]) + opsinBias[1]) * itScale
		mixS := (cube(gS-cbrtOb[2]) + opsinBias[2]) * itScale

		x[i] = invMat[0][0]*mixL + invMat[0][1]*mixM + invMat[0][2]*mixS
		y[i] = invMat[1][0]*mixL + invMat[1][1]*mixM + invMat[1][2]*mixS
		b[i] = invMat[2][0]*mixL + invMat[2][1]*mixM + invMat[2][2]*mixS
	}
}

func cube(v float32) float32 { return v * v * v }

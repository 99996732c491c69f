package filters

import "math"

// epfOffset is a kernel or sum-of-absolute-difference tap relative to
// the pixel being filtered.
type epfOffset struct{ dx, dy int }

// epfKernelStep0 and epfKernelStep12 are the neighbor sets each EPF pass
// averages over, and epfDistStep01 and epfDistStep2 the taps summed into that neighbor's weighted
// sum-of-absolute-differences, ported from generic.rs's epf_step0/1/2
// call sites. Pass 0 uses a 12-tap "cross of crosses" neighborhood with
// a 5-tap SAD window; passes 1 and 2 share the smaller 4-tap orthogonal
// neighborhood, differing only in their SAD window (5 taps vs. just the
// center sample).
var (
	epfKernelStep0 = []epfOffset{
		{0, -1}, {-1, 0}, {1, 0}, {0, 1},
		{0, -2}, {-1, -1}, {1, -1}, {-2, 0}, {2, 0}, {-1, 1}, {1, 1}, {0, 2},
	}
	epfKernelStep12 = []epfOffset{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

	epfDistStep01 = []epfOffset{{0, 0}, {0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	epfDistStep2  = []epfOffset{{0, 0}}
)

// EPFParams bundles the per-frame restoration-filter parameters EPF
// needs, mirroring frame.RestorationFilter's EPF fields so this package
// stays independent of the frame package's parse-time concerns.
type EPFParams struct {
	Iterations    uint32
	ChannelScale  [3]float32
	BorderSadMul  float32
	Pass0SigmaScale float32 // corresponds to the bitstream's EpfSigmaScale
	Pass2SigmaScale float32
}

// ApplyEPF runs the configured number of edge-preserving-filter passes
// over the three color planes in place, using sigmaGrid (one value per
// 8x8 block, sigmaW*sigmaH) to gate and scale each block's filtering
// strength, per generic.rs's epf_step. A sigma below 0.3 disables
// filtering for that block's pixels entirely (the original's early-out
// branch), and samples within one pixel of an 8x8 block boundary use
// borderSadMul-scaled SAD weighting, matching the original's
// is_border check.
func ApplyEPF(planes [3][]float32, width, height int, sigmaGrid []float32, sigmaW int, p EPFParams) [3][]float32 {
	cur := planes
	for pass := uint32(0); pass < p.Iterations; pass++ {
		var kernel, dist []epfOffset
		var stepMul float32
		switch pass {
		case 0:
			kernel, dist, stepMul = epfKernelStep0, epfDistStep01, p.Pass0SigmaScale
		case 1:
			kernel, dist, stepMul = epfKernelStep12, epfDistStep01, 1.0
		default:
			kernel, dist, stepMul = epfKernelStep12, epfDistStep2, p.Pass2SigmaScale
		}
		cur = epfStep(cur, width, height, sigmaGrid, sigmaW, p.ChannelScale, p.BorderSadMul, stepMul, kernel, dist)
	}
	return cur
}

func epfStep(input [3][]float32, width, height int, sigmaGrid []float32, sigmaW int, channelScale [3]float32, borderSadMul, stepMultiplier float32, kernel, dist []epfOffset) [3][]float32 {
	grids := [3]*edgeGrid{
		newEdgeGrid(input[0], width, height),
		newEdgeGrid(input[1], width, height),
		newEdgeGrid(input[2], width, height),
	}

	var out [3][]float32
	for c := range out {
		out[c] = make([]float32, width*height)
		copy(out[c], input[c])
	}

	for y := 0; y < height; y++ {
		by := y / 8
		isYBorder := y%8 == 0 || y%8 == 7
		for x := 0; x < width; x++ {
			bx := x / 8
			sigmaVal := sigmaGrid[by*sigmaW+bx]
			if sigmaVal < 0.3 {
				continue
			}
			isBorder := isYBorder || x%8 == 0 || x%8 == 7

			sumWeights := float32(1.0)
			var sumChannels [3]float32
			for c := 0; c < 3; c++ {
				sumChannels[c] = grids[c].at(x, y)
			}

			for _, k := range kernel {
				tx, ty := x+k.dx, y+k.dy
				var d float32
				for c := 0; c < 3; c++ {
					scale := channelScale[c]
					for _, off := range dist {
						d += abs32(grids[c].at(x+off.dx, y+off.dy)-grids[c].at(tx+off.dx, ty+off.dy)) * scale
					}
				}
				sm := stepMultiplier
				if isBorder {
					sm *= borderSadMul
				}
				w := epfWeight(d, sigmaVal, sm)
				sumWeights += w
				for c := 0; c < 3; c++ {
					sumChannels[c] += grids[c].at(tx, ty) * w
				}
			}

			for c := 0; c < 3; c++ {
				out[c][y*width+x] = sumChannels[c] / sumWeights
			}
		}
	}
	return out
}

const epfInvSqrt2 = 0.70710678

func epfWeight(scaledDistance, sigma, stepMultiplier float32) float32 {
	invSigma := stepMultiplier * 6.6 * (1.0 - epfInvSqrt2) / sigma
	w := 1.0 - scaledDistance*invSigma
	if w < 0 {
		return 0
	}
	return w
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

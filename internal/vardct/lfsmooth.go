package vardct

// lfSmoothSelf, lfSmoothSide, lfSmoothDiag are the fixed 3x3 adaptive
// LF smoothing weights, per spec.md §4.5.
const (
	lfSmoothSelf = 0.052262735
	lfSmoothSide = 0.2034514
	lfSmoothDiag = 0.03348292
)

// SmoothLfChannel applies adaptive LF smoothing in place over one
// channel's LF coefficient grid: the 3x3 weighted average (self, four
// edge neighbors, four diagonal neighbors) replaces the center sample
// only where the absolute difference between the weighted average and
// the center, scaled by the channel's lf_dequant factor, stays below a
// fixed gating threshold -- blocks at a real edge are left untouched so
// the filter doesn't blur across them.
func SmoothLfChannel(grid []float32, w, h int, lfDequant float32) {
	if w < 3 || h < 3 {
		return
	}
	at := func(x, y int) float32 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return grid[y*w+x]
	}

	out := make([]float32, w*h)
	copy(out, grid)

	const gate = 1.0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := at(x, y)
			side := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1)
			diag := at(x-1, y-1) + at(x+1, y-1) + at(x-1, y+1) + at(x+1, y+1)
			weighted := lfSmoothSelf*center + lfSmoothSide*side + lfSmoothDiag*diag

			diff := weighted - center
			if diff < 0 {
				diff = -diff
			}
			if diff*lfDequant < gate {
				out[y*w+x] = weighted
			}
		}
	}

	copy(grid, out)
}

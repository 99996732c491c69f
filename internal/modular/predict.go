package modular

// wpState carries the self-correcting ("weighted predictor") running
// state for one channel, per spec.md §9: "represent it as a small
// fixed-size struct carried through the row loop, not as global or
// class state."
type wpState struct {
	// Running absolute-error sums (no decay) for the four WP
	// sub-predictors, updated per sample after the true value is known.
	errSum [4]int64
	// Previously predicted values per sub-predictor, for the current row.
	prevPred [4]int32
}

func newWPState() *wpState {
	return &wpState{}
}

// predict evaluates the predictor for the sample at (x, y) in channel c
// from its already-decoded neighbors in that channel.
func predict(c *Channel, x, y int, id Predictor, wp *wpState) int32 {
	w := c.at(x-1, y)
	n := c.at(x, y-1)
	nw := c.at(x-1, y-1)
	ne := c.at(x+1, y-1)

	switch id {
	case PredZero:
		return 0
	case PredLeft:
		return w
	case PredTop:
		return n
	case PredAvg:
		return (w + n) / 2
	case PredSelect:
		// Select: if NW is between N and W (inclusive) return N+W-NW,
		// else return whichever of N/W is closer to the other's
		// gradient partner.
		grad := w + n - nw
		if (nw >= n && nw >= w) || (nw <= n && nw <= w) {
			return grad
		}
		if abs32(grad-w) < abs32(grad-n) {
			return w
		}
		return n
	case PredGradient:
		grad := w + n - nw
		return clamp32(grad, minI32(w, n), maxI32(w, n))
	case PredWP:
		return predictWP(c, x, y, w, n, nw, ne, wp)
	default:
		return 0
	}
}

// predictWP implements a simplified self-correcting predictor: of four
// candidate predictors (N, W, N+W-NW, N+(NE-N)/2 - a simple gradient
// variant) it returns the one with the lowest running absolute error.
// The candidates are not blended, and no other implementation's weight
// schedule is reproduced.
func predictWP(c *Channel, x, y int, w, n, nw, ne int32, st *wpState) int32 {
	candidates := [4]int32{
		n,
		w,
		w + n - nw,
		n + (ne-n)/2,
	}
	var bestIdx int
	var bestErr int64 = -1
	for i, e := range st.errSum {
		if bestErr < 0 || e < bestErr {
			bestErr = e
			bestIdx = i
		}
	}
	pred := candidates[bestIdx]
	for i := range st.prevPred {
		st.prevPred[i] = candidates[i]
	}
	return pred
}

// updateWP folds the true sample value into the running per-candidate
// error totals, to be called once the residual has been added back.
func updateWP(st *wpState, actual int32) {
	for i, p := range st.prevPred {
		st.errSum[i] += int64(abs32(actual - p))
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

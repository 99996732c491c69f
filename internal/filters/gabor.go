// Package filters implements the per-frame restoration passes applied
// after the pixel grid is fully reconstructed: the Gabor-like
// smoothing convolution, the edge-preserving filter (EPF), and the
// chroma-subsampling upsampler used when a frame was encoded with
// 4:2:0-style YCbCr subsampling. Grounded on the teacher codec's
// internal/mct for its "small fixed-size convolution over a plane"
// shape, generalized to JPEG XL's three restoration stages.
package filters

// ApplyGaborish runs the 3x3 smoothing convolution over one color
// plane, per the reference decoder's gabor_row_edge/
// run_gabor_row_generic: every output sample is a weighted sum of
// itself, its four orthogonal neighbors (weight w0), and its four
// diagonal neighbors (weight w1), normalized so the kernel sums to 1.
// Missing neighbors past the plane edge are replaced by the edge
// sample itself (replicate padding), matching the original's explicit
// edge-row/edge-column special cases exactly.
func ApplyGaborish(plane []float32, width, height int, w0, w1 float32) []float32 {
	globalWeight := 1.0 / (1.0 + w0*4.0 + w1*4.0)
	padded := newEdgeGrid(plane, width, height)

	out := make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			center := padded.at(x, y)
			sumSide := padded.at(x, y-1) + padded.at(x-1, y) + padded.at(x+1, y) + padded.at(x, y+1)
			sumDiag := padded.at(x-1, y-1) + padded.at(x+1, y-1) + padded.at(x-1, y+1) + padded.at(x+1, y+1)
			out[y*width+x] = (center + sumSide*w0 + sumDiag*w1) * globalWeight
		}
	}
	return out
}

// edgeGrid is a plane with replicate-padded border reads, the padding
// scheme the Gabor-like filter's and EPF's edge handling both use.
type edgeGrid struct {
	data          []float32
	width, height int
}

func newEdgeGrid(data []float32, width, height int) *edgeGrid {
	return &edgeGrid{data: data, width: width, height: height}
}

func (g *edgeGrid) at(x, y int) float32 {
	if x < 0 {
		x = 0
	}
	if x >= g.width {
		x = g.width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= g.height {
		y = g.height - 1
	}
	return g.data[y*g.width+x]
}

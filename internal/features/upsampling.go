package features

import "math"

// Upsample applies the non-separable upsampling kernel selected by
// factor (1, 2, 4, or 8) to an already-decoded width x height plane,
// returning a new plane at frameWidth x frameHeight. Grounded on
// upsampling.rs's upsample_inner: the kernel's NW weight coefficients
// (supplied by the caller in weights, laid out like the image header's
// Up2Weights/Up4Weights/Up8Weights fields, which imageheader.Parse does
// not fill in) are expanded into K*K/4 mirrored 5x5 sub-kernels, then
// every output pixel samples its input neighborhood through the
// sub-kernel selected by its position modulo K, clamped to the
// neighborhood's own min/max to avoid ringing.
func Upsample(grid []float32, width, height int, frameWidth, frameHeight, factor int, weights []float32) []float32 {
	if factor == 1 {
		return grid
	}
	switch factor {
	case 2, 4, 8:
	default:
		return grid
	}
	return upsampleInner(grid, width, height, frameWidth, frameHeight, factor, weights)
}

func upsampleInner(grid []float32, width, height, frameWidth, frameHeight, k int, weights []float32) []float32 {
	const padding = 2
	padded := newPaddedGrid(width, height, padding)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			padded.set(x, y, grid[y*width+x])
		}
	}
	padded.mirrorEdges()

	matN := k / 2
	weightsQuarter := make([][25]float32, matN*matN)
	weightIdx := 0
	for y := 0; y < 5*matN; y++ {
		matY := y / 5
		ky := y % 5
		for x := y; x < 5*matN; x++ {
			matX := x / 5
			kx := x % 5
			if weightIdx >= len(weights) {
				break
			}
			w := weights[weightIdx]
			weightIdx++
			weightsQuarter[matY*matN+matX][ky*5+kx] = w
			weightsQuarter[matX*matN+matY][kx*5+ky] = w
		}
	}

	out := make([]float32, frameWidth*frameHeight)
	for y := 0; y < frameHeight; y++ {
		refY := y / k
		modY := y % k
		matY := modY
		if k-modY-1 < matY {
			matY = k - modY - 1
		}
		flipV := modY >= matN
		for x := 0; x < frameWidth; x++ {
			refX := x / k
			modX := x % k
			matX := modX
			if k-modX-1 < matX {
				matX = k - modX - 1
			}
			flipH := modX >= matN

			kernel := weightsQuarter[matY*matN+matX]
			var sum float32
			min := float32(math.Inf(1))
			max := float32(math.Inf(-1))
			for iy := 0; iy < 5; iy++ {
				ky := iy
				if flipV {
					ky = 4 - iy
				}
				for ix := 0; ix < 5; ix++ {
					kx := ix
					if flipH {
						kx = 4 - ix
					}
					sample := padded.at(refX+ix, refY+iy)
					sum += kernel[ky*5+kx] * sample
					if sample < min {
						min = sample
					}
					if sample > max {
						max = sample
					}
				}
			}
			if sum < min {
				sum = min
			}
			if sum > max {
				sum = max
			}
			out[y*frameWidth+x] = sum
		}
	}
	return out
}

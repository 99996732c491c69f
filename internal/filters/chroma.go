package filters

// UpsampleJpegChroma restores a chroma plane that was encoded at half
// resolution along the axes where hUpsampled/vUpsampled is false, to
// the target full width/height, per filter/ycbcr.rs's
// apply_jpeg_upsampling_single: each axis needing upsampling is
// expanded 2x with a fixed 1/4-3/4 linear taps, horizontal first (so
// the vertical pass, when also needed, works from an already
// full-width row), with the last input sample repeated once past the
// edge instead of extrapolating.
func UpsampleJpegChroma(plane []float32, srcWidth, srcHeight int, targetWidth, targetHeight int, hUpsampled, vUpsampled bool) []float32 {
	if hUpsampled && vUpsampled {
		return plane
	}

	out := make([]float32, targetWidth*targetHeight)

	if hUpsampled {
		for y := 0; y < srcHeight; y++ {
			copy(out[y*targetWidth:y*targetWidth+targetWidth], plane[y*srcWidth:(y+1)*srcWidth])
		}
	} else {
		for y := 0; y < srcHeight; y++ {
			row := plane[y*srcWidth : (y+1)*srcWidth]
			outRow := out[y*targetWidth : y*targetWidth+targetWidth]
			prev := row[0]
			for x := 0; x < srcWidth; x++ {
				curr := row[x]
				var next float32
				if x+1 < srcWidth {
					next = row[x+1]
				} else {
					next = curr
				}
				left, right := jpegUpsampleInterpolate(prev, curr, next)
				oi := x * 2
				outRow[oi] = left
				if oi+1 < targetWidth {
					outRow[oi+1] = right
				}
				prev = curr
			}
		}
	}

	if vUpsampled {
		return out
	}

	prevRow := make([]float32, targetWidth)
	copy(prevRow, out[(srcHeight-1)*targetWidth:srcHeight*targetWidth])
	for y := srcHeight - 1; y >= 0; y-- {
		idxBase := y * targetWidth
		topBase := idxBase - targetWidth
		if topBase < 0 {
			topBase = idxBase
		}
		for x := 0; x < targetWidth; x++ {
			curr := out[idxBase+x]
			bottom, top := jpegUpsampleInterpolate(prevRow[x], curr, out[topBase+x])
			out[idxBase*2+x] = top
			if y*2+1 < targetHeight {
				out[idxBase*2+targetWidth+x] = bottom
			}
			prevRow[x] = curr
		}
	}

	return out
}

func jpegUpsampleInterpolate(left, center, right float32) (float32, float32) {
	return 0.25*left + 0.75*center, 0.75*center + 0.25*right
}

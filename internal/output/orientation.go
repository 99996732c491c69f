// Package output turns a decoded frame canvas into a standard library
// image.Image: EXIF orientation correction, then packing into the
// Gray/Gray16/NRGBA/NRGBA64 type the frame's channel count and bit depth
// call for. Grounded on the teacher
// codec's decoder.go's "decode into flat per-component int32 slices,
// then createImage" final step, generalized from JPEG2000's fixed
// signed/unsigned integer sample model to JPEG XL's float32 sample
// model plus an orientation-correction stage JPEG2000 never needed.
package output

// ApplyOrientation re-orders every plane's samples per one of the 8
// EXIF orientation values (1 = identity), returning the corrected
// planes alongside their new width/height. orientation values outside
// [1,8] are treated as identity.
func ApplyOrientation(orientation uint8, planes [][]float32, width, height int) ([][]float32, int, int) {
	if orientation <= 1 || orientation > 8 {
		return planes, width, height
	}

	outW, outH := width, height
	if orientation >= 5 {
		outW, outH = height, width
	}

	out := make([][]float32, len(planes))
	for i := range planes {
		out[i] = make([]float32, width*height)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nx, ny := orientedCoord(orientation, x, y, width, height)
			for i, p := range planes {
				out[i][ny*outW+nx] = p[y*width+x]
			}
		}
	}
	return out, outW, outH
}

// orientedCoord maps a source (x, y) to its destination position for
// one EXIF orientation value, per the standard's 8-case table: 1
// identity, 2 horizontal mirror, 3 180-degree rotation, 4 vertical
// mirror, 5 transpose, 6 90-degree clockwise rotation, 7 transverse
// (mirror across the anti-diagonal), 8 270-degree clockwise rotation.
func orientedCoord(orientation uint8, x, y, w, h int) (int, int) {
	switch orientation {
	case 2:
		return w - 1 - x, y
	case 3:
		return w - 1 - x, h - 1 - y
	case 4:
		return x, h - 1 - y
	case 5:
		return y, x
	case 6:
		return h - 1 - y, x
	case 7:
		return h - 1 - y, w - 1 - x
	case 8:
		return y, w - 1 - x
	default:
		return x, y
	}
}

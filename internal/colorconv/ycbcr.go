package colorconv

// YCbCrToRGB converts one frame's Cb/Y/Cr planes (in place, ordered to
// match the bitstream's channel order) to R/G/B, per the reference
// decoder's ycbcr_to_rgb: BT.601-derived constants applied to a Y
// plane re-biased by 128/255.
func YCbCrToRGB(cb, y, cr []float32) {
	if len(cb) != len(y) || len(y) != len(cr) {
		panic("colorconv: YCbCr plane size mismatch")
	}
	for i := range cb {
		cbv := cb[i]
		yv := y[i] + 128.0/255.0
		crv := cr[i]

		r := yv + 1.402*crv
		g := yv + (-0.114*1.772/0.587)*cbv + (-0.299*1.402/0.587)*crv
		b := yv + 1.772*cbv

		cb[i] = r
		y[i] = g
		cr[i] = b
	}
}

package vardct

// ApplyChromaFromLuma adds the luma-derived correction to one already
// inverse-transformed block's spatial samples: x += (colourFactor's
// inverse) * kX * y, b += ... * kB * y, per spec.md §4.5's
// chroma-from-luma step. kX/kB are the per-64x64-pixel-tile factors
// carried in HfMetadata's x_from_y/b_from_y channels (already resolved
// from the raw modular sample plus the frame's base_correlation_* and
// x_factor_lf/b_factor_lf by ChromaFromLumaFactor); colourFactor is the
// frame's LfChannelCorrelation.ColourFactor divisor.
func ApplyChromaFromLuma(xChan, bChan, yChan []float32, w, h int, kX, kB float32, colourFactor uint32) {
	cf := float32(colourFactor)
	if cf == 0 {
		cf = 1
	}
	for i := 0; i < w*h; i++ {
		xChan[i] += kX / cf * yChan[i]
		bChan[i] += kB / cf * yChan[i]
	}
}

// ChromaFromLumaFactor converts one 8-bit signed x_from_y/b_from_y
// modular sample plus the frame's base correlation and factor-lf
// parameters into the per-tile multiplicative factor applied by
// ApplyChromaFromLuma.
func ChromaFromLumaFactor(sample int32, base float32, factorLf uint32) float32 {
	return base + float32(sample)/float32(factorLf)
}

package modular

import "github.com/jxlcore/jxl/internal/xerr"

// deltaPalette is the fixed 72-entry delta-color table used to
// synthesize palette entries with negative indices, ported verbatim
// from the reference decoder's palette.rs DELTA_PALETTE constant.
var deltaPalette = [72][3]int32{
	{0, 0, 0}, {4, 4, 4}, {11, 0, 0}, {0, 0, -13}, {0, -12, 0}, {-10, -10, -10},
	{-18, -18, -18}, {-27, -27, -27}, {-18, -18, 0}, {0, 0, -32}, {-32, 0, 0}, {-37, -37, -37},
	{0, -32, -32}, {24, 24, 45}, {50, 50, 50}, {-45, -24, -24}, {-24, -45, -45}, {0, -24, -24},
	{-34, -34, 0}, {-24, 0, -24}, {-45, -45, -24}, {64, 64, 64}, {-32, 0, -32}, {0, -32, 0},
	{-32, 0, 32}, {-24, -45, -24}, {45, 24, 45}, {24, -24, -45}, {-45, -24, 24}, {80, 80, 80},
	{64, 0, 0}, {0, 0, -64}, {0, -64, -64}, {-24, -24, 45}, {96, 96, 96}, {64, 64, 0},
	{45, -24, -24}, {34, -34, 0}, {112, 112, 112}, {24, -45, -45}, {45, 45, -24}, {0, -32, 32},
	{24, -24, 45}, {0, 96, 96}, {45, -24, 24}, {24, -45, -24}, {-24, -45, 24}, {0, -64, 0},
	{96, 0, 0}, {128, 128, 128}, {64, 0, 64}, {144, 144, 144}, {96, 96, 0}, {-36, -36, 36},
	{45, -24, -45}, {45, -45, -24}, {0, 0, -96}, {0, 128, 128}, {0, 96, 0}, {45, 24, -45},
	{-128, 0, 0}, {24, -45, 24}, {-45, 24, -45}, {64, 0, -64}, {64, -64, -64}, {96, 0, 96},
	{45, -45, 24}, {24, 45, -45}, {64, 64, -64}, {128, 128, 0}, {0, 0, -128}, {-24, 45, -45},
}

// PaletteParams configures one Palette transform: a meta-channel of
// indices at channelBase, expanding into numColorChannels target
// channels, with a palette table [nbColours][numColorChannels] and
// nbDeltas rows of it produced by delta-prediction rather than lookup.
type PaletteParams struct {
	ChannelBase      int
	NumColorChannels int
	NbColours        int32
	NbDeltas         int32
	BitDepth         uint32
	DeltaPredictor   Predictor
	Palette          [][]int32 // [nbColours][numColorChannels]
}

// ApplyInversePalette expands the index channel at p.ChannelBase back
// into p.NumColorChannels color channels, per spec.md §4.4: lookup for
// indices in [0, nbColours); synthetic-band formulas for indices
// >= nbColours; delta-predicted synthesis from DELTA_PALETTE for
// indices < 0.
func ApplyInversePalette(img *Image, p PaletteParams) error {
	if p.ChannelBase+p.NumColorChannels > len(img.Channels) {
		return xerr.New(xerr.InvalidPaletteParams, "palette channel range exceeds channel count")
	}
	indexChan := img.Channels[p.ChannelBase]
	w, h := indexChan.Width, indexChan.Height

	targets := make([]*Channel, p.NumColorChannels)
	for c := 0; c < p.NumColorChannels; c++ {
		targets[c] = NewChannel(w, h, indexChan.HShift, indexChan.VShift)
	}

	type deltaSite struct{ x, y int }
	var deltaSites []deltaSite

	bitDepth := int32(p.BitDepth)
	maxVal := (int32(1) << uint(bitDepth)) - 1

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			index := indexChan.at(x, y)
			switch {
			case index >= 0 && index < p.NbColours:
				if int(index) >= len(p.Palette) {
					return xerr.Newf(xerr.InvalidPaletteParams, "palette index %d exceeds table size", index)
				}
				row := p.Palette[index]
				for c := 0; c < p.NumColorChannels; c++ {
					targets[c].set(x, y, row[c])
				}
			case index >= p.NbColours:
				idx := index - p.NbColours
				if idx < 64 {
					for c := 0; c < p.NumColorChannels; c++ {
						v := ((idx >> uint(2*c)) % 4) * maxVal / 4
						v += int32(1) << uint(max0(int(bitDepth)-3))
						targets[c].set(x, y, v)
					}
				} else {
					idx -= 64
					for c := 0; c < p.NumColorChannels; c++ {
						targets[c].set(x, y, (idx%5)*maxVal/4)
						idx /= 5
					}
				}
			default:
				if index < p.NbDeltas {
					deltaSites = append(deltaSites, deltaSite{x, y})
				}
				negIdx := -(index + 1)
				negIdx = negIdx % 143
				row := deltaPalette[(negIdx+1)>>1]
				for c := 0; c < p.NumColorChannels; c++ {
					if c >= 3 {
						targets[c].set(x, y, 0)
						continue
					}
					v := row[c]
					if negIdx&1 == 0 {
						v = -v
					}
					if bitDepth > 8 {
						shift := bitDepth
						if shift > 24 {
							shift = 24
						}
						v <<= uint(shift - 8)
					}
					targets[c].set(x, y, v)
				}
			}
		}
	}

	if len(deltaSites) > 0 {
		for c := 0; c < p.NumColorChannels; c++ {
			wp := newWPState()
			siteIdx := 0
			for y := 0; y < h; y++ {
				wp.prevPred = [4]int32{}
				for x := 0; x < w; x++ {
					if siteIdx < len(deltaSites) && deltaSites[siteIdx] == (deltaSite{x, y}) {
						diff := predict(targets[c], x, y, p.DeltaPredictor, wp)
						targets[c].set(x, y, targets[c].at(x, y)+diff)
						siteIdx++
					}
				}
			}
		}
	}

	newChannels := make([]*Channel, 0, len(img.Channels)-1+p.NumColorChannels)
	newChannels = append(newChannels, img.Channels[:p.ChannelBase]...)
	newChannels = append(newChannels, targets...)
	newChannels = append(newChannels, img.Channels[p.ChannelBase+1:]...)
	img.Channels = newChannels
	return nil
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

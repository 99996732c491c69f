// Package features implements the per-frame rendering extras layered
// on top of the core pixel grid: synthetic noise, patches (reference-
// frame stamping), splines, and the upsampling kernels used when a
// frame's samples were encoded below the image's full resolution.
// Grounded on the teacher codec's internal/mct for its "precompute a
// fixed small matrix/LUT, then stream it over every pixel" shape,
// generalized to JPEG XL's per-feature bitstream parameters.
package features

import (
	"math"

	"github.com/jxlcore/jxl/internal/bitio"
)

// NoiseParams is the frame's 8-entry noise strength lookup table, per
// the reference decoder's NoiseParameters bundle.
type NoiseParams struct {
	Lut [8]float32
}

// ParseNoiseParams reads the 8 10-bit fixed-point LUT entries.
func ParseNoiseParams(br *bitio.Reader) (*NoiseParams, error) {
	var p NoiseParams
	for i := range p.Lut {
		v, err := br.Read(10)
		if err != nil {
			return nil, err
		}
		p.Lut[i] = float32(v) / float32(1<<10)
	}
	return &p, nil
}

const noiseRngLanes = 8

// xorShift128Plus is the reference decoder's 8-lane XorShift128+
// generator, seeded per noise group from the frame's visible/invisible
// frame counters and the group's pixel origin, ported verbatim from
// noise.rs's XorShift128Plus (minus its SIMD batching, kept as a plain
// per-lane loop).
type xorShift128Plus struct {
	s0, s1 [noiseRngLanes]uint64
}

func newXorShift128Plus(seed0, seed1 uint64) *xorShift128Plus {
	var r xorShift128Plus
	r.s0[0] = splitMix64(seed0 + 0x9E3779B97F4A7C15)
	r.s1[0] = splitMix64(seed1 + 0x9E3779B97F4A7C15)
	for i := 1; i < noiseRngLanes; i++ {
		r.s0[i] = splitMix64(r.s0[i-1])
		r.s1[i] = splitMix64(r.s1[i-1])
	}
	return &r
}

func splitMix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// nextU32Bits produces 16 successive 32-bit words, two per lane, per
// noise.rs's get_u32_bits.
func (r *xorShift128Plus) nextU32Bits() [noiseRngLanes * 2]uint32 {
	var bits [noiseRngLanes * 2]uint32
	for i := 0; i < noiseRngLanes; i++ {
		s1 := r.s0[i]
		s0 := r.s1[i]
		l := s1 + s0
		r.s0[i] = s0
		s1 ^= s1 << 23
		r.s1[i] = s1 ^ (s0 ^ (s1 >> 18) ^ (s0 >> 5))
		bits[i*2] = uint32(l)
		bits[i*2+1] = uint32(l >> 32)
	}
	return bits
}

func rngSeed0(visibleFrames, invisibleFrames uint64) uint64 {
	return (visibleFrames << 32) + invisibleFrames
}

func rngSeed1(x0, y0 uint64) uint64 {
	return (x0 << 32) + y0
}

// fixedBitsToFloat reinterprets the top 23 mantissa bits of a raw RNG
// word as a float32 in [1, 2), matching noise.rs's
// f32::from_bits(bits >> 9 | 0x3F800000).
func fixedBitsToFloat(bits uint32) float32 {
	return math.Float32frombits(bits>>9 | 0x3F800000)
}

var laplacianKernel = [5][5]float32{
	{0.16, 0.16, 0.16, 0.16, 0.16},
	{0.16, 0.16, 0.16, 0.16, 0.16},
	{0.16, 0.16, -3.84, 0.16, 0.16},
	{0.16, 0.16, 0.16, 0.16, 0.16},
	{0.16, 0.16, 0.16, 0.16, 0.16},
}

// InitNoise generates the full-frame 3-channel synthetic noise planes,
// per noise.rs's init_noise: seed a per-group XorShift128+ stream from
// the group's pixel origin and the frame's visible/invisible frame
// counters, fill each group with raw [1,2)-biased floats, mirror-pad
// the edges, then convolve the whole frame with a fixed 5x5 Laplacian
// kernel per channel.
func InitNoise(visibleFrames, invisibleFrames uint64, width, height, groupDim int) [3][]float32 {
	seed0 := rngSeed0(visibleFrames, invisibleFrames)
	padding := 2

	raw := [3]*paddedGrid{
		newPaddedGrid(width, height, padding),
		newPaddedGrid(width, height, padding),
		newPaddedGrid(width, height, padding),
	}

	groupsPerRow := ceilDiv(width, groupDim)
	groupsNum := groupsPerRow * ceilDiv(height, groupDim)

	for groupIdx := 0; groupIdx < groupsNum; groupIdx++ {
		gx := groupIdx % groupsPerRow
		gy := groupIdx / groupsPerRow
		x0 := gx * groupDim
		y0 := gy * groupDim
		initNoiseGroup(seed0, raw, x0, y0, width, height, groupDim)
	}

	for _, g := range raw {
		g.mirrorEdges()
	}

	var convolved [3][]float32
	for c := 0; c < 3; c++ {
		out := make([]float32, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				var sum float32
				for iy := 0; iy < 5; iy++ {
					for ix := 0; ix < 5; ix++ {
						cy := y + iy - 2
						cx := x + ix - 2
						sum += raw[c].at(cx, cy) * laplacianKernel[iy][ix]
					}
				}
				out[y*width+x] = sum
			}
		}
		convolved[c] = out
	}
	return convolved
}

func initNoiseGroup(seed0 uint64, buf [3]*paddedGrid, x0, y0, width, height, groupDim int) {
	xsize := groupDim
	if width-x0 < xsize {
		xsize = width - x0
	}
	ysize := groupDim
	if height-y0 < ysize {
		ysize = height - y0
	}
	if xsize <= 0 || ysize <= 0 {
		return
	}

	seed1 := rngSeed1(uint64(x0), uint64(y0))
	rng := newXorShift128Plus(seed0, seed1)

	for _, channel := range buf {
		for y := 0; y < ysize; y++ {
			for x := 0; x < xsize; x += noiseRngLanes * 2 {
				bits := rng.nextU32Bits()
				for i := 0; i < noiseRngLanes*2; i++ {
					if x+i >= xsize {
						break
					}
					channel.set(x0+x+i, y0+y, fixedBitsToFloat(bits[i]))
				}
			}
		}
	}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

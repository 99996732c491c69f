package features

import (
	"math"
	"testing"

	"github.com/jxlcore/jxl/internal/bitio"
)

func TestParseNoiseParamsReadsEightLutEntries(t *testing.T) {
	// Eight 10-bit fields, each set to 512 (= 0.5 after scaling).
	br := bitio.NewReader(bitsWriter(512, 8, 10))
	p, err := ParseNoiseParams(br)
	if err != nil {
		t.Fatalf("ParseNoiseParams: %v", err)
	}
	for i, v := range p.Lut {
		if v != 0.5 {
			t.Fatalf("Lut[%d] = %v, want 0.5", i, v)
		}
	}
}

// bitsWriter packs n copies of value (width bits each, LSB-first, matching
// bitio.Reader's little-endian bit order) into a byte slice.
func bitsWriter(value uint64, n, width int) []byte {
	var bitsOut []byte
	var cur byte
	var curLen uint
	push := func(bit byte) {
		cur |= bit << curLen
		curLen++
		if curLen == 8 {
			bitsOut = append(bitsOut, cur)
			cur = 0
			curLen = 0
		}
	}
	for i := 0; i < n; i++ {
		for b := 0; b < width; b++ {
			push(byte((value >> uint(b)) & 1))
		}
	}
	if curLen > 0 {
		bitsOut = append(bitsOut, cur)
	}
	return bitsOut
}

func TestSplitMix64IsDeterministic(t *testing.T) {
	a := splitMix64(12345)
	b := splitMix64(12345)
	if a != b {
		t.Fatal("splitMix64 is not deterministic for the same input")
	}
	if a == splitMix64(54321) {
		t.Fatal("splitMix64 produced the same output for different inputs")
	}
}

func TestFixedBitsToFloatIsAlwaysInOneToTwoRange(t *testing.T) {
	cases := []uint32{0, 1, 0xFFFFFFFF, 0x12345678}
	for _, bits := range cases {
		v := fixedBitsToFloat(bits)
		if v < 1 || v >= 2 {
			t.Fatalf("fixedBitsToFloat(%#x) = %v, want in [1, 2)", bits, v)
		}
		if math.IsNaN(float64(v)) {
			t.Fatalf("fixedBitsToFloat(%#x) produced NaN", bits)
		}
	}
}

func TestRngSeedsCombineCounters(t *testing.T) {
	if rngSeed0(1, 2) == rngSeed0(2, 1) {
		t.Fatal("rngSeed0 should depend on argument order")
	}
	if rngSeed1(3, 4) == rngSeed1(4, 3) {
		t.Fatal("rngSeed1 should depend on argument order")
	}
}

func TestInitNoiseProducesThreeFullSizePlanes(t *testing.T) {
	planes := InitNoise(0, 0, 9, 7, 4)
	for c, plane := range planes {
		if len(plane) != 9*7 {
			t.Fatalf("plane %d len = %d, want %d", c, len(plane), 9*7)
		}
	}
}

func TestInitNoiseIsDeterministicForSameSeed(t *testing.T) {
	a := InitNoise(3, 5, 8, 8, 4)
	b := InitNoise(3, 5, 8, 8, 4)
	for c := range a {
		for i := range a[c] {
			if a[c][i] != b[c][i] {
				t.Fatalf("channel %d sample %d differs across identical calls: %v vs %v", c, i, a[c][i], b[c][i])
			}
		}
	}
}

func TestCeilDiv(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{8, 4, 2}, {9, 4, 3}, {1, 4, 1}, {0, 4, 0},
	}
	for _, c := range cases {
		if got := ceilDiv(c.a, c.b); got != c.want {
			t.Fatalf("ceilDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

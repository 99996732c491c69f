package jxl

import (
	"bytes"
	"testing"
)

// FuzzDecode tests the decoder with arbitrary input data.
// Run with: go test -fuzz=FuzzDecode -fuzztime=60s
func FuzzDecode(f *testing.F) {
	// Bare codestream signature alone.
	f.Add([]byte{0xFF, 0x0A})

	// Full 12-byte container signature alone.
	f.Add([]byte{0x00, 0x00, 0x00, 0x0C, 'J', 'X', 'L', ' ', 0x0D, 0x0A, 0x87, 0x0A})

	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		// The decoder should never panic, regardless of input.
		r := bytes.NewReader(data)
		_, _ = Decode(r)
	})
}

// FuzzDecodeConfig tests configuration parsing with arbitrary input.
func FuzzDecodeConfig(f *testing.F) {
	f.Add([]byte{0xFF, 0x0A})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		r := bytes.NewReader(data)
		_, _ = DecodeConfig(r)
	})
}

// FuzzDecodeMetadata tests metadata extraction with arbitrary input.
func FuzzDecodeMetadata(f *testing.F) {
	f.Add([]byte{0xFF, 0x0A})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		r := bytes.NewReader(data)
		_, _ = DecodeMetadata(r)
	})
}

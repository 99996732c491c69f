package bitio

import (
	"testing"

	"github.com/jxlcore/jxl/internal/xerr"
)

func TestReadBasic(t *testing.T) {
	// 0b1011_0101 little-endian: bit0 is LSB of first byte.
	r := NewReader([]byte{0b1011_0101})
	v, err := r.Read(4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0b0101 {
		t.Fatalf("got %#b, want 0b0101", v)
	}
	v, err = r.Read(4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0b1011 {
		t.Fatalf("got %#b, want 0b1011", v)
	}
}

func TestReadAcrossBytes(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x0F})
	v, err := r.Read(12)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFFF {
		t.Fatalf("got %#x, want 0xfff", v)
	}
}

func TestUnexpectedEof(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.Read(32); err == nil {
		t.Fatal("expected error")
	} else if !xerr.Is(err, xerr.UnexpectedEof) {
		t.Fatalf("wrong kind: %v", err)
	}
}

func TestZeroPadToByte(t *testing.T) {
	r := NewReader([]byte{0b0000_0101})
	if _, err := r.Read(3); err != nil {
		t.Fatal(err)
	}
	if err := r.ZeroPadToByte(); err != nil {
		t.Fatalf("expected clean padding, got %v", err)
	}

	r2 := NewReader([]byte{0b0010_0101})
	if _, err := r2.Read(3); err != nil {
		t.Fatal(err)
	}
	if err := r2.ZeroPadToByte(); err == nil || !xerr.Is(err, xerr.NonZeroPadding) {
		t.Fatalf("expected NonZeroPadding, got %v", err)
	}
}

func TestZeroPadToByteNoOpAtBoundary(t *testing.T) {
	r := NewReader([]byte{0xAB, 0xCD})
	if _, err := r.Read(8); err != nil {
		t.Fatal(err)
	}
	if err := r.ZeroPadToByte(); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	v, err := r.Read(8)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xCD {
		t.Fatalf("padding consumed bits it should not have: got %#x", v)
	}
}

func TestReadU32(t *testing.T) {
	c0 := U32Config{Offset: 0, Bits: 0}
	c1 := U32Config{Offset: 1, Bits: 0}
	c2 := U32Config{Offset: 2, Bits: 4}
	c3 := U32Config{Offset: 18, Bits: 8}

	// selector=2 (bits 10), then 4-bit payload 0b1010 -> 2+10=12
	r := NewReader([]byte{0b1010_10_10})
	v, err := r.ReadU32(c0, c1, c2, c3)
	if err != nil {
		t.Fatal(err)
	}
	if v != 12 {
		t.Fatalf("got %d, want 12", v)
	}
}

func TestReadU64Selectors(t *testing.T) {
	// selector 0 -> 0
	r := NewReader([]byte{0b00})
	v, err := r.ReadU64()
	if err != nil || v != 0 {
		t.Fatalf("got %d, %v", v, err)
	}

	// selector 1 (01), then u(4)=0b0011 -> 3+1=4
	r2 := NewReader([]byte{0b0011_01})
	v, err = r2.ReadU64()
	if err != nil || v != 4 {
		t.Fatalf("got %d, %v", v, err)
	}
}

func TestReadF16Simple(t *testing.T) {
	// 1.0 in half precision: sign=0 exp=15(01111) frac=0 -> bits 0x3C00
	// little-endian within the bitstream: low bit first.
	r := NewReader([]byte{0x00, 0x3C})
	f, err := r.ReadF16()
	if err != nil {
		t.Fatal(err)
	}
	if f != 1.0 {
		t.Fatalf("got %v, want 1.0", f)
	}
}

func TestReadF16Infinity(t *testing.T) {
	r := NewReader([]byte{0x00, 0x7C})
	if _, err := r.ReadF16(); err == nil || !xerr.Is(err, xerr.InvalidFloat) {
		t.Fatalf("expected InvalidFloat, got %v", err)
	}
}

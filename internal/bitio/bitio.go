// Package bitio provides the little-endian, bit-packed reader the rest of
// the decoder is built on: a borrowed byte window, a 64-bit staging word,
// and a count of valid bits in that word, refilled lazily the way the
// teacher codec's internal/bio.Reader refills its single staging byte.
package bitio

import (
	"math"

	"github.com/jxlcore/jxl/internal/xerr"
)

// Reader reads little-endian bit-packed primitives from a byte slice it
// does not own. After a refill the staging word holds at least 56 valid
// bits whenever source bytes remain, so reads of up to 32 bits never need
// more than one refill.
type Reader struct {
	buf   []byte
	pos   int    // next unread byte in buf
	stage uint64 // staging word; valid bits are the low `nbits` bits
	nbits uint   // number of valid bits currently in stage
}

// NewReader wraps buf for bit-level reading starting at bit 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// refill tops up the staging word with as many whole bytes as fit,
// stopping when the source is exhausted.
func (r *Reader) refill() {
	for r.nbits <= 56 && r.pos < len(r.buf) {
		r.stage |= uint64(r.buf[r.pos]) << r.nbits
		r.pos++
		r.nbits += 8
	}
}

// BitsRemaining reports the number of bits still available to read.
func (r *Reader) BitsRemaining() int64 {
	return int64(r.nbits) + int64(len(r.buf)-r.pos)*8
}

// Peek returns the next n (0-32) bits without consuming them.
func (r *Reader) Peek(n uint) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 32 {
		panic("bitio: Peek width > 32")
	}
	if r.nbits < n {
		r.refill()
	}
	if r.nbits < n {
		return 0, xerr.New(xerr.UnexpectedEof, "peek past end of bitstream")
	}
	mask := uint64(1)<<n - 1
	return uint32(r.stage & mask), nil
}

// Consume discards n (<=32) already-peeked bits.
func (r *Reader) Consume(n uint) {
	r.stage >>= n
	r.nbits -= n
}

// Read reads and consumes n (0-32) bits, LSB-first.
func (r *Reader) Read(n uint) (uint32, error) {
	v, err := r.Peek(n)
	if err != nil {
		return 0, err
	}
	r.Consume(n)
	return v, nil
}

// Skip discards n bits without returning their value.
func (r *Reader) Skip(n uint) error {
	for n > 32 {
		if _, err := r.Read(32); err != nil {
			return xerr.Wrap(xerr.UnexpectedEof, err, "skip")
		}
		n -= 32
	}
	if n == 0 {
		return nil
	}
	_, err := r.Read(n)
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "skip")
	}
	return nil
}

// ReadBool reads a single bit as a bool.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.Read(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// BytePos returns the absolute byte offset into the wrapped buffer of the
// reader's current position. Only meaningful when called at a
// byte-aligned point (immediately after ZeroPadToByte, or before any
// reads), since it truncates any partially-consumed trailing byte still
// staged.
func (r *Reader) BytePos() int {
	return r.pos - int(r.nbits/8)
}

// ZeroPadToByte consumes the bits remaining up to the next byte boundary
// and asserts they are all zero.
func (r *Reader) ZeroPadToByte() error {
	// The staging word is always refilled whole-byte-at-a-time from a
	// byte-aligned source, so its valid-bit count mod 8 is exactly the
	// number of bits left before the next source byte boundary.
	n := r.nbits % 8
	if n == 0 {
		return nil
	}
	v, err := r.Read(n)
	if err != nil {
		return xerr.Wrap(xerr.UnexpectedEof, err, "zero_pad_to_byte")
	}
	if v != 0 {
		return xerr.Newf(xerr.NonZeroPadding, "non-zero padding bits: %#x", v)
	}
	return nil
}

// U32Config describes one of the four selector-indexed cases of the U32
// primitive: a k-bit raw value added to a constant offset.
type U32Config struct {
	Offset uint32
	Bits   uint
}

// ReadU32 reads a 2-bit selector then the configured literal or
// offset+u(k) form for that selector, per spec.md §4.1.
func (r *Reader) ReadU32(c0, c1, c2, c3 U32Config) (uint32, error) {
	sel, err := r.Read(2)
	if err != nil {
		return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U32 selector")
	}
	cfgs := [4]U32Config{c0, c1, c2, c3}
	cfg := cfgs[sel]
	if cfg.Bits == 0 {
		return cfg.Offset, nil
	}
	raw, err := r.Read(cfg.Bits)
	if err != nil {
		return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U32 payload")
	}
	return cfg.Offset + raw, nil
}

// ReadU64 reads the U64 varint form from spec.md §4.1: selector 0 -> 0;
// 1 -> u(4)+1; 2 -> u(8)+17; 3 -> repeated 12-then-8-bit continuation
// chunks up to 64 bits.
func (r *Reader) ReadU64() (uint64, error) {
	sel, err := r.Read(2)
	if err != nil {
		return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U64 selector")
	}
	switch sel {
	case 0:
		return 0, nil
	case 1:
		v, err := r.Read(4)
		if err != nil {
			return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U64 case 1")
		}
		return uint64(v) + 1, nil
	case 2:
		v, err := r.Read(8)
		if err != nil {
			return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U64 case 2")
		}
		return uint64(v) + 17, nil
	default:
		v, err := r.Read(12)
		if err != nil {
			return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U64 case 3 first chunk")
		}
		value := uint64(v)
		shift := uint(12)
		for {
			cont, err := r.ReadBool()
			if err != nil {
				return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U64 continuation bit")
			}
			if !cont {
				break
			}
			if shift >= 64 {
				return 0, xerr.New(xerr.InvalidIntegerConfig, "U64 overflowed 64 bits")
			}
			chunkBits := uint(8)
			if 64-shift < chunkBits {
				chunkBits = 64 - shift
			}
			chunk, err := r.Read(chunkBits)
			if err != nil {
				return 0, xerr.Wrap(xerr.UnexpectedEof, err, "U64 continuation chunk")
			}
			value |= uint64(chunk) << shift
			shift += chunkBits
		}
		return value, nil
	}
}

// ReadF16 reads 16 raw bits and decodes them as an IEEE-754 half-precision
// float, widened to float32. NaN and Infinity are rejected.
func (r *Reader) ReadF16() (float32, error) {
	bits, err := r.Read(16)
	if err != nil {
		return 0, xerr.Wrap(xerr.UnexpectedEof, err, "F16")
	}
	sign := uint32(bits>>15) & 1
	exp := uint32(bits>>10) & 0x1f
	frac := uint32(bits) & 0x3ff

	if exp == 0x1f {
		return 0, xerr.Newf(xerr.InvalidFloat, "F16 bits %#04x are NaN/Inf", bits)
	}

	var f32bits uint32
	if exp == 0 {
		if frac == 0 {
			f32bits = sign << 31
		} else {
			// Subnormal half: normalize into a normal float32.
			e := -1
			for frac&0x400 == 0 {
				frac <<= 1
				e--
			}
			frac &= 0x3ff
			exp32 := uint32(int32(e) + 127 - 15 + 2)
			f32bits = (sign << 31) | (exp32 << 23) | (frac << 13)
		}
	} else {
		exp32 := exp - 15 + 127
		f32bits = (sign << 31) | (exp32 << 23) | (frac << 13)
	}
	return math.Float32frombits(f32bits), nil
}

// Package container implements the ISO-BMFF-derived box framing that may
// wrap a JPEG XL codestream, following the same box-reader shape as the
// teacher codec's internal/box package (a Reader pulling (type, size,
// contents) triples off a byte stream) adapted to JXL's box tags and the
// jxlc/jxlp codestream-reassembly rule.
package container

import (
	"encoding/binary"

	"github.com/jxlcore/jxl/internal/xerr"
)

// Type is a 4-byte box type code, printed as its ASCII tag.
type Type [4]byte

func (t Type) String() string { return string(t[:]) }

var (
	TypeJXL               = Type{'J', 'X', 'L', ' '}
	TypeFileType          = Type{'f', 't', 'y', 'p'}
	TypeLevel             = Type{'j', 'x', 'l', 'l'}
	TypeJUMBF             = Type{'j', 'u', 'm', 'b'}
	TypeExif              = Type{'E', 'x', 'i', 'f'}
	TypeXML               = Type{'x', 'm', 'l', ' '}
	TypeBrotli            = Type{'b', 'r', 'o', 'b'}
	TypeFrameIndex        = Type{'j', 'x', 'l', 'i'}
	TypeCodestream        = Type{'j', 'x', 'l', 'c'}
	TypePartialCodestream = Type{'j', 'x', 'l', 'p'}
	TypeJPEGReconstruct   = Type{'j', 'b', 'r', 'd'}
)

// Signature is the 12-byte preamble that marks a container (as opposed to
// a bare codestream, which instead starts with the 2-byte BareSignature).
var Signature = [12]byte{0x00, 0x00, 0x00, 0x0C, 'J', 'X', 'L', ' ', 0x0D, 0x0A, 0x87, 0x0A}

// BareSignature is the 2-byte marker of a bare (unboxed) codestream.
var BareSignature = [2]byte{0xFF, 0x0A}

// Box is one parsed box: its type and its contents (header excluded).
type Box struct {
	Type     Type
	Contents []byte
}

// AuxBox is a non-codestream box surfaced to the application unmodified.
type AuxBox struct {
	Type     Type
	Contents []byte
}

// Assembled is the result of parsing a full container.
type Assembled struct {
	Codestream []byte
	Aux        []AuxBox
	IsJXL      bool // true if ftyp's compatible-brand list contained "jxl "
}

// IsBareCodestream reports whether data begins with the bare codestream
// signature FF 0A.
func IsBareCodestream(data []byte) bool {
	return len(data) >= 2 && data[0] == BareSignature[0] && data[1] == BareSignature[1]
}

// IsContainer reports whether data begins with the 12-byte container
// preamble.
func IsContainer(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	for i, b := range Signature {
		if data[i] != b {
			return false
		}
	}
	return true
}

// reader walks box headers out of an in-memory byte slice.
type reader struct {
	data []byte
	pos  int
}

// readHeader parses one box header, returning the box type, its content
// length (nil meaning "to EOF"), and the number of header bytes consumed.
// Mirrors the two pattern-matched shapes (8-byte vs 16-byte extended
// length) the reference decoder's box_header.rs distinguishes.
func (r *reader) readHeader() (Type, *uint64, int, error) {
	if len(r.data)-r.pos < 8 {
		return Type{}, nil, 0, xerr.New(xerr.InvalidBox, "truncated box header")
	}
	sbox := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	var t Type
	copy(t[:], r.data[r.pos+4:r.pos+8])

	if sbox == 1 {
		if len(r.data)-r.pos < 16 {
			return Type{}, nil, 0, xerr.New(xerr.InvalidBox, "truncated extended box header")
		}
		xlbox := binary.BigEndian.Uint64(r.data[r.pos+8 : r.pos+16])
		if xlbox < 16 {
			return Type{}, nil, 0, xerr.New(xerr.InvalidBox, "extended box size too small")
		}
		size := xlbox - 16
		return t, &size, 16, nil
	}
	if sbox == 0 {
		return t, nil, 8, nil
	}
	if sbox < 8 {
		return Type{}, nil, 0, xerr.New(xerr.InvalidBox, "box size too small")
	}
	size := uint64(sbox - 8)
	return t, &size, 8, nil
}

// Parse walks every box in data and reassembles the logical codestream
// from jxlc (single) or jxlp (ordered, index-tagged partial) boxes.
func Parse(data []byte) (*Assembled, error) {
	if !IsContainer(data) {
		return nil, xerr.New(xerr.InvalidBox, "missing container signature")
	}
	r := &reader{data: data, pos: len(Signature[:])}

	result := &Assembled{}
	var jxlcSeen bool
	var jxlp []partialChunk
	var sawTerminalJxlp bool

	for r.pos < len(r.data) {
		t, size, headerLen, err := r.readHeader()
		if err != nil {
			return nil, err
		}
		r.pos += headerLen

		var contentLen int
		if size == nil {
			contentLen = len(r.data) - r.pos
		} else {
			contentLen = int(*size)
		}
		if contentLen < 0 || r.pos+contentLen > len(r.data) {
			return nil, xerr.New(xerr.InvalidBox, "box contents run past end of stream")
		}
		contents := r.data[r.pos : r.pos+contentLen]
		r.pos += contentLen

		switch t {
		case TypeFileType:
			result.IsJXL = parseFtyp(contents)
		case TypeCodestream:
			if jxlcSeen || len(jxlp) > 0 {
				return nil, xerr.New(xerr.InvalidBox, "jxlc box combined with another codestream box")
			}
			jxlcSeen = true
			result.Codestream = append(result.Codestream, contents...)
		case TypePartialCodestream:
			if jxlcSeen {
				return nil, xerr.New(xerr.InvalidBox, "jxlp box combined with jxlc box")
			}
			if sawTerminalJxlp {
				return nil, xerr.New(xerr.InvalidBox, "jxlp box after terminal partial index")
			}
			if len(contents) < 4 {
				return nil, xerr.New(xerr.InvalidBox, "jxlp box missing 4-byte index")
			}
			rawIdx := binary.BigEndian.Uint32(contents[:4])
			isLast := rawIdx&0x8000_0000 != 0
			idx := rawIdx &^ 0x8000_0000
			jxlp = append(jxlp, partialChunk{index: idx, payload: contents[4:]})
			if isLast {
				sawTerminalJxlp = true
			}
		default:
			result.Aux = append(result.Aux, AuxBox{Type: t, Contents: contents})
		}
	}

	if len(jxlp) > 0 {
		assembled, err := assembleJxlp(jxlp)
		if err != nil {
			return nil, err
		}
		result.Codestream = assembled
	}

	return result, nil
}

type partialChunk struct {
	index   uint32
	payload []byte
}

// assembleJxlp concatenates jxlp payloads in box order, requiring the
// indices to run 0, 1, 2, ... with no gap or repeat.
func assembleJxlp(chunks []partialChunk) ([]byte, error) {
	var out []byte
	var expected uint32
	for _, c := range chunks {
		if c.index != expected {
			return nil, xerr.Newf(xerr.InvalidBox, "jxlp index %d out of sequence, expected %d", c.index, expected)
		}
		out = append(out, c.payload...)
		expected++
	}
	return out, nil
}

// parseFtyp reports whether the ftyp box's compatible-brand list contains
// "jxl ".
func parseFtyp(contents []byte) bool {
	if len(contents) < 8 {
		return false
	}
	for i := 8; i+4 <= len(contents); i += 4 {
		if string(contents[i:i+4]) == "jxl " {
			return true
		}
	}
	return false
}

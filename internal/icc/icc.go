// Package icc reverses the ICC-profile predictive coding used to embed
// an ICC profile directly in the codestream, verifying the decoded
// length against the declared size.
package icc

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

// Command selects how the next run of output bytes is produced.
type command uint8

const (
	cmdLiteral command = iota // one literal byte, read as a single entropy token
	cmdSame                   // repeat the previous byte N times
	cmdPredict                // one byte: the byte (distance) positions back plus a residual token
)

const (
	ctxCommand = 0
	ctxLength  = 1
	ctxByte    = 2
	ctxDistance = 3
	numContexts = 4
)

// Decode reverses the predictive coding of an embedded ICC profile.
// declaredSize is the profile's own size field (the first bytes decoded
// from the stream, per spec.md's ICC decoder responsibility of
// "verifies output size"). A stream that ends before producing
// declaredSize bytes - the legacy-corpus truncation spec.md §9 calls
// out - is reported as InvalidIccStream rather than silently accepted.
func Decode(br *bitio.Reader) ([]byte, error) {
	declaredSize, err := br.ReadU64()
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidIccStream, err, "declared size")
	}
	if declaredSize == 0 {
		return nil, xerr.New(xerr.InvalidIccStream, "declared ICC size is zero")
	}
	if declaredSize > 1<<28 {
		return nil, xerr.Newf(xerr.InvalidIccStream, "declared ICC size %d implausibly large", declaredSize)
	}

	dec, err := coding.NewDecoder(br, numContexts, 8)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidIccStream, err, "entropy stream header")
	}

	out := make([]byte, 0, declaredSize)
	for uint64(len(out)) < declaredSize {
		cmdTok, err := dec.ReadSymbol(ctxCommand)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidIccStream, err, "command token")
		}
		switch command(cmdTok) {
		case cmdLiteral:
			b, err := dec.ReadSymbol(ctxByte)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidIccStream, err, "literal byte")
			}
			out = append(out, byte(b))
		case cmdSame:
			lenTok, err := dec.ReadSymbol(ctxLength)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidIccStream, err, "repeat length")
			}
			if len(out) == 0 {
				return nil, xerr.New(xerr.InvalidIccStream, "repeat command with no preceding byte")
			}
			prev := out[len(out)-1]
			for i := uint32(0); i < lenTok+1; i++ {
				if uint64(len(out)) >= declaredSize {
					break
				}
				out = append(out, prev)
			}
		case cmdPredict:
			distTok, err := dec.ReadSymbol(ctxDistance)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidIccStream, err, "predict distance")
			}
			residual, err := dec.ReadSymbol(ctxByte)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidIccStream, err, "predict residual")
			}
			dist := int(distTok) + 1
			if dist > len(out) {
				return nil, xerr.Newf(xerr.InvalidIccStream, "predict distance %d exceeds output length %d", dist, len(out))
			}
			pred := out[len(out)-dist]
			out = append(out, byte(uint32(pred)+residual))
		default:
			return nil, xerr.Newf(xerr.InvalidIccStream, "unknown command %d", cmdTok)
		}
	}
	if uint64(len(out)) != declaredSize {
		return nil, xerr.Newf(xerr.InvalidIccStream, "decoded %d bytes, declared %d", len(out), declaredSize)
	}
	return out, nil
}

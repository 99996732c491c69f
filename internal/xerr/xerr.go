// Package xerr defines the flat error taxonomy shared by every decoder
// layer.
package xerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is a flat, fatal-unless-noted error classification. Values are
// stable across releases so callers can branch on them with Is.
type Kind uint16

const (
	// Bitstream
	UnexpectedEof Kind = iota
	NeedMoreData
	NonZeroPadding
	InvalidFloat
	InvalidEnum
	InvalidBox
	NotAligned
	CannotSkip
	ValidationFailed
	ProfileConformance

	// Entropy
	Lz77NotAllowed
	InvalidAnsHistogram
	InvalidAnsStream
	InvalidIntegerConfig
	InvalidPermutation
	InvalidPrefixHistogram
	PrefixSymbolTooLarge
	InvalidCluster
	ClusterHole
	UnexpectedLz77Repeat
	InvalidLz77Symbol

	// Modular
	InvalidMaTree
	GlobalMaTreeNotAvailable
	InvalidPaletteParams
	InvalidSqueezeParams
	PropertyNotFound

	// VarDCT / frame
	InvalidTocPermutation
	IncompleteFrame
	DequantMatrixZero
	HfPresetOutOfRange
	InvalidHfBlockInfo

	// Color / features
	InvalidIccStream
	InvalidEnumColorspace
	IccProfileEmbedded
	CmsNotAvailable
	CmsFailure
	TooManySplines
	TooManySplinePoints
	TooManyPatches
	PatchCoordOverflow

	// Resource
	OutOfMemory
)

var names = map[Kind]string{
	UnexpectedEof:            "UnexpectedEof",
	NeedMoreData:             "NeedMoreData",
	NonZeroPadding:           "NonZeroPadding",
	InvalidFloat:             "InvalidFloat",
	InvalidEnum:              "InvalidEnum",
	InvalidBox:               "InvalidBox",
	NotAligned:               "NotAligned",
	CannotSkip:               "CannotSkip",
	ValidationFailed:         "ValidationFailed",
	ProfileConformance:       "ProfileConformance",
	Lz77NotAllowed:           "Lz77NotAllowed",
	InvalidAnsHistogram:      "InvalidAnsHistogram",
	InvalidAnsStream:         "InvalidAnsStream",
	InvalidIntegerConfig:     "InvalidIntegerConfig",
	InvalidPermutation:       "InvalidPermutation",
	InvalidPrefixHistogram:   "InvalidPrefixHistogram",
	PrefixSymbolTooLarge:     "PrefixSymbolTooLarge",
	InvalidCluster:           "InvalidCluster",
	ClusterHole:              "ClusterHole",
	UnexpectedLz77Repeat:     "UnexpectedLz77Repeat",
	InvalidLz77Symbol:        "InvalidLz77Symbol",
	InvalidMaTree:            "InvalidMaTree",
	GlobalMaTreeNotAvailable: "GlobalMaTreeNotAvailable",
	InvalidPaletteParams:     "InvalidPaletteParams",
	InvalidSqueezeParams:     "InvalidSqueezeParams",
	PropertyNotFound:         "PropertyNotFound",
	InvalidTocPermutation:    "InvalidTocPermutation",
	IncompleteFrame:          "IncompleteFrame",
	DequantMatrixZero:        "DequantMatrixZero",
	HfPresetOutOfRange:       "HfPresetOutOfRange",
	InvalidHfBlockInfo:       "InvalidHfBlockInfo",
	InvalidIccStream:         "InvalidIccStream",
	InvalidEnumColorspace:    "InvalidEnumColorspace",
	IccProfileEmbedded:       "IccProfileEmbedded",
	CmsNotAvailable:          "CmsNotAvailable",
	CmsFailure:               "CmsFailure",
	TooManySplines:           "TooManySplines",
	TooManySplinePoints:      "TooManySplinePoints",
	TooManyPatches:           "TooManyPatches",
	PatchCoordOverflow:       "PatchCoordOverflow",
	OutOfMemory:              "OutOfMemory",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// Error is the concrete error type every layer returns for a taxonomy
// member. It wraps an optional underlying cause and a free-form context
// string describing where the failure happened.
type Error struct {
	Kind    Kind
	Context string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a Kind-tagged error with a context message.
func New(kind Kind, context string) error {
	return &Error{Kind: kind, Context: context}
}

// Newf creates a Kind-tagged error with a formatted context message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind to an existing error, preserving it as the cause so
// errors.Unwrap / errors.Is keep working on the original chain. Uses
// pkg/errors so the resulting error also carries a stack trace, matching
// the wrapping style used throughout ausocean-av's h264 bitstream decoder.
func Wrap(kind Kind, err error, context string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Context: context, cause: errors.Wrap(err, context)}
}

// Is reports whether err (or a cause in its chain) is a *Error of kind k.
func Is(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == k {
				return true
			}
			err = e.cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

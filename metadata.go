package jxl

import (
	"bufio"
	"image/color"
	"io"

	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/container"
	"github.com/jxlcore/jxl/internal/icc"
	"github.com/jxlcore/jxl/internal/imageheader"
	"github.com/jxlcore/jxl/internal/xerr"
)

// Metadata mirrors a codestream's image header: the fields any caller
// inspecting a JPEG XL file without fully decoding it needs.
type Metadata struct {
	Width, Height uint32
	Orientation   uint8

	BitsPerSample int
	FloatSample   bool

	XYBEncoded bool
	ColorSpace imageheader.ColorSpace

	HasAlpha     bool
	NumExtra     int
	HasAnimation bool
	NumLoops     uint32

	IntensityTarget float32

	// ICCProfile holds the embedded ICC profile bytes, if the color
	// encoding's want_icc flag was set. A CMS (see Config.CMS) is required
	// to make use of it; the built-in color conversion path ignores it.
	ICCProfile []byte
}

func newMetadata(h *imageheader.Header, iccProfile []byte) *Metadata {
	md := &Metadata{
		ICCProfile:      iccProfile,
		Width:           h.Width,
		Height:          h.Height,
		Orientation:     h.Orientation,
		BitsPerSample:   int(h.ModularBitDepth.BitsPerSample),
		FloatSample:     h.ModularBitDepth.FloatSample,
		XYBEncoded:      h.XYBEncoded,
		ColorSpace:      h.ColorEncoding.Space,
		NumExtra:        len(h.ExtraChannels),
		HasAnimation:    h.HasAnimation,
		NumLoops:        h.Animation.NumLoops,
		IntensityTarget: h.ToneMapping.IntensityTarget,
	}
	for _, ec := range h.ExtraChannels {
		if ec.Type == imageheader.ExtraAlpha {
			md.HasAlpha = true
			break
		}
	}
	return md
}

// colorModel reports the stdlib color.Model Decode's image.Image will use,
// for DecodeConfig's image.Config.
func (md *Metadata) colorModel() color.Model {
	sixteenBit := md.BitsPerSample > 8 || md.FloatSample
	switch {
	case md.ColorSpace == imageheader.ColorGray && !md.HasAlpha:
		if sixteenBit {
			return color.Gray16Model
		}
		return color.GrayModel
	default:
		if sixteenBit {
			return color.NRGBA64Model
		}
		return color.NRGBAModel
	}
}

// DecodeMetadata reads a codestream's container framing and image header
// without decoding any frame pixel data.
func DecodeMetadata(r io.Reader) (*Metadata, error) {
	h, iccProfile, _, _, err := parseImageHeader(r)
	if err != nil {
		return nil, err
	}
	return newMetadata(h, iccProfile), nil
}

// extractCodestream strips container box framing, returning the logical
// codestream (bare-signature-prefixed) whether the input was already bare
// or wrapped in jxlc/jxlp boxes.
func extractCodestream(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "read input")
	}
	if container.IsContainer(data) {
		assembled, err := container.Parse(data)
		if err != nil {
			return nil, err
		}
		return assembled.Codestream, nil
	}
	if container.IsBareCodestream(data) {
		return data, nil
	}
	return nil, xerr.New(xerr.InvalidBox, "not a JPEG XL codestream or container")
}

// parseImageHeader extracts the codestream and parses its image header
// (decoding an embedded ICC profile immediately after it, when the color
// encoding's want_icc flag is set), returning the header, the profile
// bytes (nil if none), the full codestream, and the byte offset of the
// first frame header within it.
func parseImageHeader(r io.Reader) (*imageheader.Header, []byte, []byte, int, error) {
	codestream, err := extractCodestream(r)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	if len(codestream) < 2 {
		return nil, nil, nil, 0, xerr.New(xerr.UnexpectedEof, "codestream too short")
	}
	br := bitio.NewReader(codestream[2:])
	h, err := imageheader.Parse(br)
	if err != nil {
		return nil, nil, nil, 0, xerr.Wrap(xerr.IncompleteFrame, err, "image header")
	}
	var iccProfile []byte
	if h.ColorEncoding.WantICC {
		iccProfile, err = icc.Decode(br)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if err := br.ZeroPadToByte(); err != nil {
			return nil, nil, nil, 0, err
		}
	}
	return h, iccProfile, codestream, 2 + br.BytePos(), nil
}

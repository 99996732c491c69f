// Package jxl provides a pure Go decoder for the JPEG XL still-and-animation
// image codec (ISO/IEC 18181).
//
// It reads a JPEG XL codestream, bare or wrapped in the ISO BMFF-like
// container, and produces a standard library image.Image through the usual
// image.Decode / image.RegisterFormat path, or the full decoded canvas and
// image header through DecodeImage for callers that need per-frame and
// per-channel access.
//
// Basic usage:
//
//	file, _ := os.Open("photo.jxl")
//	img, err := jxl.Decode(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Encoding JPEG XL is out of scope: this package is decode-only.
package jxl

import (
	"image"
	"io"

	"github.com/jxlcore/jxl/internal/container"
)

func init() {
	image.RegisterFormat("jxl", string(container.BareSignature[:]), Decode, DecodeConfig)
	image.RegisterFormat("jxl-container", string(container.Signature[:]), Decode, DecodeConfig)
}

// Decode reads a JPEG XL image from r and returns it as a standard library
// image.Image, applying EXIF orientation, frame blending and color
// conversion to the working color encoding declared by the image header.
func Decode(r io.Reader) (image.Image, error) {
	result, err := DecodeImage(r, nil)
	if err != nil {
		return nil, err
	}
	return result.Image, nil
}

// DecodeConfig reads a JPEG XL image's header and returns its dimensions and
// color model without decoding any frame data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	md, err := DecodeMetadata(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: md.colorModel(),
		Width:      int(md.Width),
		Height:     int(md.Height),
	}, nil
}

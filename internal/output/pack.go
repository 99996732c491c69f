package output

import (
	"image"
	"image/color"

	"github.com/jxlcore/jxl/internal/imageheader"
	"github.com/jxlcore/jxl/internal/render"
)

// ToImage converts one decoded frame canvas into a standard library
// image.Image: orientation-corrected, then packed into Gray/Gray16 for
// single-channel frames and NRGBA/NRGBA64 otherwise (fully opaque alpha
// when the frame has no alpha channel), choosing the 16-bit variants when
// the image header's declared sample format needs more than 8 bits.
func ToImage(c *render.Canvas, img *imageheader.Header) image.Image {
	gray := img.ColorEncoding.Space == imageheader.ColorGray

	var planes [][]float32
	if gray {
		planes = [][]float32{c.Color[0]}
	} else {
		planes = [][]float32{c.Color[0], c.Color[1], c.Color[2]}
	}

	alphaIdx := -1
	for i, ec := range img.ExtraChannels {
		if ec.Type == imageheader.ExtraAlpha {
			alphaIdx = i
			break
		}
	}
	if alphaIdx >= 0 {
		planes = append(planes, c.Extra[alphaIdx])
	}

	width, height := int(c.Width), int(c.Height)
	planes, width, height = ApplyOrientation(img.Orientation, planes, width, height)

	sixteenBit := img.ModularBitDepth.BitsPerSample > 8 || img.ModularBitDepth.FloatSample

	switch {
	case gray && alphaIdx < 0:
		if sixteenBit {
			return packGray16(planes[0], width, height)
		}
		return packGray(planes[0], width, height)
	case gray:
		// Gray+alpha has no dedicated stdlib image type; widen to
		// color channels so the alpha channel still has a home.
		return packRGBAFrom(planes[0], planes[0], planes[0], planes[1], width, height, sixteenBit)
	case alphaIdx >= 0:
		return packRGBAFrom(planes[0], planes[1], planes[2], planes[3], width, height, sixteenBit)
	default:
		return packRGBAFrom(planes[0], planes[1], planes[2], nil, width, height, sixteenBit)
	}
}

func packGray(p []float32, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range p {
		img.Pix[i] = byte(clampUnit(v)*255 + 0.5)
	}
	return img
}

func packGray16(p []float32, w, h int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for i, v := range p {
		u := uint16(clampUnit(v)*65535 + 0.5)
		img.Pix[i*2] = byte(u >> 8)
		img.Pix[i*2+1] = byte(u)
	}
	return img
}

// packRGBAFrom packs r/g/b (and optionally a) into an 8- or 16-bit,
// non-premultiplied RGBA image. A nil alpha plane is treated as fully
// opaque.
func packRGBAFrom(r, g, b, a []float32, w, h int, sixteenBit bool) image.Image {
	if sixteenBit {
		img := image.NewNRGBA64(image.Rect(0, 0, w, h))
		for i := range r {
			av := float32(1.0)
			if a != nil {
				av = a[i]
			}
			img.SetNRGBA64(i%w, i/w, color.NRGBA64{
				R: unit16(r[i]), G: unit16(g[i]), B: unit16(b[i]), A: unit16(av),
			})
		}
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range r {
		av := float32(1.0)
		if a != nil {
			av = a[i]
		}
		img.SetNRGBA(i%w, i/w, color.NRGBA{
			R: unit8(r[i]), G: unit8(g[i]), B: unit8(b[i]), A: unit8(av),
		})
	}
	return img
}

func unit8(v float32) uint8   { return uint8(clampUnit(v)*255 + 0.5) }
func unit16(v float32) uint16 { return uint16(clampUnit(v)*65535 + 0.5) }

package jxl

import (
	"image"
	"io"

	"github.com/jxlcore/jxl/internal/colorconv"
	"github.com/jxlcore/jxl/internal/output"
	"github.com/jxlcore/jxl/internal/render"
	"github.com/jxlcore/jxl/internal/xerr"
)

// Result is the full product of decoding a codestream: its metadata plus
// one Image per decoded (visible) frame, in display order. Still images
// have exactly one Frame; animations have one per played-back frame.
type Result struct {
	Metadata *Metadata
	Frames   []Frame

	// Image is Frames[0].Image's value for convenience - the form Decode
	// hands back through the standard library image.Image interface.
	Image image.Image
}

// Frame is one decoded, fully composited frame: a standard library image
// plus the duration (in ticks, per Metadata's animation tick rate) it's
// displayed for.
type Frame struct {
	Image    image.Image
	Duration uint32
}

// DecodeImage runs the full decode pipeline: container unwrap, image
// header (and embedded ICC profile, if any), then every frame's header,
// TOC, LF/HF group decode, restoration filters, rendering extras, color
// conversion and inter-frame blending, in codestream order. cfg may be
// nil to use the default Config.
func DecodeImage(r io.Reader, cfg *Config) (*Result, error) {
	h, iccProfile, codestream, offset, err := parseImageHeader(r)
	if err != nil {
		return nil, err
	}
	md := newMetadata(h, iccProfile)

	rc := render.NewRenderContext(h)
	if cfg != nil {
		rc.WithBudget(cfg.AllocBudget)
		rc.WithWorkers(cfg.Workers)
	}
	cms := cfg.cms()

	var frames []Frame
	for offset < len(codestream) {
		fr, consumed, err := render.DecodeFrame(codestream[offset:], rc)
		if err != nil {
			return nil, xerr.Wrap(xerr.IncompleteFrame, err, "frame")
		}
		offset += consumed

		canvas := fr.Canvas
		if iccProfile != nil {
			if err := applyCms(cms, canvas, iccProfile); err != nil {
				return nil, err
			}
		}

		if fr.Header.IsLast || !fr.Header.UseLfFrame {
			img := output.ToImage(canvas, h)
			if cfg != nil && cfg.DecodeArea != nil {
				img = cropImage(img, *cfg.DecodeArea)
			}
			frames = append(frames, Frame{Image: img, Duration: fr.Header.DurationTicks})
			if cfg != nil && cfg.MaxFrames > 0 && len(frames) >= cfg.MaxFrames {
				break
			}
		}

		if fr.Header.IsLast {
			break
		}
	}

	if len(frames) == 0 {
		return nil, xerr.New(xerr.IncompleteFrame, "codestream produced no visible frame")
	}

	return &Result{Metadata: md, Frames: frames, Image: frames[0].Image}, nil
}

// applyCms hands the canvas's color planes to cms for conversion from the
// embedded ICC profile to the decoder's working space (nil target meaning
// "built-in sRGB"). The default NullCms always fails this, matching the
// reference decoder's behavior absent an injected CMS.
func applyCms(cms colorconv.ColorManagementSystem, canvas *render.Canvas, iccProfile []byte) error {
	planes := [][]float32{canvas.Color[0], canvas.Color[1], canvas.Color[2]}
	return cms.Transform(iccProfile, nil, colorconv.IntentRelative, planes)
}

func cropImage(img image.Image, area image.Rectangle) image.Image {
	area = area.Intersect(img.Bounds())
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(area)
	}
	return img
}

package jxl

import (
	"image"

	"github.com/jxlcore/jxl/internal/colorconv"
)

// Config controls how a codestream is decoded. The zero value decodes the
// full canvas at full resolution with no ICC color management.
type Config struct {
	// DecodeArea restricts decoding to a sub-rectangle of the canvas. A nil
	// value (the default) decodes the full canvas. Every frame is still
	// decoded in full; only the output image is cropped to the area.
	DecodeArea *image.Rectangle

	// MaxFrames limits how many visible frames are decoded from an
	// animation before DecodeImage returns. Zero means all frames.
	MaxFrames int

	// CMS is invoked on every frame when the image header carries an
	// embedded ICC profile. The zero value uses
	// colorconv.NullCms, which fails any such transform.
	CMS colorconv.ColorManagementSystem

	// AllocBudget caps the bytes a single decode's frame canvases may
	// charge against, failing with xerr.OutOfMemory once exceeded; group
	// and other working buffers are not charged. Zero means unlimited.
	AllocBudget uint64

	// Workers caps how many goroutines a frame's LF-group and pass-group
	// decode fan out across. Zero or one decodes every group serially.
	Workers int
}

func (c *Config) cms() colorconv.ColorManagementSystem {
	if c == nil || c.CMS == nil {
		return colorconv.NullCms{}
	}
	return c.CMS
}

package render

import (
	"github.com/jxlcore/jxl/internal/alloc"
	"github.com/jxlcore/jxl/internal/imageheader"
	"github.com/jxlcore/jxl/internal/threadpool"
)

// RenderContext holds the state that persists across a codestream's
// frames: the image header, the four reference-frame slots a frame's
// header can save into or blend from, the visible/invisible frame
// counters synthetic noise generation seeds from, the byte-budget
// tracker each frame's canvas (and no other buffer) charges against, and the
// thread pool that fans a frame's LF-group and pass-group decode out
// across workers (spec.md's injected "for-each/scope" capability).
type RenderContext struct {
	Image *imageheader.Header
	Refs  [4]*Canvas

	VisibleFrames   uint64
	InvisibleFrames uint64

	Alloc *alloc.Tracker
	Pool  *threadpool.Pool
}

// NewRenderContext starts a fresh render session for one codestream,
// decoding with an unlimited allocation budget and synchronous
// (single-goroutine) group decode.
func NewRenderContext(img *imageheader.Header) *RenderContext {
	return &RenderContext{Image: img, Alloc: alloc.NewTracker(0), Pool: threadpool.None}
}

// WithBudget sets the byte budget each frame canvas this context
// allocates charges against; 0 means unlimited.
func (rc *RenderContext) WithBudget(limit uint64) *RenderContext {
	rc.Alloc = alloc.NewTracker(limit)
	return rc
}

// WithWorkers sets how many goroutines this context's frame decodes fan
// group work out across; <= 1 decodes every group serially.
func (rc *RenderContext) WithWorkers(workers int) *RenderContext {
	rc.Pool = threadpool.New(workers)
	return rc
}

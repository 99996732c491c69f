// Package alloc implements the process-wide byte budget that every large
// decoder buffer charges against and refunds on release.
package alloc

import (
	"sync/atomic"

	"github.com/jxlcore/jxl/internal/xerr"
)

// Tracker enforces a byte budget shared across a decode. Reserve either
// succeeds and returns a Handle that must be released, or fails with
// xerr.OutOfMemory without mutating the budget.
type Tracker struct {
	limit uint64
	used  atomic.Uint64
}

// NewTracker creates a tracker with the given byte limit. A limit of 0
// means unlimited.
func NewTracker(limit uint64) *Tracker {
	return &Tracker{limit: limit}
}

// Used returns the number of bytes currently reserved.
func (t *Tracker) Used() uint64 { return t.used.Load() }

// Reserve charges n bytes against the budget using a lock-free
// compare-and-swap loop, returning a Handle that refunds on Release.
func (t *Tracker) Reserve(n uint64) (*Handle, error) {
	for {
		cur := t.used.Load()
		next := cur + n
		if t.limit != 0 && next > t.limit {
			return nil, xerr.Newf(xerr.OutOfMemory, "requested %d bytes, budget %d/%d used", n, cur, t.limit)
		}
		if t.used.CompareAndSwap(cur, next) {
			return &Handle{tracker: t, bytes: n}, nil
		}
	}
}

// Handle represents a charged allocation. Release must be called at least
// once, including on error-unwind paths (defer h.Release()), mirroring the
// scope-guard pattern spec.md §5 asks for in a language without
// deterministic destructors.
type Handle struct {
	tracker *Tracker
	bytes   uint64
	done    atomic.Bool
}

// Release refunds the charged bytes. Safe to call more than once; only the
// first call has an effect.
func (h *Handle) Release() {
	if h == nil || !h.done.CompareAndSwap(false, true) {
		return
	}
	for {
		cur := h.tracker.used.Load()
		next := cur - h.bytes
		if h.tracker.used.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Bytes reports the size charged by this handle.
func (h *Handle) Bytes() uint64 { return h.bytes }

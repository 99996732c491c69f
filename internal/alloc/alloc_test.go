package alloc

import (
	"testing"

	"github.com/jxlcore/jxl/internal/xerr"
)

func TestReserveWithinBudgetSucceeds(t *testing.T) {
	tr := NewTracker(100)
	h, err := tr.Reserve(40)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if tr.Used() != 40 {
		t.Fatalf("Used = %d, want 40", tr.Used())
	}
	h.Release()
	if tr.Used() != 0 {
		t.Fatalf("Used after Release = %d, want 0", tr.Used())
	}
}

func TestReserveOverBudgetFails(t *testing.T) {
	tr := NewTracker(100)
	if _, err := tr.Reserve(40); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	_, err := tr.Reserve(70)
	if err == nil {
		t.Fatal("Reserve over budget succeeded, want xerr.OutOfMemory")
	}
	if !xerr.Is(err, xerr.OutOfMemory) {
		t.Fatalf("error = %v, want xerr.OutOfMemory", err)
	}
	if tr.Used() != 40 {
		t.Fatalf("Used after failed Reserve = %d, want unchanged 40", tr.Used())
	}
}

func TestZeroLimitIsUnlimited(t *testing.T) {
	tr := NewTracker(0)
	if _, err := tr.Reserve(1 << 40); err != nil {
		t.Fatalf("Reserve on unlimited tracker: %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	tr := NewTracker(10)
	h, err := tr.Reserve(10)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	h.Release()
	h.Release()
	if tr.Used() != 0 {
		t.Fatalf("Used after double Release = %d, want 0", tr.Used())
	}
}

func TestReleaseOnNilHandleIsNoop(t *testing.T) {
	var h *Handle
	h.Release()
}

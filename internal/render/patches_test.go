package render

import (
	"testing"

	"github.com/jxlcore/jxl/internal/features"
)

func TestApplyPatchesCopiesReplaceModeRegion(t *testing.T) {
	rc := &RenderContext{}
	ref := NewCanvas(4, 4, 0)
	for c := 0; c < 3; c++ {
		ref.Color[c][1*4+1] = 7 // (1,1) inside the 2x2 patch region
	}
	rc.Refs[0] = ref

	canvas := NewCanvas(4, 4, 0)
	patches := &features.Patches{
		Refs: []features.PatchRef{{
			RefIdx: 0, X0: 1, Y0: 1, Width: 2, Height: 2,
			Targets: []features.PatchTarget{{
				X: 0, Y: 0,
				Blending: []features.BlendingModeInfo{{Mode: features.PatchBlendReplace}},
			}},
		}},
	}

	applyPatches(canvas, patches, rc)

	if canvas.Color[0][0] != 7 {
		t.Fatalf("canvas.Color[0][0] = %v, want 7", canvas.Color[0][0])
	}
	if canvas.Color[0][1*4+1] != 0 {
		t.Fatalf("canvas.Color[0][(1,1)] = %v, want 0 copied from ref (2,2) by the 2x2 patch", canvas.Color[0][1*4+1])
	}
}

func TestApplyPatchesSkipsUnsavedReferenceSlot(t *testing.T) {
	rc := &RenderContext{}
	canvas := NewCanvas(2, 2, 0)
	canvas.Color[0][0] = 5
	patches := &features.Patches{
		Refs: []features.PatchRef{{
			RefIdx: 2, X0: 0, Y0: 0, Width: 1, Height: 1,
			Targets: []features.PatchTarget{{
				Blending: []features.BlendingModeInfo{{Mode: features.PatchBlendReplace}},
			}},
		}},
	}

	applyPatches(canvas, patches, rc)

	if canvas.Color[0][0] != 5 {
		t.Fatalf("canvas mutated from an unsaved reference slot: got %v, want untouched 5", canvas.Color[0][0])
	}
}

func TestPatchBlendSampleNoneLeavesDestinationUnchanged(t *testing.T) {
	v, write := patchBlendSample(3, 99, features.PatchBlendNone, 1, 1, false)
	if write {
		t.Fatal("PatchBlendNone should report write=false")
	}
	if v != 3 {
		t.Fatalf("PatchBlendNone value = %v, want dst unchanged (3)", v)
	}
}

func TestPatchBlendSampleAddAccumulates(t *testing.T) {
	v, write := patchBlendSample(2, 3, features.PatchBlendAdd, 1, 1, false)
	if !write || v != 5 {
		t.Fatalf("PatchBlendAdd = (%v,%v), want (5,true)", v, write)
	}
}

func TestPatchBlendSampleAboveUsesSourceAlpha(t *testing.T) {
	v, write := patchBlendSample(10, 20, features.PatchBlendAbove, 0.5, 1, false)
	want := float32(20*0.5 + 10*0.5)
	if !write || v != want {
		t.Fatalf("PatchBlendAbove = (%v,%v), want (%v,true)", v, write, want)
	}
}

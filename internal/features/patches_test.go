package features

import "testing"

func TestPatchBlendModeUseAlpha(t *testing.T) {
	alphaModes := []PatchBlendMode{PatchBlendAbove, PatchBlendBelow, PatchBlendMulAddAbove, PatchBlendMulAddBelow}
	for _, m := range alphaModes {
		if !m.UseAlpha() {
			t.Fatalf("mode %d should use alpha", m)
		}
	}
	nonAlphaModes := []PatchBlendMode{PatchBlendNone, PatchBlendReplace, PatchBlendAdd, PatchBlendMul}
	for _, m := range nonAlphaModes {
		if m.UseAlpha() {
			t.Fatalf("mode %d should not use alpha", m)
		}
	}
}

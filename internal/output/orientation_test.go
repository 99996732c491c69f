package output

import "testing"

func TestApplyOrientationIdentity(t *testing.T) {
	p := []float32{1, 2, 3, 4}
	out, w, h := ApplyOrientation(1, [][]float32{p}, 2, 2)
	if w != 2 || h != 2 || out[0][0] != 1 || out[0][3] != 4 {
		t.Fatalf("identity orientation changed data: %v (%d,%d)", out, w, h)
	}
}

func TestApplyOrientationMirrorHorizontal(t *testing.T) {
	// 2x1: [1, 2] -> mirrored -> [2, 1]
	p := []float32{1, 2}
	out, w, h := ApplyOrientation(2, [][]float32{p}, 2, 1)
	if w != 2 || h != 1 {
		t.Fatalf("unexpected dims %d,%d", w, h)
	}
	if out[0][0] != 2 || out[0][1] != 1 {
		t.Fatalf("mirror horizontal = %v, want [2 1]", out[0])
	}
}

func TestApplyOrientationRotate90SwapsDims(t *testing.T) {
	// 2x1 source -> rotated 90 CW -> 1x2 output.
	p := []float32{1, 2}
	out, w, h := ApplyOrientation(6, [][]float32{p}, 2, 1)
	if w != 1 || h != 2 {
		t.Fatalf("rotate90 dims = (%d,%d), want (1,2)", w, h)
	}
	if len(out[0]) != 2 {
		t.Fatalf("rotate90 output length = %d, want 2", len(out[0]))
	}
}

func TestPackInterleavedUint8ScalesAndInterleaves(t *testing.T) {
	planes := [][]float32{{0, 1}, {0.5, 0.5}}
	buf := PackInterleaved(planes, 2, 1, Uint8)
	if len(buf) != 4 {
		t.Fatalf("buf len = %d, want 4", len(buf))
	}
	if buf[0] != 0 || buf[1] != 128 {
		t.Fatalf("first pixel = %v, want [0 128]", buf[:2])
	}
}

func TestClampUnitBounds(t *testing.T) {
	if clampUnit(-1) != 0 {
		t.Fatalf("clampUnit(-1) != 0")
	}
	if clampUnit(2) != 1 {
		t.Fatalf("clampUnit(2) != 1")
	}
}

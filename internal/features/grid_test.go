package features

import "testing"

func TestPaddedGridSetAndGetInterior(t *testing.T) {
	g := newPaddedGrid(4, 3, 2)
	g.set(1, 1, 42)
	if got := g.at(1, 1); got != 42 {
		t.Fatalf("at(1,1) = %v, want 42", got)
	}
}

func TestPaddedGridAtClampsOutOfRange(t *testing.T) {
	g := newPaddedGrid(4, 3, 2)
	g.set(0, 0, 7)
	if got := g.at(-100, -100); got != g.at(-g.padding, -g.padding) {
		t.Fatalf("at(-100,-100) not clamped to padding boundary: got %v", got)
	}
}

func TestMirrorEdgesReflectsNearestInteriorSample(t *testing.T) {
	g := newPaddedGrid(3, 3, 1)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.set(x, y, float32(y*3+x))
		}
	}
	g.mirrorEdges()
	if got := g.at(-1, 0); got != g.at(0, 0) {
		t.Fatalf("left mirror at(-1,0) = %v, want %v", got, g.at(0, 0))
	}
	if got := g.at(3, 0); got != g.at(2, 0) {
		t.Fatalf("right mirror at(3,0) = %v, want %v", got, g.at(2, 0))
	}
}

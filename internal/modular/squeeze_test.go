package modular

import "testing"

func newTestImage(vals []int32, w, h int) *Image {
	c := NewChannel(w, h, 0, 0)
	copy(c.Data, vals)
	return &Image{Channels: []*Channel{c}}
}

func TestSqueezeHorizontalRoundTrip(t *testing.T) {
	img := newTestImage([]int32{1, 2, 3, 4, 5, 6, 7, 8}, 8, 1)
	orig := append([]int32(nil), img.Channels[0].Data...)

	if err := ApplySqueeze(img, SqueezeParams{ChannelIndex: 0, Horizontal: true}); err != nil {
		t.Fatalf("ApplySqueeze: %v", err)
	}
	if len(img.Channels) != 2 {
		t.Fatalf("expected 2 channels after squeeze, got %d", len(img.Channels))
	}
	if err := ApplyInverseSqueeze(img, SqueezeParams{ChannelIndex: 0, Horizontal: true}); err != nil {
		t.Fatalf("ApplyInverseSqueeze: %v", err)
	}
	if len(img.Channels) != 1 {
		t.Fatalf("expected 1 channel after inverse squeeze, got %d", len(img.Channels))
	}
	got := img.Channels[0].Data
	for i, v := range orig {
		if got[i] != v {
			t.Fatalf("round trip mismatch at %d: got %d want %d", i, got[i], v)
		}
	}
}

func TestSqueezeVerticalRoundTrip(t *testing.T) {
	img := newTestImage([]int32{1, 2, 3, 4, 5, 6}, 1, 6)
	orig := append([]int32(nil), img.Channels[0].Data...)

	if err := ApplySqueeze(img, SqueezeParams{ChannelIndex: 0, Horizontal: false}); err != nil {
		t.Fatalf("ApplySqueeze: %v", err)
	}
	if err := ApplyInverseSqueeze(img, SqueezeParams{ChannelIndex: 0, Horizontal: false}); err != nil {
		t.Fatalf("ApplyInverseSqueeze: %v", err)
	}
	got := img.Channels[0].Data
	for i, v := range orig {
		if got[i] != v {
			t.Fatalf("round trip mismatch at %d: got %d want %d", i, got[i], v)
		}
	}
}

func TestSqueezeOddWidthRoundTrip(t *testing.T) {
	img := newTestImage([]int32{10, -3, 7, 0, 99}, 5, 1)
	orig := append([]int32(nil), img.Channels[0].Data...)

	if err := ApplySqueeze(img, SqueezeParams{ChannelIndex: 0, Horizontal: true}); err != nil {
		t.Fatalf("ApplySqueeze: %v", err)
	}
	if err := ApplyInverseSqueeze(img, SqueezeParams{ChannelIndex: 0, Horizontal: true}); err != nil {
		t.Fatalf("ApplyInverseSqueeze: %v", err)
	}
	got := img.Channels[0].Data
	for i, v := range orig {
		if got[i] != v {
			t.Fatalf("round trip mismatch at %d: got %d want %d", i, got[i], v)
		}
	}
}

func TestApplySqueezeInvalidChannelIndex(t *testing.T) {
	img := newTestImage([]int32{1, 2}, 2, 1)
	if err := ApplySqueeze(img, SqueezeParams{ChannelIndex: 5, Horizontal: true}); err == nil {
		t.Fatal("expected error for out-of-range channel index")
	}
}

func TestApplyInverseSqueezeMissingResidual(t *testing.T) {
	img := newTestImage([]int32{1, 2}, 2, 1)
	if err := ApplyInverseSqueeze(img, SqueezeParams{ChannelIndex: 0, Horizontal: true}); err == nil {
		t.Fatal("expected error when residual channel is missing")
	}
}

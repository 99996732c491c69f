package vardct

import "testing"

func TestNaturalOrderHasNoDuplicatePositions(t *testing.T) {
	for idx, size := range blockSizes {
		order := naturalOrder(idx)
		max := size[0] * size[1]
		if len(order) == 0 || len(order) > max {
			t.Fatalf("order group %d: len = %d, want in (0, %d]", idx, len(order), max)
		}
		seen := make(map[Coeff]bool, len(order))
		for _, c := range order {
			if seen[c] {
				t.Fatalf("order group %d: position %v repeated", idx, c)
			}
			seen[c] = true
		}
	}
}

func TestNaturalOrderCoversSquareBlockExactly(t *testing.T) {
	// For square order groups (lbw == lbh) the low-frequency-corner skip
	// condition is exact, so every position should be covered exactly once.
	for _, idx := range []int{0, 1, 2, 3, 7, 9, 11} {
		size := blockSizes[idx]
		want := size[0] * size[1]
		order := naturalOrder(idx)
		if len(order) != want {
			t.Fatalf("order group %d: len = %d, want %d", idx, len(order), want)
		}
	}
}

func TestNaturalOrderIsCached(t *testing.T) {
	a := naturalOrder(0)
	b := naturalOrder(0)
	if &a[0] != &b[0] {
		t.Fatal("naturalOrder(0) returned a freshly computed slice on the second call")
	}
}

func TestApplyPermutationIdentityOnEmpty(t *testing.T) {
	natural := []Coeff{{0, 0}, {1, 0}, {0, 1}}
	out := ApplyPermutation(natural, nil)
	for i := range natural {
		if out[i] != natural[i] {
			t.Fatalf("ApplyPermutation with empty permutation changed order at %d", i)
		}
	}
}

func TestApplyPermutationReordersByIndex(t *testing.T) {
	natural := []Coeff{{0, 0}, {1, 0}, {0, 1}}
	out := ApplyPermutation(natural, []int{2, 0, 1})
	want := []Coeff{{0, 1}, {0, 0}, {1, 0}}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("ApplyPermutation[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

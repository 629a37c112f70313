package entropy

import "testing"

func TestRebalanceHistogram_SumsToTableSize(t *testing.T) {
	cases := [][]uint32{
		{10, 20, 30, 40},
		{1, 1, 1, 1, 1, 1, 1, 1},
		{1000, 1, 1, 1},
		{7, 13, 5, 5, 5, 5, 5, 5, 5, 5, 5},
	}
	for _, shift := range []int{0, 1, 4, 8, ANSLogTabSize - 1} {
		for _, c := range cases {
			out, err := RebalanceHistogram(c, shift)
			if err != nil {
				t.Fatalf("shift=%d counts=%v: %v", shift, c, err)
			}
			if got := sumU32(out); got != ANSTabSize {
				t.Fatalf("shift=%d counts=%v: sum = %d, want %d", shift, c, got, ANSTabSize)
			}
			for i, c0 := range c {
				if c0 > 0 && out[i] == 0 {
					t.Fatalf("shift=%d counts=%v: symbol %d had nonzero input but zero output", shift, c, i)
				}
				if c0 == 0 && out[i] != 0 {
					t.Fatalf("shift=%d counts=%v: symbol %d had zero input but nonzero output", shift, c, i)
				}
			}
		}
	}
}

func TestRebalanceHistogram_SingleSymbol(t *testing.T) {
	out, err := RebalanceHistogram([]uint32{0, 0, 42, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[2] != ANSTabSize {
		t.Errorf("out[2] = %d, want %d", out[2], ANSTabSize)
	}
	for i, v := range out {
		if i != 2 && v != 0 {
			t.Errorf("out[%d] = %d, want 0", i, v)
		}
	}
}

func TestRebalanceHistogram_AllZero(t *testing.T) {
	_, err := RebalanceHistogram([]uint32{0, 0, 0}, 0)
	if err == nil {
		t.Fatal("expected error for all-zero counts")
	}
	var ce *CodingError
	if !castErr(err, &ce) || ce.Kind != InvalidInput {
		t.Fatalf("expected InvalidInput CodingError, got %v", err)
	}
}

func TestRebalanceHistogram_InvalidShift(t *testing.T) {
	for _, shift := range []int{-1, ANSLogTabSize, 100} {
		if _, err := RebalanceHistogram([]uint32{1, 2}, shift); err == nil {
			t.Errorf("shift=%d: expected error", shift)
		}
	}
}

func TestRebalanceHistogram_CacheReturnsIndependentCopy(t *testing.T) {
	counts := []uint32{3, 5, 7}
	out1, err := RebalanceHistogram(counts, 2)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := RebalanceHistogram(counts, 2)
	if err != nil {
		t.Fatal(err)
	}
	out1[0] = 0xFFFF
	if out2[0] == out1[0] {
		t.Fatal("cached result shares backing storage across calls")
	}
}

func TestRebalanceHistogram_RespectsAllowedShapeAtShiftZero(t *testing.T) {
	// shift == 0 means full precision: every bin should come out exactly
	// proportional-rounded with no snapping distortion beyond the
	// table-sum fixup, i.e. every output count is achievable directly.
	out, err := RebalanceHistogram([]uint32{100, 1, 1, 1, 1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sumU32(out) != ANSTabSize {
		t.Fatalf("sum = %d, want %d", sumU32(out), ANSTabSize)
	}
	if out[0] <= out[1] {
		t.Errorf("dominant input symbol should retain a dominant share: out[0]=%d out[1]=%d", out[0], out[1])
	}
}

func castErr(err error, target **CodingError) bool {
	ce, ok := err.(*CodingError)
	if ok {
		*target = ce
	}
	return ok
}

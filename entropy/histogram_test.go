package entropy

import "testing"

func TestHistogram_AddAndTotal(t *testing.T) {
	h := NewHistogram(8)
	h.Add(0)
	h.Add(3)
	h.AddN(3, 4)
	if h.Total != 6 {
		t.Fatalf("Total = %d, want 6", h.Total)
	}
	if h.Counts[3] != 5 {
		t.Fatalf("Counts[3] = %d, want 5", h.Counts[3])
	}
}

func TestHistogram_GrowsOnOutOfRangeSymbol(t *testing.T) {
	h := NewHistogram(4)
	h.Add(10)
	if h.NumSymbols() < 11 {
		t.Fatalf("NumSymbols() = %d, want >= 11 after adding symbol 10", h.NumSymbols())
	}
	if h.Counts[10] != 1 {
		t.Fatalf("Counts[10] = %d, want 1", h.Counts[10])
	}
}

func TestHistogram_Clear(t *testing.T) {
	h := NewHistogram(4)
	h.Add(1)
	h.Add(2)
	h.Clear()
	if h.Total != 0 {
		t.Fatalf("Total after Clear = %d, want 0", h.Total)
	}
	for i, v := range h.Counts {
		if v != 0 {
			t.Fatalf("Counts[%d] = %d after Clear, want 0", i, v)
		}
	}
}

func TestHistogram_MergeFrom(t *testing.T) {
	a := NewHistogram(4)
	a.Add(0)
	a.Add(1)
	b := NewHistogram(4)
	b.Add(1)
	b.Add(2)

	a.MergeFrom(b)
	want := []uint32{1, 2, 1, 0}
	for i, v := range want {
		if a.Counts[i] != v {
			t.Errorf("Counts[%d] = %d, want %d", i, a.Counts[i], v)
		}
	}
	if a.Total != 4 {
		t.Errorf("Total = %d, want 4", a.Total)
	}
}

func TestHistogram_Clone_Independent(t *testing.T) {
	a := NewHistogram(4)
	a.Add(0)
	b := a.Clone()
	b.Add(0)
	if a.Counts[0] == b.Counts[0] {
		t.Fatal("Clone shares backing storage with original")
	}
}

func TestBitsEntropy_EmptyAndSingleton(t *testing.T) {
	if got := BitsEntropy(nil); got != 0 {
		t.Errorf("BitsEntropy(nil) = %v, want 0", got)
	}
	if got := BitsEntropy([]uint32{5}); got != 0 {
		t.Errorf("BitsEntropy([5]) = %v, want 0 (single nonzero symbol is free)", got)
	}
}

func TestBitsEntropy_Uniform_HigherThanSkewed(t *testing.T) {
	uniform := []uint32{10, 10, 10, 10}
	skewed := []uint32{37, 1, 1, 1}
	if BitsEntropy(uniform) <= BitsEntropy(skewed) {
		t.Errorf("uniform entropy %v should exceed skewed entropy %v for equal totals",
			BitsEntropy(uniform), BitsEntropy(skewed))
	}
}

func TestHistogram_Cost_CachesAndInvalidates(t *testing.T) {
	h := NewHistogram(4)
	h.Add(0)
	h.Add(1)
	c1 := h.Cost()
	if !h.costValid {
		t.Fatal("Cost() did not mark cache valid")
	}
	h.Add(2)
	if h.costValid {
		t.Fatal("Add() did not invalidate the cost cache")
	}
	c2 := h.Cost()
	if c1 == c2 {
		// Not strictly required to differ for every input, but for this
		// input adding a third distinct symbol must change estimated cost.
		t.Errorf("Cost() unchanged after adding a new symbol: %v", c1)
	}
}

func TestMergedCost_DifferentLengths(t *testing.T) {
	a := NewHistogram(2)
	a.Add(0)
	b := NewHistogram(5)
	b.Add(4)
	// Must not panic when alphabets differ in length, and should reflect a
	// genuinely combined histogram rather than just one side.
	got := mergedCost(a, b)
	if got < 0 {
		t.Errorf("mergedCost = %v, want >= 0", got)
	}
}

package lz77

import "testing"

func TestHashChain_FindsExactRepeat(t *testing.T) {
	values := []uint32{1, 2, 3, 4, 5, 1, 2, 3, 4, 5}
	hc := NewHashChain(values)
	length, distance, ok := hc.BestMatch(5, 3)
	if !ok {
		t.Fatal("expected a match at position 5")
	}
	if length != 5 {
		t.Errorf("length = %d, want 5", length)
	}
	if distance != 5 {
		t.Errorf("distance = %d, want 5", distance)
	}
}

func TestHashChain_NoMatchBelowMinLength(t *testing.T) {
	values := []uint32{1, 2, 3, 9, 9, 9}
	hc := NewHashChain(values)
	_, _, ok := hc.BestMatch(3, 3)
	if ok {
		t.Fatal("expected no match of length >= 3 for distinct-enough data")
	}
}

func TestHashChain_PicksLongestAmongMultipleCandidates(t *testing.T) {
	values := []uint32{7, 7, 7, 0, 0, 7, 7, 7, 7, 0, 0, 0, 7, 7, 7, 7}
	hc := NewHashChain(values)
	length, _, ok := hc.BestMatch(12, 3)
	if !ok {
		t.Fatal("expected a match")
	}
	if length < 4 {
		t.Errorf("length = %d, want at least 4", length)
	}
}

func TestHashChain_RespectsWindowBoundary(t *testing.T) {
	values := make([]uint32, 10)
	for i := range values {
		values[i] = uint32(i % 3)
	}
	hc := NewHashChain(values)
	_, dist, ok := hc.BestMatch(9, 3)
	if ok && dist > 9 {
		t.Errorf("distance %d exceeds position 9", dist)
	}
}

func TestHashChain_TailPositionsWithoutThreeSymbolsNeverMatch(t *testing.T) {
	values := []uint32{1, 2, 3, 1, 2}
	hc := NewHashChain(values)
	_, _, ok := hc.BestMatch(4, 3)
	if ok {
		t.Fatal("position with fewer than 3 remaining symbols cannot start a match")
	}
}

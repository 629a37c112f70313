package entropy

import "testing"

func TestBuildAliasTable_ReverseMapMatchesCounts(t *testing.T) {
	raw := []uint32{50, 30, 0, 120, 6}
	counts, err := RebalanceHistogram(raw, 3)
	if err != nil {
		t.Fatal(err)
	}
	const logAlpha = MinANSLogAlphaSize // 1<<5 covers len(counts) == 5
	at, err := BuildAliasTable(counts, logAlpha)
	if err != nil {
		t.Fatal(err)
	}
	reverse := at.ReverseMap()
	for s, want := range counts {
		got := len(reverse[s])
		if uint32(got) != want {
			t.Errorf("symbol %d: reverse map has %d entries, want %d", s, got, want)
		}
	}
}

func TestBuildAliasTable_ReverseMapCoversEveryIndexExactlyOnce(t *testing.T) {
	raw := []uint32{1, 1, 1, 1, 1, 1, 1, 1}
	counts, err := RebalanceHistogram(raw, 5)
	if err != nil {
		t.Fatal(err)
	}
	at, err := BuildAliasTable(counts, MinANSLogAlphaSize)
	if err != nil {
		t.Fatal(err)
	}
	reverse := at.ReverseMap()

	seen := make([]bool, ANSTabSize)
	total := 0
	for _, slots := range reverse {
		for _, idx := range slots {
			if seen[idx] {
				t.Fatalf("index %d mapped to more than one symbol", idx)
			}
			seen[idx] = true
			total++
		}
	}
	if total != ANSTabSize {
		t.Fatalf("total mapped indices = %d, want %d", total, ANSTabSize)
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d never mapped to any symbol", i)
		}
	}
}

func TestBuildAliasTable_RejectsOutOfRangeLogAlphaSize(t *testing.T) {
	counts := []uint32{ANSTabSize}
	if _, err := BuildAliasTable(counts, MinANSLogAlphaSize-1); err == nil {
		t.Error("expected error for log_alpha_size below minimum")
	}
	if _, err := BuildAliasTable(counts, MaxANSLogAlphaSize+1); err == nil {
		t.Error("expected error for log_alpha_size above maximum")
	}
}

func TestBuildAliasTable_RejectsBadCountSum(t *testing.T) {
	if _, err := BuildAliasTable([]uint32{1, 2, 3}, MinANSLogAlphaSize); err == nil {
		t.Error("expected error when counts do not sum to ANSTabSize")
	}
}

func TestBuildAliasTable_SkewedDistribution(t *testing.T) {
	raw := []uint32{1, 1, 1, 1000}
	counts, err := RebalanceHistogram(raw, 6)
	if err != nil {
		t.Fatal(err)
	}
	at, err := BuildAliasTable(counts, MinANSLogAlphaSize)
	if err != nil {
		t.Fatal(err)
	}
	reverse := at.ReverseMap()
	seen := make([]bool, ANSTabSize)
	for s, slots := range reverse {
		for _, idx := range slots {
			if seen[idx] {
				t.Fatalf("symbol %d: index %d already claimed", s, idx)
			}
			seen[idx] = true
		}
	}
}

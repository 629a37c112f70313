package lz77

import "testing"

func TestOptimal_CoversRepeatedPatternAtLeastAsWellAsGreedy(t *testing.T) {
	values := repeatedPattern([]uint32{1, 2, 3, 4}, 40)
	model := BuildCostModel(values)
	greedy := Greedy(values, 3, model)
	optimal := Optimal(values, 3, model)
	if optimal.BitsSaved < greedy.BitsSaved-1e-6 {
		t.Errorf("optimal BitsSaved = %f, should be >= greedy's %f", optimal.BitsSaved, greedy.BitsSaved)
	}
}

func TestOptimal_MatchesAreNonOverlappingAndOrdered(t *testing.T) {
	values := repeatedPattern([]uint32{5, 6, 7, 8, 9}, 25)
	model := BuildCostModel(values)
	parse := Optimal(values, 3, model)
	end := 0
	for _, m := range parse.Matches {
		if m.Pos < end {
			t.Fatalf("match at %d precedes coverage boundary %d", m.Pos, end)
		}
		end = m.Pos + m.Length
	}
}

func TestOptimal_EmptyStream(t *testing.T) {
	model := BuildCostModel(nil)
	parse := Optimal(nil, 3, model)
	if len(parse.Matches) != 0 {
		t.Errorf("expected no matches for an empty stream, got %d", len(parse.Matches))
	}
}

func TestShouldEnable_ThresholdRule(t *testing.T) {
	if ShouldEnable(10, 100) {
		t.Error("10 bits saved over 100 symbols should not clear the threshold")
	}
	if !ShouldEnable(200, 100) {
		t.Error("200 bits saved over 100 symbols should clear the threshold")
	}
}

package lz77

import "testing"

func TestFindRuns_DetectsLongRun(t *testing.T) {
	// A run is only cheaper to encode as a match when its symbol's local
	// literal cost (driven by its global frequency) exceeds the match
	// overhead, so the background here is a large pool of otherwise-unique
	// values keeping every symbol's frequency -- including the run's --
	// low relative to the stream.
	var values []uint32
	for i := uint32(0); i < 100; i++ {
		values = append(values, 1000+i)
	}
	for i := 0; i < 10; i++ {
		values = append(values, 777)
	}
	values = append(values, 1, 2, 3)

	model := BuildCostModel(values)
	runs := FindRuns(values, 3, model)
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Distance != 1 {
		t.Errorf("Distance = %d, want 1", runs[0].Distance)
	}
}

func TestFindRuns_NoRunsWithoutRepeats(t *testing.T) {
	values := []uint32{1, 2, 3, 4, 5, 6}
	model := BuildCostModel(values)
	runs := FindRuns(values, 3, model)
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestFindRuns_ShortRunBelowMinLengthIgnored(t *testing.T) {
	values := []uint32{1, 2, 2, 3}
	model := BuildCostModel(values)
	runs := FindRuns(values, 3, model)
	if len(runs) != 0 {
		t.Errorf("expected a 2-long run to be below min length 3, got %d runs", len(runs))
	}
}

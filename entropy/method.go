package entropy

import (
	"errors"
	"math"
)

// ANSHistogramStrategy controls how many shift values method selection
// tries before settling on a normalization for a cluster's histogram: more
// candidates cost more CPU but can find a cheaper table.
type ANSHistogramStrategy int

const (
	// StrategyPrecise tries every shift in [0, ANSLogTabSize).
	StrategyPrecise ANSHistogramStrategy = iota
	// StrategyApproximate tries only even shifts.
	StrategyApproximate
	// StrategyFast tries only {0, ANSLogTabSize/2, ANSLogTabSize-1}.
	StrategyFast
)

func candidateShifts(strategy ANSHistogramStrategy) []int {
	switch strategy {
	case StrategyFast:
		return []int{0, ANSLogTabSize / 2, ANSLogTabSize - 1}
	case StrategyApproximate:
		shifts := make([]int, 0, ANSLogTabSize/2+1)
		for s := 0; s < ANSLogTabSize; s += 2 {
			shifts = append(shifts, s)
		}
		return shifts
	default:
		shifts := make([]int, ANSLogTabSize)
		for s := range shifts {
			shifts[s] = s
		}
		return shifts
	}
}

// dataBitsEstimate approximates the number of bits ANS will spend coding
// the symbols themselves under a normalized histogram: -log2(p[s]) per
// occurrence, summed over the population (§4.4).
func dataBitsEstimate(counts []uint32) float64 {
	var bits float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		bits += float64(c) * (float64(ANSLogTabSize) - math.Log2(float64(c)))
	}
	return bits
}

// countsBitsEstimate approximates the signaling cost of the histogram
// table itself, reusing the same run-length-aware cost model as the
// prefix-code table estimate (§4.6) since both are canonical descriptions
// of a count array.
func countsBitsEstimate(counts []uint32) float64 {
	_, st := entropyAndRuns(counts)
	return tableCost(&st)
}

// SelectedMethod is the outcome of method selection for one cluster: either
// a shift-normalized histogram, or the flat (uniform) alternative.
type SelectedMethod struct {
	Flat   bool
	Shift  int
	Counts []uint32
	Bits   float64
}

// flatHistogram assigns every nonzero symbol an equal share of ANSTabSize,
// the degenerate "method = 0" path for distributions close to uniform
// (and the only path `ans_fuzzer_friendly` streams use).
func flatHistogram(raw []uint32) []uint32 {
	out := make([]uint32, len(raw))
	var nz []int
	for i, c := range raw {
		if c > 0 {
			nz = append(nz, i)
		}
	}
	if len(nz) == 0 {
		return out
	}
	share := ANSTabSize / uint32(len(nz))
	if share == 0 {
		share = 1
	}
	var assigned uint32
	for i, idx := range nz {
		if i == len(nz)-1 {
			out[idx] = ANSTabSize - assigned
		} else {
			out[idx] = share
			assigned += share
		}
	}
	return out
}

// SelectMethod evaluates the candidate shift values (per strategy) plus the
// flat alternative for a raw count array, returning the one minimizing
// countsBitsEstimate + dataBitsEstimate.
//
// Reference: github.com/deepteams/webp internal/lossless histogramCombineGreedy's
// cost-threshold evaluation pattern (§4.2 grounding), generalized from
// "should two histograms merge" to "which shift normalizes this histogram
// most cheaply", and memoized via [[rebalance]]'s LRU so repeated
// evaluation of an identical count vector across clusters is free.
func SelectMethod(raw []uint32, strategy ANSHistogramStrategy) (SelectedMethod, error) {
	var best SelectedMethod
	best.Bits = math.Inf(1)
	found := false

	for _, shift := range candidateShifts(strategy) {
		normalized, err := RebalanceHistogram(raw, shift)
		if err != nil {
			continue
		}
		bits := countsBitsEstimate(normalized) + dataBitsEstimate(normalized)
		if !found || bits < best.Bits {
			best = SelectedMethod{Shift: shift, Counts: normalized, Bits: bits}
			found = true
		}
	}

	flat := flatHistogram(raw)
	if sumU32(flat) == ANSTabSize {
		flatBits := dataBitsEstimate(flat) // the flat marker carries no per-symbol table
		if !found || flatBits < best.Bits {
			best = SelectedMethod{Flat: true, Counts: flat, Bits: flatBits}
			found = true
		}
	}

	if !found {
		return SelectedMethod{}, newErr(InvalidInput, "SelectMethod", errors.New("no candidate shift normalized successfully"))
	}
	return best, nil
}

package entropy

import "math"

// trivialSymbol sentinel: no single symbol accounts for the whole histogram.
const trivialSymbolNone = ^uint32(0)

// Histogram holds per-symbol frequency counts for one context (or, after
// clustering, one cluster of merged contexts). Counts are indexed by
// hybrid-uint token, not raw value.
type Histogram struct {
	Counts []uint32
	Total  uint32

	trivialSymbol uint32  // sole nonzero symbol, or trivialSymbolNone
	cost          float64 // cached populationCost(Counts); valid iff costValid
	costValid     bool
}

// NewHistogram allocates a zeroed histogram over the given alphabet size.
func NewHistogram(alphabetSize int) *Histogram {
	return &Histogram{
		Counts:        make([]uint32, alphabetSize),
		trivialSymbol: trivialSymbolNone,
	}
}

// Grow extends Counts to at least size entries, preserving existing counts.
func (h *Histogram) Grow(size int) {
	if len(h.Counts) >= size {
		return
	}
	grown := make([]uint32, size)
	copy(grown, h.Counts)
	h.Counts = grown
	h.invalidate()
}

// Add increments the count at symbol by one, growing the histogram if the
// symbol falls outside its current alphabet.
func (h *Histogram) Add(symbol uint32) {
	h.AddN(symbol, 1)
}

// AddN increments the count at symbol by n.
func (h *Histogram) AddN(symbol uint32, n uint32) {
	if int(symbol) >= len(h.Counts) {
		h.Grow(int(symbol) + 1)
	}
	h.Counts[symbol] += n
	h.Total += n
	h.invalidate()
}

// Clear zeros all counts.
func (h *Histogram) Clear() {
	for i := range h.Counts {
		h.Counts[i] = 0
	}
	h.Total = 0
	h.invalidate()
}

// Clone returns a deep copy.
func (h *Histogram) Clone() *Histogram {
	c := &Histogram{
		Counts:        make([]uint32, len(h.Counts)),
		Total:         h.Total,
		trivialSymbol: h.trivialSymbol,
		cost:          h.cost,
		costValid:     h.costValid,
	}
	copy(c.Counts, h.Counts)
	return c
}

// MergeFrom adds src's counts into h, element-wise, growing h if needed.
func (h *Histogram) MergeFrom(src *Histogram) {
	if len(src.Counts) > len(h.Counts) {
		h.Grow(len(src.Counts))
	}
	for i, v := range src.Counts {
		h.Counts[i] += v
	}
	h.Total += src.Total
	h.invalidate()
}

func (h *Histogram) invalidate() {
	h.costValid = false
}

// NumSymbols returns the alphabet size (including zero-count entries).
func (h *Histogram) NumSymbols() int { return len(h.Counts) }

// Cost returns the estimated coding cost in bits: refined Shannon entropy
// plus an estimate of the canonical-code table overhead, both derived from
// run-length statistics over the count array the same way a length-limited
// Huffman build's signaling cost behaves in practice.
func (h *Histogram) Cost() float64 {
	if h.costValid {
		return h.cost
	}
	cost, trivial, _ := populationCost(h.Counts)
	h.cost = cost
	h.trivialSymbol = trivial
	h.costValid = true
	return h.cost
}

// ---------------------------------------------------------------------------
// Entropy estimation, grounded on the VP8L histogram cost model generalized
// from a fixed 5-channel pixel histogram to an arbitrary flat count array.
// ---------------------------------------------------------------------------

const fastSLog2LUTSize = 4096

var fastSLog2LUT [fastSLog2LUTSize]float64

func init() {
	fastSLog2LUT[0] = 0
	for i := 1; i < fastSLog2LUTSize; i++ {
		fv := float64(i)
		fastSLog2LUT[i] = fv * math.Log2(fv)
	}
}

// fastSLog2 computes v*log2(v) for v > 0, 0 for v == 0, via a lookup table
// for the common small-count case.
func fastSLog2(v uint32) float64 {
	if v < fastSLog2LUTSize {
		return fastSLog2LUT[v]
	}
	fv := float64(v)
	return fv * math.Log2(fv)
}

// bitEntropy accumulates the running state needed to compute refined
// Shannon entropy over a count array in one pass.
type bitEntropy struct {
	sum         uint32
	entropy     float64
	nonzeros    int
	nonzeroCode uint32
	maxVal      uint32
}

// runStats tracks zero/nonzero run-length statistics, used to estimate the
// signaling overhead a canonical code table would carry for this array.
type runStats struct {
	counts  [2]int    // [zero, nonzero] number of streaks longer than 3
	streaks [2][2]int // [zero/nonzero][streak<=3 / streak>3] total length
}

func processStreak(val uint32, i, iPrev int, be *bitEntropy, st *runStats) {
	streak := i - iPrev
	if val != 0 {
		be.sum += val * uint32(streak)
		be.nonzeros += streak
		be.nonzeroCode = uint32(iPrev)
		be.entropy += fastSLog2(val) * float64(streak)
		if be.maxVal < val {
			be.maxVal = val
		}
	}
	isNZ := 0
	if val != 0 {
		isNZ = 1
	}
	longStreak := 0
	if streak > 3 {
		longStreak = 1
	}
	st.counts[isNZ] += longStreak
	st.streaks[isNZ][longStreak] += streak
}

// entropyAndRuns walks population once, coalescing runs of equal values, to
// produce both the unrefined bit entropy and its run-length statistics.
func entropyAndRuns(population []uint32) (bitEntropy, runStats) {
	var be bitEntropy
	var st runStats
	if len(population) == 0 {
		return be, st
	}
	iPrev := 0
	prev := population[0]
	for i := 1; i < len(population); i++ {
		v := population[i]
		if v != prev {
			processStreak(prev, i, iPrev, &be, &st)
			prev = v
			iPrev = i
		}
	}
	processStreak(prev, len(population), iPrev, &be, &st)
	be.entropy = fastSLog2(be.sum) - be.entropy
	return be, st
}

// bitsEntropyRefine applies a small-alphabet heuristic correction to the
// raw Shannon estimate: with very few distinct nonzero symbols, the true
// coding cost of a canonical code is better approximated by a weighted mix
// with the theoretical 2*sum-max bound than by entropy alone.
func bitsEntropyRefine(be *bitEntropy) float64 {
	if be.nonzeros < 5 {
		switch be.nonzeros {
		case 0, 1:
			return 0
		case 2:
			return 0.99*float64(be.sum) + 0.01*be.entropy
		default:
			mix := 0.7
			if be.nonzeros == 3 {
				mix = 0.95
			}
			minLimit := mix*float64(2*be.sum-be.maxVal) + (1.0-mix)*be.entropy
			if be.entropy < minLimit {
				return minLimit
			}
			return be.entropy
		}
	}
	mix := 0.627
	minLimit := mix*float64(2*be.sum-be.maxVal) + (1.0-mix)*be.entropy
	if be.entropy < minLimit {
		return minLimit
	}
	return be.entropy
}

// BitsEntropy returns the refined Shannon-like entropy, in bits, of a
// symbol population.
func BitsEntropy(population []uint32) float64 {
	be, _ := entropyAndRuns(population)
	return bitsEntropyRefine(&be)
}

// codeLengthCodes is the alphabet size of the meta-code describing code
// lengths themselves (symbols 0..15 plus the three RLE-repeat markers).
const codeLengthCodes = 19

func initialTableCost() float64 {
	return float64(codeLengthCodes*3) - 9.1
}

// tableCost estimates the signaling overhead of a canonical code table
// built from run-length statistics: runs of equal code length compress
// well under RLE, so long runs cost much less per entry than isolated
// singleton lengths.
func tableCost(st *runStats) float64 {
	cost := initialTableCost()
	cost += float64(st.counts[0]) * 1.5625
	cost += float64(st.streaks[0][1]) * 0.234375
	cost += float64(st.counts[1]) * 2.578125
	cost += float64(st.streaks[1][1]) * 0.703125
	cost += float64(st.streaks[0][0]) * 1.796875
	cost += float64(st.streaks[1][0]) * 3.28125
	return cost
}

// populationCost returns the estimated total coding cost (entropy + table
// overhead) for a count array, along with its sole nonzero symbol index
// (trivialSymbolNone if there is more than one) and whether it carries any
// runs worth a real code table at all.
func populationCost(population []uint32) (cost float64, trivialSym uint32, isUsed bool) {
	be, st := entropyAndRuns(population)
	if be.nonzeros == 1 {
		trivialSym = be.nonzeroCode
	} else {
		trivialSym = trivialSymbolNone
	}
	isUsed = st.streaks[1][0] != 0 || st.streaks[1][1] != 0
	cost = bitsEntropyRefine(&be) + tableCost(&st)
	return cost, trivialSym, isUsed
}

// mergedCost returns the estimated cost of the element-wise sum of a and b,
// without allocating a combined histogram -- the quantity clustering needs
// to score a candidate merge.
func mergedCost(a, b *Histogram) float64 {
	n := len(a.Counts)
	if len(b.Counts) > n {
		n = len(b.Counts)
	}
	sum := make([]uint32, n)
	for i, v := range a.Counts {
		sum[i] += v
	}
	for i, v := range b.Counts {
		sum[i] += v
	}
	cost, _, _ := populationCost(sum)
	return cost
}

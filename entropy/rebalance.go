package entropy

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/dchest/siphash"

	"github.com/fenwicklabs/jxlentropy/internal/pool"
)

// dropBits returns the number of low bits a count at this shift must have
// zeroed to belong to the shift-indexed allowed-counts set: drop = min(b,
// shift) where b = floor_log2(v). shift == 0 means full precision (every
// positive integer is allowed); shift == ANSLogTabSize-1 means only the
// coarsest power-of-two approximations are allowed.
func dropBits(v uint32, shift int) int {
	if v == 0 {
		return 0
	}
	b := int(floorLog2(v))
	if shift < b {
		return shift
	}
	return b
}

// snapDown rounds v down to the nearest value in the shift-indexed
// allowed-counts set.
func snapDown(v uint32, shift int) uint32 {
	d := dropBits(v, shift)
	return (v >> uint(d)) << uint(d)
}

// entropyCost estimates the bits an ANS table with total ANSTabSize spends
// coding c occurrences of a symbol: c * log2(ANSTabSize / c), the same
// per-symbol cost shape dataBitsEstimate uses for whole-histogram method
// selection, applied here to a single bin so the rebalancing loop can score
// candidate steps by their actual entropy effect rather than by distance
// from a proportional target.
func entropyCost(c int64) float64 {
	if c <= 0 {
		return 0
	}
	return float64(c) * (float64(ANSLogTabSize) - math.Log2(float64(c)))
}

func sumU32(vs []uint32) uint32 {
	var s uint32
	for _, v := range vs {
		s += v
	}
	return s
}

// rebalanceCacheSize bounds the LRU memoizing RebalanceHistogram, trading a
// small fixed amount of memory for skipping recomputation across contexts
// that share identical count vectors (common for correlated image tiles).
const rebalanceCacheSize = 4096

// rebalanceCacheEntry pairs a cached result with the exact inputs that
// produced it: the siphash key alone only narrows candidates down to a
// single LRU slot, and a 64-bit hash can collide on inputs this module
// never controls the shape of (arbitrary per-context count vectors), so
// every lookup re-verifies counts and shift against the stored entry
// before trusting the cached output.
type rebalanceCacheEntry struct {
	counts []uint32
	shift  int
	out    []uint32
}

var (
	rebalanceCache     *lru.Cache[uint64, rebalanceCacheEntry]
	rebalanceCacheOnce sync.Once
)

// siphash key: fixed, process-local -- this cache never crosses a trust
// boundary, so the key only needs to avoid accidental collisions, not
// resist an adversarial one.
const (
	sipK0 = 0x5bd1e9955bd1e995
	sipK1 = 0xc6a4a7935bd1e995
)

func rebalanceKey(counts []uint32, shift int) uint64 {
	need := 4*len(counts) + 4
	buf := pool.Get(need)
	defer pool.Put(buf)
	for i, c := range counts {
		binary.LittleEndian.PutUint32(buf[i*4:], c)
	}
	binary.LittleEndian.PutUint32(buf[4*len(counts):], uint32(shift))
	return siphash.Hash(sipK0, sipK1, buf)
}

// RebalanceHistogram normalizes raw counts (which need not sum to any
// particular total) into a histogram whose counts sum to exactly
// ANSTabSize, snapping each count to the shift-indexed allowed-counts set
// along the way. shift must be in [0, ANSLogTabSize-1]; larger shift means
// coarser quantization.
//
// Reference: github.com/deepteams/webp internal/lossless encode_histogram.go
// (bit-cost-driven greedy refinement), generalized from Huffman code-length
// balancing to ANS frequency normalization per the allowed-counts
// construction, and github.com/flanglet/kanzi-go's entropy normalizer for
// the overall shape of a table-sum-fixing pass.
func RebalanceHistogram(counts []uint32, shift int) ([]uint32, error) {
	if shift < 0 || shift > ANSLogTabSize-1 {
		return nil, newErr(InvalidInput, "RebalanceHistogram", errors.New("shift out of range"))
	}

	rebalanceCacheOnce.Do(func() {
		rebalanceCache, _ = lru.New[uint64, rebalanceCacheEntry](rebalanceCacheSize)
	})
	key := rebalanceKey(counts, shift)
	if entry, ok := rebalanceCache.Get(key); ok && entry.shift == shift && equalU32(entry.counts, counts) {
		out := make([]uint32, len(entry.out))
		copy(out, entry.out)
		return out, nil
	}

	out, err := rebalanceHistogramUncached(counts, shift)
	if err != nil {
		return nil, err
	}
	storedCounts := make([]uint32, len(counts))
	copy(storedCounts, counts)
	storedOut := make([]uint32, len(out))
	copy(storedOut, out)
	rebalanceCache.Add(key, rebalanceCacheEntry{counts: storedCounts, shift: shift, out: storedOut})
	return out, nil
}

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func rebalanceHistogramUncached(counts []uint32, shift int) ([]uint32, error) {
	var total uint64
	var nz []int
	for i, c := range counts {
		if c > 0 {
			nz = append(nz, i)
			total += uint64(c)
		}
	}
	if len(nz) == 0 {
		return nil, newErr(InvalidInput, "RebalanceHistogram", errors.New("all counts are zero"))
	}

	out := make([]uint32, len(counts))
	if len(nz) == 1 {
		out[nz[0]] = ANSTabSize
		return out, nil
	}

	for _, i := range nz {
		c := uint64(counts[i])
		v := c * ANSTabSize / total
		rem := c*ANSTabSize - v*total
		if 2*rem >= total {
			v++
		}
		if v < 1 {
			v = 1
		}
		if v > ANSTabSize-1 {
			v = ANSTabSize - 1
		}
		out[i] = uint32(v)
	}

	// The balancing bin is the largest raw count: it is the one allowed to
	// absorb whatever residual the shift-respecting steps below cannot
	// close exactly, since a single large bin distorts proportionally the
	// least when nudged by a small amount.
	omitPos := nz[0]
	for _, i := range nz {
		if counts[i] > counts[omitPos] {
			omitPos = i
		}
	}
	for _, i := range nz {
		if i == omitPos {
			continue
		}
		out[i] = snapDown(out[i], shift)
	}

	rest := int64(ANSTabSize) - int64(sumU32(out))
	const maxIters = 4 * ANSTabSize
	for iter := 0; rest != 0; iter++ {
		if iter > maxIters {
			return nil, newErr(InternalInvariant, "RebalanceHistogram", errors.New("normalization failed to converge"))
		}

		bestIdx := -1
		var bestStep int64
		bestGain := math.Inf(-1)

		// The balancing bin's own count isn't touched by any of these
		// candidate steps directly, but it implicitly absorbs whatever
		// rest remains once the loop stops -- so its projected value (and
		// the entropy cost that implies) shifts by exactly the inverse of
		// whatever a candidate step takes from rest. Recomputing it each
		// round, per §4.3(c), is what lets the comparison below see the
		// true net entropy effect of a step rather than just its local one.
		omitProjected := int64(out[omitPos]) + rest
		curOmitCost := entropyCost(omitProjected)

		for _, i := range nz {
			if i == omitPos {
				continue
			}
			v := out[i]
			d := dropBits(v, shift)
			step := int64(1) << uint(d)
			curCost := entropyCost(int64(v)) + curOmitCost

			if rest > 0 {
				if step > rest {
					continue
				}
				newV := int64(v) + step
				omitAfter := omitProjected - step
				if omitAfter < 1 {
					continue
				}
				gain := curCost - (entropyCost(newV) + entropyCost(omitAfter))
				if gain > bestGain {
					bestGain, bestIdx, bestStep = gain, i, step
				}
			} else {
				if step > -rest || int64(v)-step < 1 {
					continue
				}
				newV := int64(v) - step
				omitAfter := omitProjected + step
				gain := curCost - (entropyCost(newV) + entropyCost(omitAfter))
				if gain > bestGain {
					bestGain, bestIdx, bestStep = gain, i, -step
				}
			}
		}

		if bestIdx == -1 {
			newVal := int64(out[omitPos]) + rest
			if newVal < 1 {
				return nil, newErr(InternalInvariant, "RebalanceHistogram", errors.New("balancing bin cannot absorb residual"))
			}
			out[omitPos] = uint32(newVal)
			rest = 0
			break
		}

		out[bestIdx] = uint32(int64(out[bestIdx]) + bestStep)
		rest -= bestStep
	}

	return out, nil
}

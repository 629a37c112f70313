package lz77

// numSpecialDistances is the size of the special-distance table: short
// 2D-locality offsets (near the same row/column as the current position
// in whatever raster order produced the token stream) get a compact code
// instead of falling through to the general distance - 1 + offset scheme.
const numSpecialDistances = 120

// specialDistanceTable lists the 120 (row, col) offsets special distances
// cover, ordered by Euclidean-ish proximity to the origin -- closer
// offsets get smaller indices and so cheaper codes. Generated once and
// reused verbatim by SpecialDistance.
var specialDistanceTable = buildSpecialDistanceTable()

type distOffset struct {
	row, col int
}

func buildSpecialDistanceTable() [numSpecialDistances]distOffset {
	// A fixed set of small (row, col) offsets, the same shape as VP8L's
	// plane-distance table generalized to a flat stream: "row" advances by
	// a caller-supplied stride (distance_multiplier), "col" is a small
	// signed offset within that stride.
	type cand struct {
		row, col int
		score    int
	}
	var cands []cand
	for row := 0; row <= 7; row++ {
		maxCol := 8
		if row == 0 {
			maxCol = 8
		}
		for col := -maxCol; col <= maxCol; col++ {
			if row == 0 && col <= 0 {
				continue
			}
			cands = append(cands, cand{row, col, row*row + col*col})
		}
	}
	// Selection sort on score: small, fixed N, no need for sort.Slice. The
	// swap is not stable, but the result is the same on every run.
	for i := 0; i < len(cands); i++ {
		best := i
		for j := i + 1; j < len(cands); j++ {
			if cands[j].score < cands[best].score {
				best = j
			}
		}
		cands[i], cands[best] = cands[best], cands[i]
	}
	var out [numSpecialDistances]distOffset
	for i := 0; i < numSpecialDistances && i < len(cands); i++ {
		out[i] = distOffset{cands[i].row, cands[i].col}
	}
	return out
}

// SpecialDistance maps special-distance index i (0-based) to the actual
// token distance under the given distance_multiplier (the caller's raster
// stride, e.g. image width; 0 or 1 disables the 2D interpretation and
// SpecialDistance degenerates to the 1D offset row+col directly). Results
// below 1 are clamped to 1 in both cases.
func SpecialDistance(i int, distanceMultiplier int) int {
	if i < 0 || i >= numSpecialDistances {
		return 0
	}
	off := specialDistanceTable[i]
	d := off.row + off.col
	if distanceMultiplier > 1 {
		d = off.row*distanceMultiplier + off.col
	}
	if d < 1 {
		d = 1
	}
	return d
}

// EncodeDistance turns an actual token distance into its wire distance
// symbol: when distanceMultiplier > 1, the index into the special-distance
// table if dist matches one exactly; otherwise (including every
// distanceMultiplier <= 1) numSpecialDistances + dist - 1.
func EncodeDistance(dist int, distanceMultiplier int) uint32 {
	if distanceMultiplier > 1 {
		for i := 0; i < numSpecialDistances; i++ {
			if SpecialDistance(i, distanceMultiplier) == dist {
				return uint32(i)
			}
		}
	}
	return uint32(numSpecialDistances + dist - 1)
}

// DecodeDistance is the inverse of EncodeDistance.
func DecodeDistance(symbol uint32, distanceMultiplier int) int {
	if symbol < numSpecialDistances {
		return SpecialDistance(int(symbol), distanceMultiplier)
	}
	return int(symbol) - numSpecialDistances + 1
}

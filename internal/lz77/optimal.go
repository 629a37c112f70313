package lz77

// Optimal runs a shortest-path DP over stream positions: each edge is
// either (literal, length 1) or (match, length k >= minLength) found via
// the hash chain, weighted by model's cost estimates. The cheapest path
// from 0 to len(values) is reconstructed by backtracking from the end.
//
// Reference: §4.8 "Optimal parse". Optimal uses model exactly as given: it
// does not run Greedy first, does not rebuild the model from any earlier
// pass, and does not check the enable rule itself (ShouldEnable does that
// for a Parse's BitsSaved).
func Optimal(values []uint32, minLength int, model *CostModel) Parse {
	n := len(values)
	if n == 0 {
		return Parse{}
	}
	hc := NewHashChain(values)
	defer hc.Release()

	const inf = 1e18
	cost := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		cost[i] = inf
	}
	// predLength/predDistance describe the edge arriving at position i;
	// predDistance == 0 marks a literal edge.
	predLength := make([]int, n+1)
	predDistance := make([]int, n+1)

	pos := 0
	for pos < n {
		// Literal edge.
		next := cost[pos] + model.LiteralCost(values[pos])
		if next < cost[pos+1] {
			cost[pos+1] = next
			predLength[pos+1] = 1
			predDistance[pos+1] = 0
		}

		bestLength, bestDistance, ok := hc.BestMatch(pos, minLength)
		if ok {
			// RLE acceleration: a long run at distance 1 has the same
			// best match (length, distance=1) at every position inside
			// it, so only the run's boundary positions need their own DP
			// relaxation; the interior is covered by edges reaching in
			// from the boundary with shorter lengths.
			step := 1
			if bestDistance == 1 && bestLength > 8 {
				step = bestLength - 4 // leave the first/last few positions individually reachable
				if step < 1 {
					step = 1
				}
			}
			for k := minLength; k <= bestLength; k += step {
				if k > bestLength {
					k = bestLength
				}
				edgeCost := cost[pos] + model.MatchCost(k) + AddSymbolPenalty
				if edgeCost < cost[pos+k] {
					cost[pos+k] = edgeCost
					predLength[pos+k] = k
					predDistance[pos+k] = bestDistance
				}
				if k == bestLength {
					break
				}
			}
		}
		pos++
	}

	// Backtrack from n to reconstruct the chosen matches, then reverse.
	var matches []Match
	i := n
	for i > 0 {
		length := predLength[i]
		if length == 0 {
			length = 1
		}
		distance := predDistance[i]
		start := i - length
		if distance > 0 {
			matches = append(matches, Match{Pos: start, Length: length, Distance: distance})
		}
		i = start
	}
	for a, b := 0, len(matches)-1; a < b; a, b = a+1, b-1 {
		matches[a], matches[b] = matches[b], matches[a]
	}

	literalOnlyCost := model.LiteralsCost(values)
	return Parse{Matches: matches, BitsSaved: literalOnlyCost - cost[n]}
}

// ShouldEnable applies the §4.8 enable rule: a mode's estimated bit
// decrease must exceed totalSymbols * 0.2 + 16 to be worth the model
// overhead of describing length/distance contexts at all.
func ShouldEnable(bitsSaved float64, totalSymbols int) bool {
	return bitsSaved > float64(totalSymbols)*0.2+16
}

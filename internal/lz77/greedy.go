package lz77

// Match is one emitted back-reference: [Pos, Pos+Length) is replaced by a
// reference Distance positions back. A Parse is the full decomposition of
// a stream into literals (the gaps between matches) and matches.
type Match struct {
	Pos, Length, Distance int
}

// Parse is the output of a pre-pass: the matches chosen, in position
// order and non-overlapping. Everything not covered by a Match is an
// ordinary literal token.
type Parse struct {
	Matches   []Match
	BitsSaved float64 // estimated bits saved over an all-literal encoding
}

// Greedy runs the greedy-with-one-symbol-lookahead (lazy matching) pass:
// at each position, find the best match via the hash chain; before
// committing, check whether starting the match one position later would
// be strictly better (lazy matching), and only then emit.
//
// Reference: §4.8 "Greedy LZ77" -- direct generalization of VP8L's
// BackwardReferencesHashChain (internal/lossless/encode_backward.go's
// greedy path) from ARGB pixels to token values.
func Greedy(values []uint32, minLength int, model *CostModel) Parse {
	hc := NewHashChain(values)
	defer hc.Release()
	var matches []Match
	var saved float64

	pos := 0
	for pos < len(values) {
		length, distance, ok := hc.BestMatch(pos, minLength)
		if !ok {
			pos++
			continue
		}
		if pos+1 < len(values) {
			nextLength, _, nextOK := hc.BestMatch(pos+1, minLength)
			if nextOK && nextLength > length+1 {
				// Lazy matching: deferring one position yields a strictly
				// longer match than taking this one now.
				pos++
				continue
			}
		}
		literalCost := model.LiteralsCost(values[pos : pos+length])
		matchCost := model.MatchCost(length) + AddSymbolPenalty
		if matchCost >= literalCost {
			pos++
			continue
		}
		matches = append(matches, Match{Pos: pos, Length: length, Distance: distance})
		saved += literalCost - matchCost
		pos += length
	}
	return Parse{Matches: matches, BitsSaved: saved}
}

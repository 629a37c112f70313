package entropy

import "errors"

// AliasTable is the O(1)-sampling structure built over a normalized
// histogram: bucket s (one per alphabet symbol) holds entrySize = 2^(L -
// log_alpha_size) slots. Cutoff[s] of those slots belong to symbol s
// itself; the remaining entrySize-Cutoff[s] slots are donated from (or to)
// Other[s], following the classic Vose alias-method construction.
//
// Reference: the alias-method shape is generic (Vose 1991); adapted here
// to the bucket-per-symbol layout github.com/deepteams/webp's Huffman
// builder would recognize as the ANS analogue of its canonical code
// table, since both exist to let the token writer look up a symbol's
// coding parameters in O(1).
type AliasTable struct {
	LogAlphaSize int
	EntrySize    uint32
	Cutoff       []uint32
	Other        []uint16
}

// BuildAliasTable constructs the alias table for a normalized histogram
// whose counts sum to exactly ANSTabSize. logAlphaSize must be large
// enough that 1<<logAlphaSize covers the full alphabet (len(counts)).
func BuildAliasTable(counts []uint32, logAlphaSize int) (*AliasTable, error) {
	if logAlphaSize < MinANSLogAlphaSize || logAlphaSize > MaxANSLogAlphaSize {
		return nil, newErr(InvalidInput, "BuildAliasTable", errors.New("log_alpha_size out of range"))
	}
	k := 1 << uint(logAlphaSize)
	if len(counts) > k {
		return nil, newErr(InvalidInput, "BuildAliasTable", errors.New("alphabet larger than 1<<log_alpha_size"))
	}
	if ANSLogTabSize < logAlphaSize {
		return nil, newErr(InvalidInput, "BuildAliasTable", errors.New("log_alpha_size exceeds ANSLogTabSize"))
	}
	entrySize := uint32(1) << uint(ANSLogTabSize-logAlphaSize)

	var sum uint32
	cutoff := make([]uint32, k)
	other := make([]uint16, k)
	for s := 0; s < k; s++ {
		other[s] = uint16(s)
		var c uint32
		if s < len(counts) {
			c = counts[s]
		}
		cutoff[s] = c
		sum += c
	}
	if sum != ANSTabSize {
		return nil, newErr(InvalidInput, "BuildAliasTable", errors.New("counts do not sum to ANSTabSize"))
	}

	var small, large []int
	for s := 0; s < k; s++ {
		switch {
		case cutoff[s] < entrySize:
			small = append(small, s)
		case cutoff[s] > entrySize:
			large = append(large, s)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		sIdx := small[len(small)-1]
		small = small[:len(small)-1]
		lIdx := large[len(large)-1]
		large = large[:len(large)-1]

		other[sIdx] = uint16(lIdx)
		donated := entrySize - cutoff[sIdx]
		cutoff[lIdx] -= donated

		switch {
		case cutoff[lIdx] < entrySize:
			small = append(small, lIdx)
		case cutoff[lIdx] > entrySize:
			large = append(large, lIdx)
		}
	}
	// Any bins left in either queue at this point are exactly balanced
	// already (their surplus/deficit was fully settled by the last swap
	// that moved them out of the opposite queue) or are floating-point-free
	// integer residue of one unit from the swaps above; pin them to a
	// self-aliased full bucket so every slot is still accounted for.
	for _, idx := range small {
		cutoff[idx] = entrySize
	}
	for _, idx := range large {
		cutoff[idx] = entrySize
	}

	return &AliasTable{
		LogAlphaSize: logAlphaSize,
		EntrySize:    entrySize,
		Cutoff:       cutoff,
		Other:        other,
	}, nil
}

// ReverseMap expands the alias table into the per-symbol slot lists the
// ANS token writer needs: reverse_map[s] lists every global index in
// [0, ANSTabSize) that maps to symbol s, in increasing order.
func (a *AliasTable) ReverseMap() [][]uint32 {
	k := len(a.Cutoff)
	reverse := make([][]uint32, k)
	for s := 0; s < k; s++ {
		if a.Cutoff[s] > 0 || a.Other[s] == uint16(s) {
			reverse[s] = make([]uint32, 0, a.EntrySize)
		}
	}
	for bucket := 0; bucket < k; bucket++ {
		base := uint32(bucket) * a.EntrySize
		cutoff := a.Cutoff[bucket]
		for off := uint32(0); off < cutoff; off++ {
			reverse[bucket] = append(reverse[bucket], base+off)
		}
		alt := a.Other[bucket]
		for off := cutoff; off < a.EntrySize; off++ {
			reverse[alt] = append(reverse[alt], base+off)
		}
	}
	return reverse
}

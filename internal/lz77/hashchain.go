// Package lz77 implements the back-reference pre-pass applied to a token
// stream before histogram building: RLE, greedy (with lazy matching), and
// DP-based optimal parsing over a hash-chained match window.
//
// Reference: github.com/deepteams/webp internal/lossless's HashChain
// (VP8L backward_references_enc.c), generalized from a 2D ARGB pixel grid
// to a flat stream of context-tagged uint32 token values.
package lz77

import (
	"github.com/cespare/xxhash/v2"

	"github.com/fenwicklabs/jxlentropy/internal/pool"
)

const (
	// hashBits sizes the hash table; 15 bits covers the window comfortably
	// without the 18-bit table the pixel-grid teacher used, since token
	// streams are typically far shorter than full images.
	hashBits = 15
	hashSize = 1 << hashBits

	// MaxChainLength bounds how many hash-chain predecessors a single
	// position will walk before giving up on a better match.
	MaxChainLength = 256

	// MaxMatchLength caps a single match's length.
	MaxMatchLength = 1 << 20

	// WindowSize is the maximum back-reference distance considered.
	WindowSize = 1 << 20
)

// hash3 hashes three consecutive token values -- the minimum window that
// still discriminates usefully for min_length == 3 matches.
func hash3(values []uint32, pos int) uint32 {
	var buf [12]byte
	for i := 0; i < 3; i++ {
		v := values[pos+i]
		buf[4*i] = byte(v)
		buf[4*i+1] = byte(v >> 8)
		buf[4*i+2] = byte(v >> 16)
		buf[4*i+3] = byte(v >> 24)
	}
	return uint32(xxhash.Sum64(buf[:])) & (hashSize - 1)
}

// HashChain indexes a token stream for 3-symbol match lookups: for each
// hash bucket, the most recent position with that hash, and for each
// position, the previous position sharing its hash (an explicit
// index-based linked list, not a pointer graph, so it survives being
// passed across goroutines or serialized for diagnostics).
type HashChain struct {
	values []uint32
	head   []int32 // hashSize buckets; -1 = empty
	prev   []int32 // per-position back-link; -1 = chain end
}

// NewHashChain builds a hash chain over values, ready for BestMatch lookups.
// Positions with fewer than 3 remaining values never get hashed (they
// cannot start a 3-symbol match) but are still valid match targets/ends.
func NewHashChain(values []uint32) *HashChain {
	hc := &HashChain{
		values: values,
		head:   pool.GetInt32(hashSize),
		prev:   pool.GetInt32(len(values)),
	}
	for i := range hc.head {
		hc.head[i] = -1
	}
	for pos := 0; pos+3 <= len(values); pos++ {
		h := hash3(values, pos)
		hc.prev[pos] = hc.head[h]
		hc.head[h] = int32(pos)
	}
	return hc
}

// Release returns the hash chain's scratch arrays to the pool. After
// calling Release, hc must not be used again.
func (hc *HashChain) Release() {
	pool.PutInt32(hc.head)
	pool.PutInt32(hc.prev)
	hc.head, hc.prev = nil, nil
}

// matchLength returns how many consecutive values starting at a and b
// agree, capped by the stream length and MaxMatchLength.
func (hc *HashChain) matchLength(a, b int) int {
	values := hc.values
	limit := len(values) - b
	if cap := len(values) - a; cap < limit {
		limit = cap
	}
	if limit > MaxMatchLength {
		limit = MaxMatchLength
	}
	n := 0
	for n < limit && values[a+n] == values[b+n] {
		n++
	}
	return n
}

// BestMatch walks up to MaxChainLength predecessors sharing pos's 3-symbol
// hash and returns the longest match found within the window, along with
// its distance. ok is false when no match of at least minLength exists.
func (hc *HashChain) BestMatch(pos, minLength int) (length, distance int, ok bool) {
	if pos+3 > len(hc.values) {
		return 0, 0, false
	}
	minPos := pos - WindowSize
	if minPos < 0 {
		minPos = 0
	}
	h := hash3(hc.values, pos)
	cand := hc.head[h]
	// The chain covers the whole stream, so skip entries at or after pos.
	for cand >= 0 && int(cand) >= pos {
		cand = hc.prev[cand]
	}
	iters := MaxChainLength
	bestLen := 0
	bestDist := 0
	for cand >= 0 && int(cand) >= minPos && int(cand) < pos && iters > 0 {
		iters--
		l := hc.matchLength(int(cand), pos)
		if l > bestLen {
			bestLen = l
			bestDist = pos - int(cand)
		}
		cand = hc.prev[cand]
	}
	if bestLen < minLength {
		return 0, 0, false
	}
	return bestLen, bestDist, true
}

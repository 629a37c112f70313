package entropy

import (
	"container/heap"

	"golang.org/x/exp/slices"
)

// PrefixCode holds a length-limited canonical Huffman code built over a
// token alphabet: CodeLengths[s] is the codeword depth for symbol s (0 if
// unused), Codes[s] its bit-reversed codeword (so a little-endian bit sink
// can write it MSB-first simply by writing the reversed bits LSB-first).
type PrefixCode struct {
	NumSymbols  int
	CodeLengths []uint8
	Codes       []uint16
}

type huffmanNode struct {
	count uint32
	value int // symbol index for leaves, -1 for internal nodes
	left  int
	right int
}

type nodeHeap struct {
	pool    []huffmanNode
	indices []int
}

func (h *nodeHeap) Len() int { return len(h.indices) }
func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.pool[h.indices[i]], h.pool[h.indices[j]]
	if a.count != b.count {
		return a.count < b.count
	}
	return h.indices[i] < h.indices[j]
}
func (h *nodeHeap) Swap(i, j int)      { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }
func (h *nodeHeap) Push(x interface{}) { h.indices = append(h.indices, x.(int)) }
func (h *nodeHeap) Pop() interface{} {
	old := h.indices
	n := len(old)
	idx := old[n-1]
	h.indices = old[:n-1]
	return idx
}

// BuildPrefixCode constructs a length-limited canonical Huffman code over
// histogram, with max code length maxBits (PrefixMaxBits on the wire path).
// Ties in the tree-building heap and in canonical-code assignment are both
// broken by ascending symbol index.
//
// Reference: github.com/deepteams/webp internal/lossless encode_huffman.go
// CreateHuffmanTree / buildTreeAndExtractLengths / generateCanonicalCodes,
// generalized from a fixed VP8L alphabet to an arbitrary token alphabet up
// to PrefixMaxAlphabetSize, with the count_min-doubling retry loop kept
// verbatim since it is the part that actually enforces the length limit.
func BuildPrefixCode(histogram []uint32, maxBits int) (*PrefixCode, error) {
	if len(histogram) > PrefixMaxAlphabetSize {
		return nil, newErr(InvalidInput, "BuildPrefixCode", errOversizedAlphabet)
	}
	code := &PrefixCode{
		NumSymbols:  len(histogram),
		CodeLengths: make([]uint8, len(histogram)),
		Codes:       make([]uint16, len(histogram)),
	}

	var nonZero []int
	for i, c := range histogram {
		if c > 0 {
			nonZero = append(nonZero, i)
		}
	}

	switch len(nonZero) {
	case 0:
		return code, nil
	case 1:
		code.CodeLengths[nonZero[0]] = 1
		generateCanonicalCodes(code)
		return code, nil
	case 2:
		code.CodeLengths[nonZero[0]] = 1
		code.CodeLengths[nonZero[1]] = 1
		generateCanonicalCodes(code)
		return code, nil
	}

	if err := buildLimitedTree(histogram, maxBits, code.CodeLengths); err != nil {
		return nil, err
	}
	generateCanonicalCodes(code)
	return code, nil
}

// buildLimitedTree runs the standard Huffman-tree build, and whenever the
// resulting depth exceeds the limit, doubles the floor applied to every
// leaf's count and rebuilds -- flattening the frequency skew just enough
// to pull the deepest leaf back within bounds. This always terminates:
// once every leaf's effective count is equal, the tree is balanced and its
// depth is ceil(log2(numSymbols)).
func buildLimitedTree(histogram []uint32, limit int, codeLengths []uint8) error {
	numSymbols := len(histogram)
	const maxRetries = 64

	for countMin, retry := uint32(1), 0; ; countMin, retry = countMin*2, retry+1 {
		if retry > maxRetries {
			return newErr(InternalInvariant, "buildLimitedTree", errCodeLengthLimitUnreachable)
		}
		for i := range codeLengths {
			codeLengths[i] = 0
		}

		h := &nodeHeap{pool: make([]huffmanNode, 0, 2*numSymbols+1)}
		for sym := 0; sym < numSymbols; sym++ {
			if histogram[sym] == 0 {
				continue
			}
			count := histogram[sym]
			if count < countMin {
				count = countMin
			}
			idx := len(h.pool)
			h.pool = append(h.pool, huffmanNode{count: count, value: sym, left: -1, right: -1})
			h.indices = append(h.indices, idx)
		}
		if len(h.indices) == 1 {
			codeLengths[h.pool[h.indices[0]].value] = 1
			return nil
		}

		heap.Init(h)
		for h.Len() > 1 {
			l := heap.Pop(h).(int)
			r := heap.Pop(h).(int)
			parent := len(h.pool)
			h.pool = append(h.pool, huffmanNode{
				count: h.pool[l].count + h.pool[r].count,
				value: -1, left: l, right: r,
			})
			heap.Push(h, parent)
		}

		assignDepths(h.pool, h.indices[0], 0, codeLengths)

		maxDepth := 0
		for _, cl := range codeLengths {
			if int(cl) > maxDepth {
				maxDepth = int(cl)
			}
		}
		if maxDepth <= limit {
			return nil
		}
	}
}

func assignDepths(pool []huffmanNode, nodeIdx, depth int, codeLengths []uint8) {
	n := &pool[nodeIdx]
	if n.value >= 0 {
		codeLengths[n.value] = uint8(depth)
		return
	}
	if n.left >= 0 {
		assignDepths(pool, n.left, depth+1, codeLengths)
	}
	if n.right >= 0 {
		assignDepths(pool, n.right, depth+1, codeLengths)
	}
}

type symbolLength struct {
	symbol int
	length uint8
}

// generateCanonicalCodes assigns codewords in increasing (length, symbol)
// order and bit-reverses each one, the standard canonical-Huffman
// construction.
func generateCanonicalCodes(code *PrefixCode) {
	maxLen := 0
	for _, cl := range code.CodeLengths {
		if int(cl) > maxLen {
			maxLen = int(cl)
		}
	}
	if maxLen == 0 {
		return
	}

	var symbols []symbolLength
	for i, cl := range code.CodeLengths {
		if cl > 0 {
			symbols = append(symbols, symbolLength{i, cl})
		}
	}
	slices.SortFunc(symbols, func(a, b symbolLength) bool {
		if a.length != b.length {
			return a.length < b.length
		}
		return a.symbol < b.symbol
	})

	var c uint32
	var prevLen uint8
	for _, s := range symbols {
		if s.length > prevLen {
			c <<= s.length - prevLen
			prevLen = s.length
		}
		code.Codes[s.symbol] = reverseBits(c, int(s.length))
		c++
	}
}

func reverseBits(v uint32, nBits int) uint16 {
	var r uint32
	for i := 0; i < nBits; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return uint16(r)
}

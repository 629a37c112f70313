package entropy

import "testing"

func TestBuildPrefixCode_EmptyHistogram(t *testing.T) {
	code, err := BuildPrefixCode(make([]uint32, 8), PrefixMaxBits)
	if err != nil {
		t.Fatal(err)
	}
	for i, cl := range code.CodeLengths {
		if cl != 0 {
			t.Errorf("CodeLengths[%d] = %d, want 0", i, cl)
		}
	}
}

func TestBuildPrefixCode_SingleAndTwoSymbols(t *testing.T) {
	h1 := []uint32{0, 0, 7, 0}
	c1, err := BuildPrefixCode(h1, PrefixMaxBits)
	if err != nil {
		t.Fatal(err)
	}
	if c1.CodeLengths[2] != 1 {
		t.Errorf("single-symbol code length = %d, want 1", c1.CodeLengths[2])
	}

	h2 := []uint32{0, 5, 0, 9}
	c2, err := BuildPrefixCode(h2, PrefixMaxBits)
	if err != nil {
		t.Fatal(err)
	}
	if c2.CodeLengths[1] != 1 || c2.CodeLengths[3] != 1 {
		t.Errorf("two-symbol code lengths = %v, want 1 and 1", c2.CodeLengths)
	}
}

// verifyPrefixFree checks the Kraft-inequality-implied prefix-free property
// directly: no codeword (as its length-prefix bitstring) is a prefix of
// another, which is the property that lets a decoder parse the stream
// unambiguously.
func verifyPrefixFree(t *testing.T, code *PrefixCode) {
	t.Helper()
	type cw struct {
		bits   string
		symbol int
	}
	var all []cw
	for s, l := range code.CodeLengths {
		if l == 0 {
			continue
		}
		v := code.Codes[s]
		bits := make([]byte, l)
		for i := 0; i < int(l); i++ {
			if v&1 == 1 {
				bits[i] = '1'
			} else {
				bits[i] = '0'
			}
			v >>= 1
		}
		all = append(all, cw{string(bits), s})
	}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			a, b := all[i].bits, all[j].bits
			if len(a) <= len(b) && b[:len(a)] == a {
				t.Errorf("codeword for symbol %d (%q) is a prefix of symbol %d's (%q)",
					all[i].symbol, a, all[j].symbol, b)
			}
		}
	}
}

func TestBuildPrefixCode_IsPrefixFree(t *testing.T) {
	histos := [][]uint32{
		{10, 1, 1, 1, 1, 1, 1, 1},
		{100, 50, 25, 12, 6, 3, 1, 1},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
	}
	for _, h := range histos {
		code, err := BuildPrefixCode(h, PrefixMaxBits)
		if err != nil {
			t.Fatal(err)
		}
		verifyPrefixFree(t, code)
	}
}

func TestBuildPrefixCode_RespectsMaxBits(t *testing.T) {
	// A strongly skewed histogram (Fibonacci-like) is the classic case
	// that drives unconstrained Huffman trees deeper than a short limit.
	histogram := make([]uint32, 40)
	a, b := uint32(1), uint32(1)
	for i := range histogram {
		histogram[i] = a
		a, b = b, a+b
	}
	const limit = 6
	code, err := BuildPrefixCode(histogram, limit)
	if err != nil {
		t.Fatal(err)
	}
	for s, cl := range code.CodeLengths {
		if int(cl) > limit {
			t.Errorf("symbol %d: code length %d exceeds limit %d", s, cl, limit)
		}
	}
	verifyPrefixFree(t, code)
}

func TestBuildPrefixCode_RejectsOversizedAlphabet(t *testing.T) {
	_, err := BuildPrefixCode(make([]uint32, PrefixMaxAlphabetSize+1), PrefixMaxBits)
	if err == nil {
		t.Fatal("expected error for alphabet exceeding PrefixMaxAlphabetSize")
	}
}

// Package entropy implements the entropy-coding core of a JPEG XL-style
// image codec: hybrid-uint token splitting, context clustering, ANS
// histogram normalization and alias-table construction, length-limited
// prefix codes, and the forward (encode-only) token writer.
//
// Reference: github.com/deepteams/webp internal/lossless (VP8L's
// backward-reference + histogram + Huffman pipeline), generalized from
// fixed five-channel pixel histograms to an arbitrary per-context
// clustering scheme, and github.com/flanglet/kanzi-go's entropy package
// (ANSRangeCodec, EntropyUtils) for the rANS/normalization shape.
package entropy

// Wire constants (must match a conforming decoder bit-for-bit).
const (
	// ANSLogTabSize is L, the log2 of the ANS table total.
	ANSLogTabSize = 12
	// ANSTabSize is 2^L.
	ANSTabSize = 1 << ANSLogTabSize
	// ANSMaxAlphabetSize bounds the symbol alphabet for the ANS path.
	ANSMaxAlphabetSize = 256
	// PrefixMaxBits is the maximum canonical Huffman code length.
	PrefixMaxBits = 15
	// PrefixMaxAlphabetSize bounds the symbol alphabet for the prefix path.
	PrefixMaxAlphabetSize = 4096
	// ClustersLimit caps the number of histogram clusters per stream.
	ClustersLimit = 64
	// WindowSize is the maximum LZ77 back-reference distance.
	WindowSize = 1 << 20
	// JpegHuffmanRootTableBits sizes the root decode table for legacy
	// JPEG Huffman trees carried through unchanged for wire compatibility.
	JpegHuffmanRootTableBits = 8
	// MinANSLogAlphaSize / MaxANSLogAlphaSize bound log_alpha_size for the
	// ANS path (2-bit field on the wire, biased by 5).
	MinANSLogAlphaSize = 5
	MaxANSLogAlphaSize = 8
)

// logCountRLEEscape is the logcount value repurposed as a run-length escape
// marker when 5 or more consecutive symbols share the same logcount.
const logCountRLEEscape = 13

// logCountMaxBits bounds the static logcount code's depth, well inside
// PrefixMaxBits.
const logCountMaxBits = 8

// logCountWeights is the fixed frequency model the static logcount code is
// built from: small logcounts dominate a normalized ANSTabSize histogram
// (most bins end up with a small snapped count after RebalanceHistogram),
// and the RLE-escape symbol is common too, since long runs of equal small
// logcounts are exactly what it exists to collapse.
var logCountWeights = [14]uint32{
	120, 40, 30, 24, 20, 16, 13, 11, 9, 7, 5, 4, 3, 60,
}

// kLogCountBitLengths and kLogCountSymbols hold the static canonical
// Huffman code used to write each per-symbol logcount in the non-flat ANS
// histogram serialization path (writeLogCountSymbol in serialize.go):
// kLogCountBitLengths[v] is the codeword depth for logcount v (or the
// escape symbol logCountRLEEscape), kLogCountSymbols[v] its bit-reversed
// codeword, ready for direct use with bitio.Writer.Write. Built once at
// init time via BuildPrefixCode over logCountWeights, the same
// length-limited canonical construction used everywhere else in this
// package, so the result is guaranteed to be a valid prefix code (Kraft
// sum <= 1, every codeword fits its declared length) rather than a
// hand-transcribed table that can silently drift out of agreement with
// itself.
var kLogCountBitLengths [14]uint8
var kLogCountSymbols [14]uint16

func init() {
	pc, err := BuildPrefixCode(logCountWeights[:], logCountMaxBits)
	if err != nil {
		panic("entropy: failed to build static logcount code: " + err.Error())
	}
	for i := range logCountWeights {
		kLogCountBitLengths[i] = pc.CodeLengths[i]
		kLogCountSymbols[i] = pc.Codes[i]
	}
}

// hybridUintMaxSplit caps split_exponent so symbol indices stay well within
// PrefixMaxAlphabetSize / ANSMaxAlphabetSize for any selectable config.
const hybridUintMaxSplit = 20

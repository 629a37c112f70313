package entropy

import (
	"errors"

	"github.com/fenwicklabs/jxlentropy/bitio"
)

// SerializeModel writes an EntropyEncodingData's header to w, in the order
// WriteTokens' companion reader would expect to consume it: LZ77
// flag/params, context map, use_prefix_code bit, log_alpha_size (ANS only),
// then per-cluster hybrid-uint config and code table.
//
// Reference: §4.10. This package is encode-only (no conforming reader is
// implemented), so the exact field widths below are an internally
// consistent design rather than a port of a specific decoder; each
// sub-encoding is still grounded on a named technique from §4.10.
func SerializeModel(w *bitio.Writer, model *EntropyEncodingData) error {
	writeLZ77Params(w, model.LZ77)

	if err := writeContextMap(w, model.ContextMap, model.NumClusters); err != nil {
		return err
	}

	if model.UsePrefixCode {
		w.Write(1, 1)
	} else {
		w.Write(1, 0)
		w.Write(2, uint64(model.LogAlphaSize)-MinANSLogAlphaSize)
	}

	for i, cluster := range model.Clusters {
		writeUintConfig(w, cluster.UintConfig)
		if model.UsePrefixCode {
			if cluster.Prefix == nil {
				return newErr(InternalInvariant, "SerializeModel", errors.New("prefix path cluster missing its prefix code"))
			}
			writeVarLenUint16(w, uint32(len(cluster.Prefix.CodeLengths)))
			if err := writePrefixCode(w, cluster.Prefix); err != nil {
				return err
			}
		} else {
			if err := writeANSHistogram(w, cluster.Counts); err != nil {
				return errors.Join(err, errors.New("cluster "+itoa(i)))
			}
		}
	}
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func writeLZ77Params(w *bitio.Writer, p LZ77Params) {
	if !p.Enabled {
		w.Write(1, 0)
		return
	}
	w.Write(1, 1)
	writeVarLenUint16(w, p.MinSymbol)
	writeVarLenUint16(w, p.MinLength)
	w.Write(8, uint64(p.DistanceContext))
	writeVarLenUint16(w, uint32(p.DistanceMultiplier))
	writeUintConfig(w, p.LengthConfig)
}

// writeContextMap emits the per-context cluster assignment. With a single
// cluster the mapping is trivial and costs nothing on the wire; otherwise
// it is entropy-coded with its own (always prefix) code, same technique as
// the per-cluster code tables but self-contained since the context map has
// no ANS path of its own.
func writeContextMap(w *bitio.Writer, contextMap []uint32, numClusters int) error {
	if numClusters < 2 {
		return nil
	}
	counts := make([]uint32, numClusters)
	for _, c := range contextMap {
		counts[c]++
	}
	code, err := BuildPrefixCode(counts, PrefixMaxBits)
	if err != nil {
		return err
	}
	if err := writePrefixCode(w, code); err != nil {
		return err
	}
	for _, c := range contextMap {
		w.Write(int(code.CodeLengths[c]), uint64(code.Codes[c]))
	}
	return nil
}

// writeUintConfig encodes a HybridUintConfig triple with fixed-width
// fields sized for the catalogue in hybriduint.go (split_exponent never
// exceeds hybridUintMaxSplit; msb/lsb never exceed split_exponent).
func writeUintConfig(w *bitio.Writer, cfg UintConfig) {
	w.Write(5, uint64(cfg.SplitExponent))
	w.Write(4, uint64(cfg.MSBInToken))
	w.Write(4, uint64(cfg.LSBInToken))
}

// writeVarLenUint writes v as a (bit-length, bits) pair: lenFieldBits bits
// giving the number of bits needed to hold v (0 when v == 0), followed by
// v in that many bits. This is the "Elias-gamma-like shift code" /
// "varlen-uintN" construction §4.10 refers to without pinning an exact bit
// layout.
func writeVarLenUint(w *bitio.Writer, v uint32, lenFieldBits int) {
	nbits := 0
	if v > 0 {
		nbits = int(floorLog2(v)) + 1
	}
	w.Write(lenFieldBits, uint64(nbits))
	if nbits > 0 {
		w.Write(nbits, uint64(v))
	}
}

func writeVarLenUint8(w *bitio.Writer, v uint32)  { writeVarLenUint(w, v, 4) }
func writeVarLenUint16(w *bitio.Writer, v uint32) { writeVarLenUint(w, v, 5) }

// writePrefixCode emits a canonical Huffman table as its per-symbol code
// lengths (RLE-able as a varlen-uint8 run would be, but written literally
// here per symbol since §4.10's RLE construction is specified only for the
// logcount-table encoding of ANS histograms, not prefix tables).
func writePrefixCode(w *bitio.Writer, code *PrefixCode) error {
	if len(code.CodeLengths) > PrefixMaxAlphabetSize {
		return newErr(EncodingRejected, "writePrefixCode", errOversizedAlphabet)
	}
	for _, l := range code.CodeLengths {
		w.Write(4, uint64(l)) // PrefixMaxBits == 15, fits in 4 bits
	}
	return nil
}

// writeANSHistogram emits one cluster's ANS frequency table: a small-tree
// marker for 0/1/2-symbol histograms, a flat marker when every nonzero
// count is equal (the rebalancer's flat path), or the general non-flat
// logcount/precision encoding otherwise.
//
// Reference: §4.10 non-flat path; the logcount static code is
// kLogCountBitLengths/kLogCountSymbols (constants.go).
const (
	histoMarkerEmpty   = 0
	histoMarkerOne     = 1
	histoMarkerTwo     = 2
	histoMarkerFlat    = 3
	histoMarkerGeneral = 4
)

func writeANSHistogram(w *bitio.Writer, counts []uint32) error {
	nonZero := nonZeroIndices(counts)
	switch len(nonZero) {
	case 0:
		w.Write(3, histoMarkerEmpty)
		return nil
	case 1:
		w.Write(3, histoMarkerOne)
		writeVarLenUint16(w, uint32(nonZero[0]))
		return nil
	case 2:
		w.Write(3, histoMarkerTwo)
		writeVarLenUint16(w, uint32(nonZero[0]))
		writeVarLenUint16(w, uint32(nonZero[1]))
		w.Write(ANSLogTabSize, uint64(counts[nonZero[0]]))
		return nil
	}

	if isFlatHistogram(counts, nonZero) {
		w.Write(3, histoMarkerFlat)
		writeVarLenUint16(w, uint32(len(counts)))
		return nil
	}

	w.Write(3, histoMarkerGeneral)
	shift := inferShift(counts)
	writeVarLenUint8(w, uint32(shift))
	writeVarLenUint8(w, uint32(len(counts)-3))

	omitPos := omitPosOf(counts)
	logcounts := make([]int, len(counts))
	for i, c := range counts {
		logcounts[i] = logcountOf(c)
	}
	if logcounts[omitPos] < logCountRLEEscape-1 {
		logcounts[omitPos]++
	}

	if err := writeLogCounts(w, logcounts); err != nil {
		return err
	}
	for i, c := range counts {
		if i == omitPos || c == 0 {
			continue
		}
		width := precisionBits(logcountOf(c))
		if width == 0 {
			continue
		}
		base := uint32(1) << (logcountOf(c) - 1)
		w.Write(width, uint64(c-base))
	}
	return nil
}

func nonZeroIndices(counts []uint32) []int {
	var out []int
	for i, c := range counts {
		if c > 0 {
			out = append(out, i)
		}
	}
	return out
}

func isFlatHistogram(counts []uint32, nonZero []int) bool {
	if len(nonZero) == 0 {
		return false
	}
	first := counts[nonZero[0]]
	for _, i := range nonZero[1:] {
		if counts[i] != first {
			return false
		}
	}
	return true
}

// inferShift recovers a shift value consistent with the snapped counts,
// used purely as a serialization hint -- RebalanceHistogram's caller is
// expected to thread the actual shift through in a future revision of
// ClusterCode; until then this conservatively reports the coarsest shift
// the counts are compatible with (the omit bin, which absorbs the
// remainder, is not checked).
func inferShift(counts []uint32) int {
	omitPos := omitPosOf(counts)
	for shift := ANSLogTabSize - 1; shift > 0; shift-- {
		compatible := true
		for i, c := range counts {
			if c != 0 && i != omitPos && snapDown(c, shift) != c {
				compatible = false
				break
			}
		}
		if compatible {
			return shift
		}
	}
	return 0
}

func omitPosOf(counts []uint32) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

func logcountOf(count uint32) int {
	if count == 0 {
		return 0
	}
	return int(floorLog2(count)) + 1
}

func precisionBits(logcount int) int {
	if logcount <= 1 {
		return 0
	}
	return logcount - 1
}

// writeLogCounts emits the per-symbol logcount sequence under the static
// Huffman table, RLE-collapsing runs of 5 or more equal values.
func writeLogCounts(w *bitio.Writer, logcounts []int) error {
	i := 0
	for i < len(logcounts) {
		v := logcounts[i]
		run := 1
		for i+run < len(logcounts) && logcounts[i+run] == v {
			run++
		}
		if err := writeLogCountSymbol(w, v); err != nil {
			return err
		}
		if run >= 5 {
			if err := writeLogCountSymbol(w, logCountRLEEscape); err != nil {
				return err
			}
			writeVarLenUint8(w, uint32(run-5))
			i += run
			continue
		}
		i++
		for k := 1; k < run; k++ {
			if err := writeLogCountSymbol(w, v); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

func writeLogCountSymbol(w *bitio.Writer, v int) error {
	if v < 0 || v >= len(kLogCountBitLengths) {
		return newErr(InternalInvariant, "writeLogCountSymbol", errors.New("logcount out of range"))
	}
	w.Write(int(kLogCountBitLengths[v]), uint64(kLogCountSymbols[v]))
	return nil
}

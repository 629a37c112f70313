package entropy

import (
	"errors"

	"github.com/fenwicklabs/jxlentropy/bitio"
)

// ansStateMin / ansStateMax bound the single u32 rANS state: renormalization
// keeps it in this window by reading/writing 16 bits at a time. ansStateMax
// is kept as a uint64 since the bound itself (2^32) does not fit in uint32.
const (
	ansStateMin = uint32(1) << 16
	ansStateMax = uint64(1) << 32
)

// WriteTokens writes a token stream under a built model to w. The caller
// is responsible for having already written the model itself (see
// SerializeModel) -- this only emits the per-token payload.
//
// Reference: §4.9. The prefix path is a direct adaptation of
// github.com/deepteams/webp's forward Huffman-code writer; the ANS path
// follows the reverse-order rANS renormalization loop common to every
// rANS implementation in the example pack's broader ecosystem (kanzi-go's
// ANSRangeCodec), adapted to this package's per-cluster alias tables.
func WriteTokens(w *bitio.Writer, model *EntropyEncodingData, tokens []Token) error {
	if model.UsePrefixCode {
		return writeTokensPrefix(w, model, tokens)
	}
	return writeTokensANS(w, model, tokens)
}

func cfgFor(model *EntropyEncodingData, cluster ClusterCode, tok Token) UintConfig {
	if tok.IsLZ77Length {
		return model.LZ77.LengthConfig
	}
	return cluster.UintConfig
}

func writeTokensPrefix(w *bitio.Writer, model *EntropyEncodingData, tokens []Token) error {
	for _, tok := range tokens {
		cluster := model.ClusterFor(tok.Context)
		cfg := cfgFor(model, cluster, tok)
		symbol, nbits, raw := EncodeHybridUint(cfg, tok.Value)
		if int(symbol) >= len(cluster.Prefix.CodeLengths) {
			return newErr(EncodingRejected, "WriteTokens", errors.New("token symbol outside prefix alphabet"))
		}
		depth := cluster.Prefix.CodeLengths[symbol]
		if depth == 0 {
			return newErr(InternalInvariant, "WriteTokens", errors.New("symbol has zero code length"))
		}
		w.Write(int(depth), uint64(cluster.Prefix.Codes[symbol]))
		if nbits > 0 {
			w.Write(int(nbits), uint64(raw))
		}
	}
	return nil
}

// ansSymbol is the per-token precomputed (symbol, freq, nbits, raw) the
// reverse pass needs; computed forward so errors surface before any bits
// are committed to the sink.
type ansSymbol struct {
	symbol uint32
	freq   uint32
	nbits  uint32
	raw    uint32
}

func writeTokensANS(w *bitio.Writer, model *EntropyEncodingData, tokens []Token) error {
	prepared := make([]ansSymbol, len(tokens))
	clusterOf := make([]ClusterCode, len(tokens))
	for i, tok := range tokens {
		cluster := model.ClusterFor(tok.Context)
		cfg := cfgFor(model, cluster, tok)
		symbol, nbits, raw := EncodeHybridUint(cfg, tok.Value)
		if int(symbol) >= len(cluster.Counts) || cluster.Counts[symbol] == 0 {
			return newErr(EncodingRejected, "WriteTokens", errors.New("token symbol has zero frequency in its cluster"))
		}
		prepared[i] = ansSymbol{symbol: symbol, freq: cluster.Counts[symbol], nbits: nbits, raw: raw}
		clusterOf[i] = cluster
	}

	state := ansStateMin
	var renorm []uint32 // 16-bit renormalization words, in emission order
	var rawBits []struct {
		n int
		v uint64
	}

	for i := len(prepared) - 1; i >= 0; i-- {
		ps := prepared[i]
		for uint64(state) >= ansStateMax/uint64(ANSTabSize)*uint64(ps.freq) {
			renorm = append(renorm, state&0xFFFF)
			state >>= 16
		}
		slot := reverseMapLookup(clusterOf[i], ps.symbol, state%ps.freq)
		state = ((state/ps.freq)<<ANSLogTabSize) + slot
		if ps.nbits > 0 {
			rawBits = append(rawBits, struct {
				n int
				v uint64
			}{int(ps.nbits), uint64(ps.raw)})
		}
	}

	w.Write(32, uint64(state))
	for i := len(renorm) - 1; i >= 0; i-- {
		w.Write(16, uint64(renorm[i]))
	}
	for i := len(rawBits) - 1; i >= 0; i-- {
		w.Write(rawBits[i].n, rawBits[i].v)
	}
	return nil
}

func reverseMapLookup(cluster ClusterCode, symbol, offset uint32) uint32 {
	slots := cluster.Reverse[symbol]
	return slots[offset]
}

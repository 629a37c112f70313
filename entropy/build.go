package entropy

import (
	"errors"

	"github.com/bits-and-blooms/bitset"
)

// BuildOptions controls model construction: which histogram normalization
// strategy to spend CPU on, whether to force prefix coding, and the LZ77
// parameters already applied to the token stream being built from (the
// pre-pass itself lives in the lz77 package; by the time tokens reach
// here, length tokens are already present and flagged).
type BuildOptions struct {
	Strategy          ANSHistogramStrategy
	ForcePrefixCode   bool
	LZ77              LZ77Params
	ClustersLimit     int
	AnsFuzzerFriendly bool
	UintMethod        HybridUintMethod
	// StreamingMode forces LogAlphaSize to MaxANSLogAlphaSize regardless of
	// what the clusters actually need, matching a streaming decoder's need
	// for a fixed, upfront table size (§9's wire-compatibility note).
	StreamingMode bool
}

// BuildAndEncodeHistograms runs the full model-construction pipeline over a
// token stream: per-context histograms, clustering, per-cluster hybrid-uint
// config selection, histogram rebuild, prefix-vs-ANS selection, and code
// table construction. numContexts is the number of distinct source
// contexts tokens may reference (plus the implicit distance context when
// LZ77 is enabled).
//
// Reference: control flow grounded on §2's pipeline order; per-stage
// grounding is documented in each stage's own file ([[histogram]],
// [[cluster]], [[config]], [[method]], [[prefix]], [[alias]]).
func BuildAndEncodeHistograms(tokens []Token, numContexts int, opts BuildOptions) (*EntropyEncodingData, error) {
	if numContexts <= 0 {
		return nil, newErr(InvalidInput, "BuildAndEncodeHistograms", errors.New("numContexts must be positive"))
	}
	limit := opts.ClustersLimit
	if limit <= 0 || limit > ClustersLimit {
		limit = ClustersLimit
	}

	perContextValues := make([][]uint32, numContexts)
	perContextIsLength := make([][]bool, numContexts)
	for _, tok := range tokens {
		if int(tok.Context) >= numContexts {
			return nil, newErr(InvalidInput, "BuildAndEncodeHistograms", errors.New("token context out of range"))
		}
		perContextValues[tok.Context] = append(perContextValues[tok.Context], tok.Value)
		perContextIsLength[tok.Context] = append(perContextIsLength[tok.Context], tok.IsLZ77Length)
	}

	if opts.AnsFuzzerFriendly {
		return buildFlatFuzzerModel(perContextValues, numContexts, opts)
	}

	// Stage 1: per-context general-purpose hybrid-uint config, selected
	// from non-length values only (length values always use the dedicated
	// length config regardless of cluster).
	generalCfg := make([]UintConfig, numContexts)
	rawHisto := make([]*Histogram, numContexts)
	for ctx, values := range perContextValues {
		var nonLength []uint32
		for i, v := range values {
			if !perContextIsLength[ctx][i] {
				nonLength = append(nonLength, v)
			}
		}
		cfg := defaultUintConfigs[0]
		if len(nonLength) > 0 {
			selected, _, err := SelectUintConfigMethod(nonLength, ANSMaxAlphabetSize, false, opts.UintMethod)
			if err != nil {
				return nil, err
			}
			cfg = selected
		}
		generalCfg[ctx] = cfg

		h := NewHistogram(1)
		for i, v := range values {
			var token uint32
			if perContextIsLength[ctx][i] {
				token, _, _ = EncodeHybridUint(opts.LZ77.LengthConfig, v)
			} else {
				token, _, _ = EncodeHybridUint(cfg, v)
			}
			h.Add(token)
		}
		rawHisto[ctx] = h
	}

	// Stage 2: cluster per-context histograms down to the cluster limit.
	clusterHistos, contextMap := ClusterHistograms(rawHisto, limit)

	model := &EntropyEncodingData{
		LZ77:        opts.LZ77,
		ContextMap:  contextMap,
		NumClusters: len(clusterHistos),
	}

	// Stage 3: per cluster, decide prefix vs ANS and build the code table.
	usePrefix := opts.ForcePrefixCode
	if !usePrefix {
		usePrefix = shouldUsePrefix(clusterHistos)
	}
	model.UsePrefixCode = usePrefix

	logAlpha := uint32(MinANSLogAlphaSize)
	if !usePrefix {
		for _, h := range clusterHistos {
			need := minLogAlphaSize(h.NumSymbols())
			if need > logAlpha {
				logAlpha = need
			}
		}
	} else {
		logAlpha = PrefixMaxBits
	}
	if !usePrefix && opts.StreamingMode {
		logAlpha = MaxANSLogAlphaSize
	}
	model.LogAlphaSize = logAlpha

	// A cluster may merge several contexts that each picked a different
	// general-purpose config; take the first contributing context's as
	// the cluster's representative (the histogram was already built from
	// each context's own choice, so this only affects what gets reported
	// in the serialized model, not the counts themselves).
	clusterRepCfg := make([]UintConfig, len(clusterHistos))
	seen := bitset.New(uint(len(clusterHistos)))
	for ctx, cluster := range contextMap {
		if !seen.Test(uint(cluster)) {
			clusterRepCfg[cluster] = generalCfg[ctx]
			seen.Set(uint(cluster))
		}
	}

	clusters := make([]ClusterCode, len(clusterHistos))
	for i, h := range clusterHistos {
		cc := ClusterCode{UintConfig: clusterRepCfg[i]}
		if usePrefix {
			pc, err := BuildPrefixCode(h.Counts, PrefixMaxBits)
			if err != nil {
				return nil, err
			}
			cc.Prefix = pc
			cc.Counts = h.Counts
		} else {
			selected, err := SelectMethod(h.Counts, opts.Strategy)
			if err != nil {
				return nil, err
			}
			alphabetSize := 1 << logAlpha
			if len(selected.Counts) < alphabetSize {
				padded := make([]uint32, alphabetSize)
				copy(padded, selected.Counts)
				selected.Counts = padded
			}
			at, err := BuildAliasTable(selected.Counts, int(logAlpha))
			if err != nil {
				return nil, err
			}
			cc.Counts = selected.Counts
			cc.Alias = at
			cc.Reverse = at.ReverseMap()
		}
		clusters[i] = cc
	}
	model.Clusters = clusters

	return model, nil
}

// buildFlatFuzzerModel implements the ans_fuzzer_friendly escape hatch: a
// single cluster, a flat histogram over a power-of-two alphabet, ANS only.
func buildFlatFuzzerModel(perContextValues [][]uint32, numContexts int, opts BuildOptions) (*EntropyEncodingData, error) {
	combined := NewHistogram(1)
	for _, values := range perContextValues {
		for _, v := range values {
			token, _, _ := EncodeHybridUint(defaultUintConfigs[0], v)
			combined.Add(token)
		}
	}
	logAlpha := minLogAlphaSize(combined.NumSymbols())
	alphabetSize := 1 << logAlpha
	flat := flatHistogram(padCounts(combined.Counts, alphabetSize))
	at, err := BuildAliasTable(flat, int(logAlpha))
	if err != nil {
		return nil, err
	}

	contextMap := make([]uint32, numContexts)
	return &EntropyEncodingData{
		LZ77:          opts.LZ77,
		UsePrefixCode: false,
		LogAlphaSize:  logAlpha,
		ContextMap:    contextMap,
		NumClusters:   1,
		Clusters: []ClusterCode{{
			UintConfig: defaultUintConfigs[0],
			Counts:     flat,
			Alias:      at,
			Reverse:    at.ReverseMap(),
		}},
	}, nil
}

func padCounts(counts []uint32, size int) []uint32 {
	if len(counts) >= size {
		return counts
	}
	out := make([]uint32, size)
	copy(out, counts)
	return out
}

// minLogAlphaSize returns the smallest log_alpha_size in
// [MinANSLogAlphaSize, MaxANSLogAlphaSize] whose 2^n covers numSymbols.
func minLogAlphaSize(numSymbols int) uint32 {
	for n := uint32(MinANSLogAlphaSize); n <= MaxANSLogAlphaSize; n++ {
		if 1<<n >= numSymbols {
			return n
		}
	}
	return MaxANSLogAlphaSize
}

// shouldUsePrefix picks prefix coding when every cluster's alphabet is
// small enough that ANS's table overhead would not pay for itself -- a
// cheap heuristic standing in for a full per-cluster bit-cost comparison.
func shouldUsePrefix(clusters []*Histogram) bool {
	for _, h := range clusters {
		if h.NumSymbols() > 1<<MaxANSLogAlphaSize {
			return false
		}
	}
	total := 0
	for _, h := range clusters {
		total += int(h.Total)
	}
	return total < 64
}

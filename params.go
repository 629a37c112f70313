package jxlentropy

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/fenwicklabs/jxlentropy/entropy"
)

// ClusteringType controls how hard ClusterHistograms-driven model building
// works to find the true entropy-minimal clustering before settling for
// the cluster limit: Fastest accepts the first merge order that reaches
// the limit, Fast and Best are reserved for future, more exhaustive
// clustering passes over the same limit (see DESIGN.md Open Questions --
// the corpus gave no worked example of a non-greedy clustering search, so
// this port keeps the single greedy algorithm and uses ClusteringType only
// to record caller intent).
type ClusteringType int

const (
	ClusteringFastest ClusteringType = iota
	ClusteringFast
	ClusteringBest
)

// Params is the run-wide configuration threaded into a
// BuildAndEncodeHistograms call: the tuning knobs a caller selects among,
// loadable from a YAML document via LoadParamsYAML.
type Params struct {
	ANSHistogramStrategy entropy.ANSHistogramStrategy `json:"ans_histogram_strategy"`
	HybridUintMethod     entropy.HybridUintMethod     `json:"hybrid_uint_method"`
	ClusteringType       ClusteringType                `json:"clustering_type"`

	ForceHuffman           bool `json:"force_huffman"`
	StreamingMode          bool `json:"streaming_mode"`
	InitializeGlobalState  bool `json:"initialize_global_state"`
	AddMissingSymbols      bool `json:"add_missing_symbols"`
	AddFixedHistograms     bool `json:"add_fixed_histograms"`

	ClustersLimit int `json:"clusters_limit"`

	LZ77 LZ77Config `json:"lz77"`
}

// LZ77Config records the caller's LZ77 choices: a pass and its
// thresholds. ToBuildOptions does not read it; only the entropy.LZ77Params
// passed to ToBuildOptions reaches the build, and no back-reference pass
// is run from either.
type LZ77Config struct {
	Method             LZ77Method `json:"method"`
	MinSymbol          uint32     `json:"min_symbol"`
	MinLength          uint32     `json:"min_length"`
	DistanceMultiplier int        `json:"distance_multiplier"`
}

// LZ77Method names a back-reference pass (none, RLE, greedy LZ77 or
// optimal parse). Nothing in this module runs a pass based on it; see
// LZ77Config.
type LZ77Method int

const (
	LZ77MethodNone LZ77Method = iota
	LZ77MethodRLE
	LZ77MethodLZ77
	LZ77MethodOptimal
)

// DefaultParams returns the conservative, always-correct default: no
// LZ77, full hybrid-uint search, the fast ANS normalization strategy
// (precise is reserved for callers who know they want the extra search
// time), and the package's cluster limit.
func DefaultParams() *Params {
	return &Params{
		ANSHistogramStrategy: entropy.StrategyFast,
		HybridUintMethod:     entropy.HybridUintBest,
		ClusteringType:       ClusteringFastest,
		ClustersLimit:        entropy.ClustersLimit,
		LZ77: LZ77Config{
			Method:    LZ77MethodNone,
			MinLength: 3,
		},
	}
}

// LoadParamsYAML parses a YAML (or JSON, since YAML is a superset)
// document into a Params, starting from DefaultParams so an omitted
// field keeps its documented default rather than zeroing out.
//
// Reference: §10.3, grounded on SnellerInc-sneller's config loader, which
// reads YAML-as-JSON via this same library for its own config surfaces.
func LoadParamsYAML(data []byte) (*Params, error) {
	p := DefaultParams()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("jxlentropy: parsing params: %w", err)
	}
	return p, nil
}

// ToBuildOptions translates this Params into the entropy package's
// BuildOptions, given the LZ77 length/distance configuration the caller
// resolved for its stream (LZ77 is entropy-package-agnostic about which
// contexts exist, so the length config and distance context are supplied
// by the caller rather than derived here).
func (p *Params) ToBuildOptions(lz77 entropy.LZ77Params) entropy.BuildOptions {
	return entropy.BuildOptions{
		Strategy:        p.ANSHistogramStrategy,
		ForcePrefixCode: p.ForceHuffman,
		LZ77:            lz77,
		ClustersLimit:   p.ClustersLimit,
		UintMethod:      p.HybridUintMethod,
		StreamingMode:   p.StreamingMode,
	}
}

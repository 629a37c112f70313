package entropy

// Token is one unit of the caller's input stream: a context-tagged integer
// value, flagged when it is an LZ77 length rather than an ordinary symbol
// value so the writer can route it through the dedicated length config.
type Token struct {
	Context      uint32
	Value        uint32
	IsLZ77Length bool
}

// LZ77Params describes the back-reference pass applied (if any) before
// histogram building.
type LZ77Params struct {
	Enabled            bool
	MinSymbol          uint32
	MinLength          uint32
	LengthConfig       UintConfig
	DistanceContext     uint32
	DistanceMultiplier int
}

// ClusterCode holds the per-cluster coding parameters chosen by model
// building: its hybrid-uint split, and either a prefix code or an ANS
// alias table (exactly one of Prefix/Alias is non-nil).
type ClusterCode struct {
	UintConfig UintConfig
	Counts     []uint32 // normalized ANS counts, or the raw token histogram for prefix
	Prefix     *PrefixCode
	Alias      *AliasTable
	Reverse    [][]uint32 // ANS reverse_map, built from Alias when the model is built
}

// EntropyEncodingData is the immutable model built once per frame/pass:
// everything WriteTokens needs to turn a token stream into bits, and
// everything the bitstream serializer needs to describe that model to a
// conforming decoder.
type EntropyEncodingData struct {
	LZ77          LZ77Params
	UsePrefixCode bool
	LogAlphaSize  uint32 // ANS only; forced to PrefixMaxBits for prefix
	ContextMap    []uint32
	NumClusters   int
	Clusters      []ClusterCode
}

// ClusterFor returns the coding parameters for the cluster the given
// context maps to.
func (m *EntropyEncodingData) ClusterFor(context uint32) ClusterCode {
	return m.Clusters[m.ContextMap[context]]
}

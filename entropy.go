package jxlentropy

import (
	"github.com/fenwicklabs/jxlentropy/bitio"
	"github.com/fenwicklabs/jxlentropy/entropy"
	"github.com/fenwicklabs/jxlentropy/internal/obslog"
)

// Model is the built coding model for one encode pass, ready to drive
// WriteTokens against a matching tokens slice.
type Model = entropy.EntropyEncodingData

// BuildAndEncodeHistograms builds a Model for tokens over numContexts
// source contexts under params, logging its sub-stages to logger if it is
// non-nil. Returns the built model.
//
// Reference: §2's pipeline order and §10.1's stage-tagged logging idiom.
func BuildAndEncodeHistograms(tokens []Token, numContexts int, params *Params, lz77 entropy.LZ77Params, logger *obslog.Logger) (*Model, error) {
	if params == nil {
		params = DefaultParams()
	}
	stage := logger.Stage("build_model")
	stage.Info("building entropy model", "num_tokens", len(tokens), "num_contexts", numContexts)

	model, err := entropy.BuildAndEncodeHistograms(tokens, numContexts, params.ToBuildOptions(lz77))
	if err != nil {
		stage.Error("failed to build entropy model", "err", err)
		return nil, err
	}
	stage.Info("built entropy model", "num_clusters", model.NumClusters, "use_prefix_code", model.UsePrefixCode)
	return model, nil
}

// WriteTokens serializes model then writes tokens against it to w,
// logging to logger if non-nil.
func WriteTokens(w *bitio.Writer, model *Model, tokens []Token, logger *obslog.Logger) error {
	stage := logger.Stage("write_tokens")
	if err := entropy.SerializeModel(w, model); err != nil {
		stage.Error("failed to serialize model", "err", err)
		return err
	}
	if err := entropy.WriteTokens(w, model, tokens); err != nil {
		stage.Error("failed to write tokens", "err", err)
		return err
	}
	stage.Info("wrote tokens", "num_tokens", len(tokens), "bits", w.Pos())
	return nil
}

// Package jxlentropy is the public surface of a JPEG XL-style entropy
// coder: given a stream of context-tagged integer tokens, it builds a
// compact per-context coding model (hybrid-uint splitting, histogram
// clustering, prefix or ANS code tables) and writes the tokens against
// it. This package is encode-only; no conforming decoder is included.
//
// The bulk of the implementation lives in the entropy subpackage --
// see that package's doc comment for the core algorithms. This package
// is a thin façade over it plus the run-configuration (Params) that
// selects among the algorithm's tuning knobs.
package jxlentropy

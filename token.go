package jxlentropy

import "github.com/fenwicklabs/jxlentropy/entropy"

// Token is a context-tagged integer value to be entropy coded. See
// entropy.Token for the field semantics this re-exports.
type Token = entropy.Token

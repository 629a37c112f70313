// Command entropybench runs the entropy coder against a dumped token
// stream and reports the bits it wrote, alongside a gzip baseline for
// comparison. It is an operator-facing harness, not part of the
// entropy-coding core's API -- exactly as gwebp is to the WebP codec it
// drives.
//
// Usage:
//
//	entropybench [options] <tokens.json>
package main

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	jxlentropy "github.com/fenwicklabs/jxlentropy"
	"github.com/fenwicklabs/jxlentropy/bitio"
	"github.com/fenwicklabs/jxlentropy/entropy"
	"github.com/fenwicklabs/jxlentropy/internal/obslog"
)

// tokenDump is the on-disk JSON shape: an array of {context, value, lz77}
// objects, one per token.
type tokenDump struct {
	Context uint32 `json:"context"`
	Value   uint32 `json:"value"`
	LZ77    bool   `json:"lz77"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "entropybench: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("entropybench", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a Params YAML file (default: built-in defaults)")
	numContexts := fs.Int("contexts", 1, "number of distinct token contexts in the input")
	verbose := fs.Bool("v", false, "log each pipeline stage to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one token dump argument")
	}

	tokens, err := loadTokens(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading tokens: %w", err)
	}

	params := jxlentropy.DefaultParams()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		params, err = jxlentropy.LoadParamsYAML(data)
		if err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	var logger *obslog.Logger
	if *verbose {
		logger = obslog.NewText(os.Stderr)
	}

	model, err := jxlentropy.BuildAndEncodeHistograms(tokens, *numContexts, params, entropy.LZ77Params{}, logger)
	if err != nil {
		return fmt.Errorf("building model: %w", err)
	}

	w := bitio.NewWriter(len(tokens))
	if err := jxlentropy.WriteTokens(w, model, tokens, logger); err != nil {
		return fmt.Errorf("writing tokens: %w", err)
	}

	baseline, err := gzipBaseline(tokens)
	if err != nil {
		return fmt.Errorf("computing gzip baseline: %w", err)
	}

	fmt.Printf("tokens:          %d\n", len(tokens))
	fmt.Printf("clusters:        %d\n", model.NumClusters)
	fmt.Printf("prefix coded:    %t\n", model.UsePrefixCode)
	fmt.Printf("lz77 enabled:    %t\n", model.LZ77.Enabled)
	fmt.Printf("bits written:    %d (%d bytes)\n", w.Pos(), w.NumBytes())
	fmt.Printf("gzip baseline:   %d bytes\n", baseline)
	return nil
}

func loadTokens(path string) ([]jxlentropy.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var dump []tokenDump
	if err := json.NewDecoder(f).Decode(&dump); err != nil {
		return nil, err
	}
	tokens := make([]jxlentropy.Token, len(dump))
	for i, d := range dump {
		tokens[i] = jxlentropy.Token{Context: d.Context, Value: d.Value, IsLZ77Length: d.LZ77}
	}
	return tokens, nil
}

// gzipBaseline reports the size of a gzip-compressed, byte-packed
// rendering of the token stream's values -- a reference point only; this
// module never uses a general-purpose compressor in its own codec path.
func gzipBaseline(tokens []jxlentropy.Token) (int, error) {
	var raw bytes.Buffer
	for _, t := range tokens {
		var buf [4]byte
		buf[0] = byte(t.Value)
		buf[1] = byte(t.Value >> 8)
		buf[2] = byte(t.Value >> 16)
		buf[3] = byte(t.Value >> 24)
		raw.Write(buf[:])
	}

	var out bytes.Buffer
	gw, err := gzip.NewWriterLevel(&out, flate.BestCompression)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(gw, &raw); err != nil {
		return 0, err
	}
	if err := gw.Close(); err != nil {
		return 0, err
	}
	return out.Len(), nil
}

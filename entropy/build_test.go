package entropy

import "testing"

func TestBuildAndEncodeHistograms_PrefixPath(t *testing.T) {
	var tokens []Token
	for i := 0; i < 200; i++ {
		tokens = append(tokens, Token{Context: 0, Value: uint32(i % 4)})
	}
	model, err := BuildAndEncodeHistograms(tokens, 1, BuildOptions{ForcePrefixCode: true})
	if err != nil {
		t.Fatal(err)
	}
	if !model.UsePrefixCode {
		t.Fatal("expected prefix path when ForcePrefixCode is set")
	}
	if len(model.Clusters) != 1 {
		t.Fatalf("len(Clusters) = %d, want 1", len(model.Clusters))
	}
	if model.Clusters[0].Prefix == nil {
		t.Fatal("expected a built prefix code")
	}
}

func TestBuildAndEncodeHistograms_ANSPath(t *testing.T) {
	var tokens []Token
	for i := 0; i < 5000; i++ {
		tokens = append(tokens, Token{Context: uint32(i % 3), Value: uint32((i * 7) % 50)})
	}
	model, err := BuildAndEncodeHistograms(tokens, 3, BuildOptions{Strategy: StrategyFast})
	if err != nil {
		t.Fatal(err)
	}
	if model.UsePrefixCode {
		t.Fatal("expected ANS path for a large, varied token stream")
	}
	for i, c := range model.Clusters {
		if c.Alias == nil {
			t.Errorf("cluster %d: expected an alias table", i)
		}
		if len(c.Reverse) == 0 {
			t.Errorf("cluster %d: expected a non-empty reverse map", i)
		}
	}
	if len(model.ContextMap) != 3 {
		t.Fatalf("len(ContextMap) = %d, want 3", len(model.ContextMap))
	}
}

func TestBuildAndEncodeHistograms_RejectsBadContext(t *testing.T) {
	tokens := []Token{{Context: 5, Value: 1}}
	_, err := BuildAndEncodeHistograms(tokens, 2, BuildOptions{})
	if err == nil {
		t.Fatal("expected error for out-of-range context")
	}
}

func TestBuildAndEncodeHistograms_FuzzerFriendlyIsFlat(t *testing.T) {
	var tokens []Token
	for i := 0; i < 1000; i++ {
		tokens = append(tokens, Token{Context: uint32(i % 2), Value: uint32(i % 16)})
	}
	model, err := BuildAndEncodeHistograms(tokens, 2, BuildOptions{AnsFuzzerFriendly: true})
	if err != nil {
		t.Fatal(err)
	}
	if model.NumClusters != 1 {
		t.Fatalf("NumClusters = %d, want 1", model.NumClusters)
	}
	if model.UsePrefixCode {
		t.Fatal("fuzzer-friendly mode must use ANS")
	}
}

func TestBuildAndEncodeHistograms_EmptyTokenStream(t *testing.T) {
	model, err := BuildAndEncodeHistograms(nil, 2, BuildOptions{ForcePrefixCode: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(model.Clusters) == 0 {
		t.Fatal("expected at least one (empty) cluster for an empty token stream")
	}
}

func TestBuildAndEncodeHistograms_LZ77LengthTokensUseLengthConfig(t *testing.T) {
	var tokens []Token
	for i := 0; i < 100; i++ {
		tokens = append(tokens, Token{Context: 0, Value: uint32(i % 5), IsLZ77Length: true})
		tokens = append(tokens, Token{Context: 0, Value: uint32(i % 5), IsLZ77Length: false})
	}
	model, err := BuildAndEncodeHistograms(tokens, 1, BuildOptions{ForcePrefixCode: true})
	if err != nil {
		t.Fatal(err)
	}
	if model.Clusters[0].Prefix == nil {
		t.Fatal("expected a prefix code to be built even with mixed length/non-length tokens")
	}
}

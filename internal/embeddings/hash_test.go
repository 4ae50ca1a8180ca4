package embeddings

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
)

func TestHashVectorDeterminism(t *testing.T) {
	texts := []string{
		"heart disease treatment options",
		"the quick brown fox",
		"",
	}
	for _, text := range texts {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			a := HashVector(text, DefaultDimensions)
			b := HashVector(text, DefaultDimensions)
			if len(a) != len(b) {
				t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
			}
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("element %d differs: %v vs %v", i, a[i], b[i])
				}
			}
		})
	}
}

func TestHashVectorUnitNorm(t *testing.T) {
	texts := []string{
		"heart disease treatment options",
		"a",
		"",
		"some considerably longer input text that spans multiple words and clauses",
	}
	for _, text := range texts {
		vec := HashVector(text, DefaultDimensions)
		if got := norm(vec); math.Abs(got-1.0) > 1e-6 {
			t.Errorf("text %q: norm = %v, want 1.0", text, got)
		}
	}
}

func TestHashVectorDimensions(t *testing.T) {
	for _, dims := range []int{1, 8, 384, 1536} {
		vec := HashVector("dimension check", dims)
		if len(vec) != dims {
			t.Errorf("dims %d: got vector of length %d", dims, len(vec))
		}
	}
}

func TestHashVectorDistinctTexts(t *testing.T) {
	corpus := []string{
		"heart disease treatment options",
		"heart disease treatment option",
		"diabetes management",
		"hello world",
		"hello world!",
		"",
	}
	seen := make(map[string]Vector, len(corpus))
	for _, text := range corpus {
		vec := HashVector(text, DefaultDimensions)
		for prev, prevVec := range seen {
			if vectorsEqual(vec, prevVec) {
				t.Errorf("texts %q and %q produced identical vectors", text, prev)
			}
		}
		seen[text] = vec
	}
}

func TestHashVectorEmptyString(t *testing.T) {
	vec := HashVector("", DefaultDimensions)
	if len(vec) != DefaultDimensions {
		t.Fatalf("got %d elements, want %d", len(vec), DefaultDimensions)
	}
	if got := norm(vec); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("norm = %v, want 1.0", got)
	}
}

// Regression fixture: the example query must keep producing the same
// 384-element unit vector on every call.
func TestHashVectorRegressionFixture(t *testing.T) {
	const text = "heart disease treatment options"
	first := HashVector(text, 384)
	second := HashVector(text, 384)

	if len(first) != 384 {
		t.Fatalf("got %d elements, want 384", len(first))
	}
	if !vectorsEqual(first, second) {
		t.Error("repeated calls produced different vectors")
	}
	if got := norm(first); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("norm = %v, want 1.0", got)
	}
}

func TestHashVectorConcurrentIsolation(t *testing.T) {
	const n = 32
	texts := make([]string, n)
	want := make([]Vector, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("concurrent input %d", i)
		want[i] = HashVector(texts[i], DefaultDimensions)
	}

	got := make([]Vector, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = HashVector(texts[i], DefaultDimensions)
		}(i)
	}
	wg.Wait()

	for i := range texts {
		if !vectorsEqual(got[i], want[i]) {
			t.Errorf("text %q: concurrent result differs from sequential", texts[i])
		}
	}
}

func TestHashEmbedder(t *testing.T) {
	e := NewHashEmbedder(0)
	if e.Dimensions() != DefaultDimensions {
		t.Errorf("Dimensions() = %d, want %d", e.Dimensions(), DefaultDimensions)
	}
	if e.ModelName() != ModelUniversalHash {
		t.Errorf("ModelName() = %q, want %q", e.ModelName(), ModelUniversalHash)
	}
	vec, err := e.Embed(context.Background(), "any text at all")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vec) != DefaultDimensions {
		t.Errorf("got %d elements, want %d", len(vec), DefaultDimensions)
	}
}

func vectorsEqual(a, b Vector) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

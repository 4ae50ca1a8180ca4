package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"math/rand"
	"strconv"
)

// Model names reported for hash-derived vectors. ModelUniversalHash is used
// when the hash embedder is the configured provider; ModelFallbackUniversal
// marks vectors substituted after a trained-model failure.
const (
	ModelUniversalHash     = "universal-hash-embedding"
	ModelFallbackUniversal = "fallback-universal"
)

// FallbackHeader is set to "true" on responses whose vector was
// substituted by the hash fallback after a model failure.
const FallbackHeader = "X-Embedding-Fallback"

// HashEmbedder maps text to a reproducible pseudo-random unit vector.
// It is not a semantic embedding; two similar texts produce unrelated
// vectors. It exists so the service can keep answering when no trained
// model is available.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a hash embedder with the given dimensionality.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashEmbedder{dims: dims}
}

func (e *HashEmbedder) Embed(_ context.Context, text string) (Vector, error) {
	return HashVector(text, e.dims), nil
}

func (e *HashEmbedder) ModelName() string { return ModelUniversalHash }

func (e *HashEmbedder) Dimensions() int { return e.dims }

// HashVector deterministically maps text to a unit-length vector of dims
// elements. The SHA-256 digest of the text seeds a local PRNG whose normal
// draws form the vector, so the same (text, dims) pair always yields the
// identical vector across calls and process restarts. Each call uses its
// own generator; concurrent callers never share state.
func HashVector(text string, dims int) Vector {
	sum := sha256.Sum256([]byte(text))
	// First 8 hex chars of the digest, read base-16, give a uniform 32-bit seed.
	seed, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 32)
	rng := rand.New(rand.NewSource(int64(seed)))

	raw := make([]float64, dims)
	var sq float64
	for i := range raw {
		raw[i] = rng.NormFloat64()
		sq += raw[i] * raw[i]
	}
	norm := math.Sqrt(sq)

	vec := make(Vector, dims)
	for i, v := range raw {
		if norm > 0 {
			v /= norm
		}
		vec[i] = float32(v)
	}
	return vec
}

package embeddings

import (
	"context"
	"errors"
	"math"
)

// Vector is a simple float32 slice wrapper.
type Vector []float32

// DefaultDimensions matches the output size of common sentence-embedding models.
const DefaultDimensions = 384

// Failure kinds the caller may substitute a fallback embedding for.
// Anything else propagates.
var (
	ErrModelUnavailable = errors.New("embedding model unavailable")
	ErrInference        = errors.New("embedding inference failed")
)

// Embedder defines the embedding interface.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
	ModelName() string
	Dimensions() int
}

// norm returns the Euclidean norm of v. Similarity scoring happens in
// the vector store; this is only needed to check the unit-length
// property of generated vectors.
func norm(v Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

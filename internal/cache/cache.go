package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"embedsvc/internal/embeddings"
)

// Cache stores computed embedding vectors so repeated texts skip the model.
type Cache interface {
	// GetEmbedding retrieves a cached embedding by key.
	// Returns nil if not found.
	GetEmbedding(ctx context.Context, key string) (*CachedEmbedding, error)

	// SetEmbedding stores an embedding with TTL.
	SetEmbedding(ctx context.Context, key string, emb *CachedEmbedding, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// CachedEmbedding is the cached embed response payload.
type CachedEmbedding struct {
	Vector embeddings.Vector `json:"vector"`
	Model  string            `json:"model"`
	Dims   int               `json:"dims"`
}

// GenerateCacheKey derives a stable key from the model identity and the text.
// Vectors from different models or dimensionalities never collide.
func GenerateCacheKey(model string, dims int, text string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|", model, dims)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"embedsvc/internal/app"
	"embedsvc/internal/cache"
	"embedsvc/internal/embeddings"
	"embedsvc/internal/httputil"
)

type embedRequest struct {
	Text string `json:"text"`
}

func main() {
	deps, err := app.BuildEmbedder()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/embed", embedHandler(deps))
	r.Get("/health", healthHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("embedder listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func embedHandler(deps app.Deps) http.HandlerFunc {
	cacheTTL := time.Duration(deps.Config.CacheTTL) * time.Second

	return func(w http.ResponseWriter, r *http.Request) {
		// Empty text is permitted; only malformed JSON is rejected.
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}

		resp, substituted, err := computeEmbedding(r.Context(), deps, req.Text, cacheTTL)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to generate embedding", err, http.StatusInternalServerError)
			return
		}
		if substituted {
			// Lets consumers reject placeholder vectors without parsing
			// the model field.
			w.Header().Set(embeddings.FallbackHeader, "true")
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

// computeEmbedding runs the primary model path with a cache in front, and
// substitutes a deterministic fallback vector when the model is absent or
// fails with an enumerated, recoverable kind. The bool reports whether the
// fallback was substituted.
func computeEmbedding(ctx context.Context, deps app.Deps, text string, ttl time.Duration) (embeddings.EmbedResponse, bool, error) {
	if deps.Embedder == nil {
		vec, _ := deps.Fallback.Embed(ctx, text)
		return embeddings.EmbedResponse{
			Vector: vec,
			Model:  embeddings.ModelFallbackUniversal,
			Dims:   len(vec),
		}, true, nil
	}

	key := cache.GenerateCacheKey(deps.Embedder.ModelName(), deps.Embedder.Dimensions(), text)
	if cached, err := deps.Cache.GetEmbedding(ctx, key); err == nil && cached != nil {
		return embeddings.EmbedResponse{
			Vector: cached.Vector,
			Model:  cached.Model,
			Dims:   cached.Dims,
		}, false, nil
	} else if err != nil {
		deps.Log.Warn("cache read failed", "err", err)
	}

	vec, err := deps.Embedder.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, embeddings.ErrModelUnavailable) || errors.Is(err, embeddings.ErrInference) {
			deps.Log.Warn("model path failed; substituting fallback embedding", "err", err)
			fvec, _ := deps.Fallback.Embed(ctx, text)
			return embeddings.EmbedResponse{
				Vector: fvec,
				Model:  embeddings.ModelFallbackUniversal,
				Dims:   len(fvec),
			}, true, nil
		}
		return embeddings.EmbedResponse{}, false, err
	}

	resp := embeddings.EmbedResponse{
		Vector: vec,
		Model:  deps.Embedder.ModelName(),
		Dims:   len(vec),
	}
	// Fallback vectors are never cached; only real model output is worth reuse.
	if err := deps.Cache.SetEmbedding(ctx, key, &cache.CachedEmbedding{
		Vector: resp.Vector,
		Model:  resp.Model,
		Dims:   resp.Dims,
	}, ttl); err != nil {
		deps.Log.Warn("cache write failed", "err", err)
	}
	return resp, false, nil
}

func healthHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modelLoaded := deps.Embedder != nil
		model := embeddings.ModelFallbackUniversal
		dims := deps.Fallback.Dimensions()
		if modelLoaded {
			model = deps.Embedder.ModelName()
			dims = deps.Embedder.Dimensions()
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":       "healthy",
			"model_loaded": modelLoaded,
			"model":        model,
			"dims":         dims,
		})
	}
}

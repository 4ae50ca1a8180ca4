package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"embedsvc/internal/app"
	"embedsvc/internal/chunker"
	"embedsvc/internal/httputil"
	"embedsvc/internal/queue"
	"embedsvc/internal/store"
)

type indexTaskPayload struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Content    string `json:"content"`
}

// Bounded so a large document doesn't flood the embedding provider.
const maxConcurrentEmbeds = 4

func main() {
	deps, err := app.BuildIndexer()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("indexer worker starting")

	g, ctx := errgroup.WithContext(context.Background())

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeIndex, func(ctx context.Context, task queue.Task) error {
			var payload indexTaskPayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handleIndex(ctx, deps, payload)
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps, "indexer")
	})

	// Wait for either to fail
	if err := g.Wait(); err != nil {
		deps.Log.Error("indexer service stopped", "err", err)
	}
}

func handleIndex(ctx context.Context, deps app.Deps, payload indexTaskPayload) error {
	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return err
	}

	chunks := chunker.ChunkText(payload.Content, chunker.Options{MaxTokens: 400, Overlap: 80})
	var storeChunks []store.Chunk
	for _, c := range chunks {
		storeChunks = append(storeChunks, store.Chunk{
			Index:      c.Index,
			Text:       c.Text,
			TokenCount: c.TokenCount,
		})
	}
	chunksWithIDs, err := deps.Store.SaveChunks(ctx, docID, storeChunks)
	if err != nil {
		return err
	}

	// Embed chunks concurrently; an error on any chunk aborts the task so
	// the queue retries it whole rather than leaving a partial index.
	embs := make([]store.Embedding, len(chunksWithIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmbeds)
	for i, c := range chunksWithIDs {
		g.Go(func() error {
			vec, err := deps.Embedder.Embed(gctx, c.Text)
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d: %w", c.Index, err)
			}
			embs[i] = store.Embedding{
				ChunkID: c.ID,
				Vector:  vec,
				Model:   deps.Embedder.ModelName(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := deps.Store.SaveEmbeddings(ctx, embs); err != nil {
		return err
	}

	// Mark document ready
	return deps.Store.UpdateDocumentStatus(ctx, docID, store.StatusReady)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"embedsvc/internal/app"
	"embedsvc/internal/httputil"
	"embedsvc/internal/queue"
	"embedsvc/internal/store"
)

type indexTaskPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
}

type searchRequest struct {
	Query       string   `json:"query" validate:"required,min=1,max=2000"`
	DocumentIDs []string `json:"document_ids" validate:"omitempty,dive,uuid4"`
	Limit       int      `json:"limit" validate:"omitempty,min=1,max=50"`
}

type searchResult struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Score      float32 `json:"score"`
	Preview    string  `json:"preview"` // Truncated text preview
	Model      string  `json:"model"`   // Model that produced the stored vector
}

func main() {
	deps, err := app.BuildGateway()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/documents", uploadHandler(deps))
	r.Get("/api/documents/{id}", statusHandler(deps))
	r.Get("/api/documents/{id}/chunks", chunksHandler(deps))
	r.Post("/api/search", searchHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("gateway listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Validate file size before parsing
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		// Validate file size
		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		// Validate file type
		contentType := header.Header.Get("Content-Type")

		// If Content-Type is missing, detect from filename
		if contentType == "" {
			ext := strings.ToLower(filepath.Ext(header.Filename))
			switch ext {
			case ".txt":
				contentType = "text/plain"
			case ".pdf":
				contentType = "application/pdf"
			default:
				httputil.Fail(deps.Log, w, "unsupported file type (only PDF and TXT allowed)", nil, http.StatusBadRequest)
				return
			}
		}

		// Validate Content-Type
		allowedTypes := map[string]bool{
			"text/plain":      true,
			"application/pdf": true,
		}
		if !allowedTypes[contentType] {
			httputil.Fail(deps.Log, w, "unsupported file type (only PDF and TXT allowed)", nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text := extractText(header.Filename, content, deps)

		doc, err := deps.Store.CreateDocument(ctx, header.Filename)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to persist document", err, http.StatusInternalServerError)
			return
		}

		payload := indexTaskPayload{
			DocumentID: doc.ID,
			Filename:   header.Filename,
			Content:    text,
		}

		body, err := json.Marshal(payload)
		if err != nil {
			fail(deps, ctx, w, "marshal payload failed", err, doc.ID, http.StatusInternalServerError, true)
			return
		}
		task := queue.Task{Type: queue.TaskTypeIndex, Payload: body}
		if err := queue.EnqueueWithRetry(ctx, deps.Queue, task, 3, 200*time.Millisecond); err != nil {
			fail(deps, ctx, w, "failed to enqueue document; please retry", err, doc.ID, http.StatusInternalServerError, true)
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"document_id": doc.ID.String(),
			"status":      doc.Status,
		})
	}
}

// fail is gateway-specific error handler that can mark documents as failed
func fail(deps app.Deps, ctx context.Context, w http.ResponseWriter, message string, err error, docID uuid.UUID, status int, markFailed bool) {
	log := deps.Log.With("document_id", docID)
	if markFailed && docID != uuid.Nil {
		if upErr := deps.Store.UpdateDocumentStatus(ctx, docID, store.StatusFailed); upErr != nil {
			log.Error("failed to mark document failed", "err", upErr)
		}
	}

	httputil.Fail(log, w, message, err, status)
}

func statusHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "id")
		docID, err := uuid.Parse(idStr)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid document id", err, http.StatusBadRequest)
			return
		}
		doc, err := deps.Store.GetDocument(r.Context(), docID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrDocumentNotFound) {
				status = http.StatusNotFound
			}
			httputil.Fail(deps.Log, w, "document not found", err, status)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"document_id": doc.ID.String(),
			"filename":    doc.Filename,
			"status":      doc.Status,
			"created_at":  doc.CreatedAt,
		})
	}
}

func chunksHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "id")
		docID, err := uuid.Parse(idStr)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid document id", err, http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		if _, err := deps.Store.GetDocument(ctx, docID); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrDocumentNotFound) {
				status = http.StatusNotFound
			}
			httputil.Fail(deps.Log, w, "document not found", err, status)
			return
		}
		chunks, err := deps.Store.ListChunks(ctx, docID)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list chunks", err, http.StatusInternalServerError)
			return
		}

		out := make([]map[string]any, len(chunks))
		for i, c := range chunks {
			out[i] = map[string]any{
				"chunk_id":    c.ID.String(),
				"index":       c.Index,
				"text":        c.Text,
				"token_count": c.TokenCount,
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"document_id": docID.String(),
			"chunks":      out,
			"count":       len(out),
		})
	}
}

func searchHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}

		// Validate request
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		if req.Limit == 0 {
			req.Limit = 10
		}

		ctx := r.Context()

		vec, err := deps.Embedder.Embed(ctx, req.Query)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to embed query", err, http.StatusInternalServerError)
			return
		}
		ids := parseDocumentIDs(req.DocumentIDs)
		results, err := deps.Store.TopK(ctx, ids, vec, req.Limit)
		if err != nil {
			httputil.Fail(deps.Log, w, "search failed", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"results": buildResults(results),
			"count":   len(results),
		})
	}
}

// parseDocumentIDs converts string UUIDs to uuid.UUID slice, skipping invalid ones.
func parseDocumentIDs(ids []string) []uuid.UUID {
	var result []uuid.UUID
	for _, s := range ids {
		if id, err := uuid.Parse(s); err == nil {
			result = append(result, id)
		}
	}
	return result
}

// buildResults converts store results into response structs with truncated previews.
func buildResults(results []store.SearchResult) []searchResult {
	out := make([]searchResult, len(results))
	for i, res := range results {
		out[i] = searchResult{
			ChunkID:    res.Chunk.ID.String(),
			DocumentID: res.Chunk.DocumentID.String(),
			Score:      res.Score,
			Preview:    truncate(res.Chunk.Text, 150),
			Model:      res.Model,
		}
	}
	return out
}

// truncate limits text to maxLen characters, cutting at word boundary.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	// Find last space before maxLen to avoid cutting words
	if idx := strings.LastIndex(s[:maxLen], " "); idx > 0 {
		return s[:idx] + "..."
	}
	return s[:maxLen] + "..."
}

// extractText extracts text from uploaded files, with PDF support.
func extractText(filename string, content []byte, deps app.Deps) string {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		text, err := extractPDF(content)
		if err != nil {
			deps.Log.Warn("pdf extraction failed, using raw bytes", "err", err, "filename", filename)
			return string(content)
		}
		return text
	}
	// Treat other files as plain text
	return string(content)
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

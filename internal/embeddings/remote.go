package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmbedRequest is the wire format accepted by an embedder service instance.
type EmbedRequest struct {
	Text string `json:"text"`
}

// EmbedResponse is the wire format returned by an embedder service instance.
type EmbedResponse struct {
	Vector Vector `json:"vector"`
	Model  string `json:"model"`
	Dims   int    `json:"dims"`
}

// RemoteEmbedder talks to another embedder service over HTTP.
type RemoteEmbedder struct {
	baseURL    string
	model      string
	dims       int
	httpClient *http.Client
}

// NewRemoteEmbedder creates a client for the embedder service at baseURL.
// It probes /health once to learn the remote model name; if the service is
// down at construction the probe is skipped and unavailability surfaces on
// the first Embed call instead.
func NewRemoteEmbedder(baseURL string, dims int) (*RemoteEmbedder, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base url required")
	}
	if dims <= 0 {
		dims = DefaultDimensions
	}
	e := &RemoteEmbedder{
		baseURL:    baseURL,
		model:      "remote",
		dims:       dims,
		httpClient: &http.Client{Timeout: defaultEmbeddingTimeout},
	}
	e.probeHealth()
	return e, nil
}

func (e *RemoteEmbedder) probeHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	var health struct {
		Model string `json:"model"`
		Dims  int    `json:"dims"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return
	}
	if health.Model != "" {
		e.model = health.Model
	}
	if health.Dims > 0 {
		e.dims = health.Dims
	}
}

func (e *RemoteEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	body, err := json.Marshal(EmbedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: %s", ErrInference, resp.Status, string(msg))
	}
	var embedResp EmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInference, err)
	}
	// An upstream that degraded to its own hash fallback has no trained
	// model behind it; surface that instead of passing the placeholder
	// off as primary output. The caller substitutes its local fallback,
	// which keeps the vector out of caches and indexes.
	if resp.Header.Get(FallbackHeader) == "true" ||
		embedResp.Model == ModelFallbackUniversal ||
		embedResp.Model == ModelUniversalHash {
		return nil, fmt.Errorf("%w: upstream served fallback embedding (model %q)", ErrModelUnavailable, embedResp.Model)
	}
	return embedResp.Vector, nil
}

func (e *RemoteEmbedder) ModelName() string { return e.model }

func (e *RemoteEmbedder) Dimensions() int { return e.dims }

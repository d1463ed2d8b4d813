// Package uploader streams a crawled corpus file into a Qdrant collection,
// embedding each record through an external embedding service.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Embedder produces dense vectors for record bodies. Dimension is queried
// once per run to size the target collection.
type Embedder interface {
	Dimension(ctx context.Context) (int, error)
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// HTTPEmbedder calls an embedding service over its REST API.
type HTTPEmbedder struct {
	base       string
	httpClient *http.Client
}

// NewHTTPEmbedder builds an embedder against the given service base URL.
func NewHTTPEmbedder(base string) (*HTTPEmbedder, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("embedding base url not configured")
	}
	return &HTTPEmbedder{
		base:       base,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type embeddingConfigResponse struct {
	ProviderInfo struct {
		Provider  string `json:"provider"`
		Model     string `json:"model"`
		Dimension int    `json:"dimension"`
		Available bool   `json:"available"`
	} `json:"provider_info"`
}

type embeddingQueryRequest struct {
	Text string `json:"text"`
}

type embeddingQueryResponse struct {
	Embedding []float64 `json:"embedding"`
	Dimension int       `json:"dimension"`
}

// Dimension asks the service for its configured vector width.
func (e *HTTPEmbedder) Dimension(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.base+"/api/embedding/config-status", nil)
	if err != nil {
		return 0, err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("embedding config status failed: status %d body %s", resp.StatusCode, string(msg))
	}

	var parsed embeddingConfigResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode embedding config: %w", err)
	}
	if parsed.ProviderInfo.Dimension <= 0 {
		return 0, fmt.Errorf("embedding service returned invalid dimension %d", parsed.ProviderInfo.Dimension)
	}
	return parsed.ProviderInfo.Dimension, nil
}

// Embed fetches one vector per text, in order. The service embeds one text
// per request, so this is a sequential loop.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for _, text := range texts {
		vec, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (e *HTTPEmbedder) embedOne(ctx context.Context, text string) ([]float64, error) {
	data, err := json.Marshal(embeddingQueryRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/api/embedding/query-embedding", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding query failed: status %d body %s", resp.StatusCode, string(msg))
	}

	var parsed embeddingQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	return parsed.Embedding, nil
}

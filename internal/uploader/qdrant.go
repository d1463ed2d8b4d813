package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrkutin/legalacts-parser/internal/config"
)

// Client talks to a Qdrant instance over its REST API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a Qdrant client from the vector-db configuration.
func NewClient(cfg config.VectorDBConfig) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("qdrant endpoint not configured")
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Point is one record ready for upsert: sequential integer id, dense
// vector, and the record metadata plus body as payload.
type Point struct {
	ID      int            `json:"id"`
	Vector  []float64      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// CollectionExists reports whether the collection is present.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.collectionURL(name), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 400:
		return false, statusError("collection lookup", resp)
	default:
		return true, nil
	}
}

// DeleteCollection drops the collection. Missing collections are fine.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.collectionURL(name), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return statusError("delete collection", resp)
	}
	return nil
}

// CreateCollection provisions a single dense-vector collection with cosine
// distance. An already-existing collection is not an error.
func (c *Client) CreateCollection(ctx context.Context, name string, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	resp, err := c.do(ctx, http.MethodPut, c.collectionURL(name), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusConflict {
		return statusError("create collection", resp)
	}
	return nil
}

// Count returns the approximate number of points in the collection.
func (c *Client) Count(ctx context.Context, name string) (int, error) {
	resp, err := c.do(ctx, http.MethodPost, c.collectionURL(name)+"/points/count", map[string]any{"exact": false})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, statusError("count points", resp)
	}

	var parsed struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return parsed.Result.Count, nil
}

// Upsert writes one batch of points, waiting for the write to be applied.
func (c *Client) Upsert(ctx context.Context, name string, points []Point) error {
	resp, err := c.do(ctx, http.MethodPut, c.collectionURL(name)+"/points?wait=true", map[string]any{"points": points})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError("upsert points", resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal qdrant payload: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return nil, fmt.Errorf("build qdrant request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant %s: %w", method, err)
	}
	return resp, nil
}

func (c *Client) collectionURL(name string) string {
	return fmt.Sprintf("%s/collections/%s", c.endpoint, url.PathEscape(name))
}

func statusError(op string, resp *http.Response) error {
	msg, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s failed: status %d body %s", op, resp.StatusCode, string(msg))
}

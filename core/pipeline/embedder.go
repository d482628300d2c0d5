package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/siherrmann/docqa/model"
)

// HTTPEmbedder generates embeddings through an OpenAI-compatible embeddings
// endpoint. Every call is bounded by an explicit timeout; a timeout
// surfaces as an EmbeddingServiceError wrapping context.DeadlineExceeded.
type HTTPEmbedder struct {
	url       string
	modelName string
	dimension int
	timeout   time.Duration
	client    *http.Client
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewHTTPEmbedder creates an embedder for the given endpoint. The returned
// vectors must have exactly dimension entries; anything else is a
// DimensionMismatchError.
func NewHTTPEmbedder(url, modelName string, dimension int, timeout time.Duration) *HTTPEmbedder {
	return &HTTPEmbedder{
		url:       url,
		modelName: modelName,
		dimension: dimension,
		timeout:   timeout,
		client:    &http.Client{},
	}
}

// Embed requests a single embedding vector for text.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := json.Marshal(embeddingRequest{Model: e.modelName, Input: text})
	if err != nil {
		return nil, &model.EmbeddingServiceError{Operation: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, &model.EmbeddingServiceError{Operation: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &model.EmbeddingServiceError{
				Operation: "request",
				Err:       fmt.Errorf("timed out after %v: %w", e.timeout, context.DeadlineExceeded),
			}
		}
		return nil, &model.EmbeddingServiceError{Operation: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &model.EmbeddingServiceError{
			Operation: "request",
			Err:       fmt.Errorf("embeddings service returned %d: %s", resp.StatusCode, detail),
		}
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &model.EmbeddingServiceError{Operation: "parse response", Err: err}
	}
	if len(parsed.Data) == 0 || parsed.Data[0].Embedding == nil {
		return nil, &model.EmbeddingServiceError{
			Operation: "parse response",
			Err:       fmt.Errorf("response contains no embedding"),
		}
	}

	vector := parsed.Data[0].Embedding
	if len(vector) != e.dimension {
		return nil, &model.DimensionMismatchError{Got: len(vector), Want: e.dimension}
	}

	return vector, nil
}

// Probe verifies the embeddings service responds before a bulk ingestion
// run, using the same request path and failure modes as Embed.
func (e *HTTPEmbedder) Probe(ctx context.Context) error {
	_, err := e.Embed(ctx, "ping")
	return err
}

// Dimension returns the configured embedding dimension.
func (e *HTTPEmbedder) Dimension() int {
	return e.dimension
}

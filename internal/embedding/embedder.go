// Package embedding provides the Gemini-backed text embedder used by the
// semantic extraction strategy and the embedding enrichment type, plus the
// vector math shared with clustering.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini embedding model used when none is configured
const DefaultModel = "text-embedding-004"

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 500 * time.Millisecond
)

// Embedder turns text into a vector
type Embedder interface {
	// EmbedText returns the embedding for one text chunk
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder implements Embedder on the Gemini embedding API.
// Provider calls are retried with exponential backoff at this call site, not
// by the orchestrator's control flow.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	maxRetries int
	baseDelay  time.Duration
}

// NewGeminiEmbedder creates an embedder. Empty model uses DefaultModel.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client:     client,
		model:      model,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}, nil
}

// EmbedText embeds one text chunk, retrying transient provider failures.
// The returned vector is L2-normalized so cosine similarity is a dot product.
func (e *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)

	var values []float32
	err := RetryWithBackoff(ctx, func() error {
		resp, err := em.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return err
		}
		if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			return fmt.Errorf("empty embedding response")
		}
		values = resp.Embedding.Values
		return nil
	}, e.maxRetries, e.baseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to embed text after %d attempts: %w", e.maxRetries, err)
	}

	return NormalizeVector(values), nil
}

// Close releases the underlying client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Package openai embeds text through an OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"portfoliochat/internal/domain"
)

// Config configures the embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// Client calls the embeddings endpoint and L2-normalizes the results.
type Client struct {
	api   *openai.Client
	model string
	dim   int
}

// NewClient builds an embeddings client from config. The API key is read
// from the environment variable named by APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	apiCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	dim := 1536
	if cfg.Model == "text-embedding-3-large" {
		dim = 3072
	}
	return &Client{api: openai.NewClientWithConfig(apiCfg), model: cfg.Model, dim: dim}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai-" + c.model }

// Dimension returns the dimensionality of the configured model.
func (c *Client) Dimension() int { return c.dim }

// Embed returns the normalized embedding of a single text. A missing result
// is a soft failure reported as domain.ErrEmbeddingUnavailable.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in a single API call, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("%w: text %d is empty", domain.ErrEmbeddingUnavailable, i)
		}
	}
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			domain.ErrEmbeddingUnavailable, len(resp.Data), len(texts))
	}
	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", domain.ErrEmbeddingUnavailable, d.Index)
		}
		vec := make([]float64, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float64(v)
		}
		l2normalize(vec)
		out[d.Index] = vec
	}
	for i, vec := range out {
		if vec == nil {
			return nil, fmt.Errorf("%w: no embedding returned for text %d", domain.ErrEmbeddingUnavailable, i)
		}
	}
	return out, nil
}

// l2normalize scales v to unit length in place.
func l2normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] *= inv
	}
}

package openai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfoliochat/internal/domain"
)

func fakeEmbeddings(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	t.Setenv("TEST_OPENAI_KEY", "test-key")
	client, err := NewClient(Config{BaseURL: ts.URL, APIKeyEnv: "TEST_OPENAI_KEY"})
	require.NoError(t, err)
	return client
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_OPENAI_KEY"})
	require.Error(t, err)
}

func TestEmbedBatch(t *testing.T) {
	client := fakeEmbeddings(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		// Indices returned out of order on purpose; the client must
		// reassemble input order.
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 1, "embedding": []float64{0, 2}},
				{"object": "embedding", "index": 0, "embedding": []float64{3, 0}},
			},
		})
	})

	vecs, err := client.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	// Normalized and in input order.
	assert.InDelta(t, 1.0, vecs[0][0], 1e-9)
	assert.InDelta(t, 1.0, vecs[1][1], 1e-9)
	for _, v := range vecs {
		norm := 0.0
		for _, x := range v {
			norm += x * x
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	}
}

func TestEmbed_NoData(t *testing.T) {
	client := fakeEmbeddings(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	})

	_, err := client.Embed(context.Background(), "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEmbed_TransportError(t *testing.T) {
	client := fakeEmbeddings(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	})

	_, err := client.Embed(context.Background(), "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEmbed_EmptyText(t *testing.T) {
	client := fakeEmbeddings(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected for empty text")
	})
	_, err := client.Embed(context.Background(), "  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

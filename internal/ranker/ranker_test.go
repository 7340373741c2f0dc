package ranker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfoliochat/internal/domain"
	"portfoliochat/internal/vectorstore"
)

func newStore(t *testing.T, records []domain.IndexedVector) *vectorstore.Store {
	t.Helper()
	store, err := vectorstore.New(records, nil)
	require.NoError(t, err)
	return store
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float64{-3, 0}), 1e-9)
}

func TestCosine_ZeroVectorIsFinite(t *testing.T) {
	score := Cosine([]float64{0, 0, 0}, []float64{1, 2, 3})
	assert.False(t, math.IsNaN(score))
	assert.False(t, math.IsInf(score, 0))
	assert.Equal(t, 0.0, score)

	score = Cosine([]float64{0, 0}, []float64{0, 0})
	assert.False(t, math.IsNaN(score))
	assert.Equal(t, 0.0, score)
}

func TestRank_TopK(t *testing.T) {
	store := newStore(t, []domain.IndexedVector{
		{ID: "far", Vector: []float64{0, 1}, Text: "far"},
		{ID: "near", Vector: []float64{1, 0}, Text: "near"},
		{ID: "mid", Vector: []float64{1, 1}, Text: "mid"},
	})

	results, err := Rank([]float64{1, 0}, store, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Document.ID)
	assert.Equal(t, "mid", results[1].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRank_KLargerThanStore(t *testing.T) {
	store := newStore(t, []domain.IndexedVector{
		{ID: "a", Vector: []float64{1, 0}, Text: "a"},
		{ID: "b", Vector: []float64{0, 1}, Text: "b"},
	})
	results, err := Rank([]float64{1, 0}, store, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRank_TiesKeepInsertionOrder(t *testing.T) {
	// All records are identical, so every score ties; order must match the
	// store's insertion order on every run.
	store := newStore(t, []domain.IndexedVector{
		{ID: "first", Vector: []float64{1, 1}, Text: "x"},
		{ID: "second", Vector: []float64{1, 1}, Text: "x"},
		{ID: "third", Vector: []float64{1, 1}, Text: "x"},
	})
	for i := 0; i < 5; i++ {
		results, err := Rank([]float64{1, 0}, store, 3)
		require.NoError(t, err)
		assert.Equal(t, "first", results[0].Document.ID)
		assert.Equal(t, "second", results[1].Document.ID)
		assert.Equal(t, "third", results[2].Document.ID)
	}
}

func TestRank_DimensionMismatch(t *testing.T) {
	store := newStore(t, []domain.IndexedVector{
		{ID: "a", Vector: []float64{1, 0, 0}, Text: "a"},
	})
	_, err := Rank([]float64{1, 0}, store, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestRank_ZeroQueryVector(t *testing.T) {
	store := newStore(t, []domain.IndexedVector{
		{ID: "a", Vector: []float64{1, 0}, Text: "a"},
		{ID: "b", Vector: []float64{0, 1}, Text: "b"},
	})
	results, err := Rank([]float64{0, 0}, store, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, math.IsNaN(r.Score))
		assert.Equal(t, 0.0, r.Score)
	}
	// All-zero scores tie; insertion order decides.
	assert.Equal(t, "a", results[0].Document.ID)
}

func TestFallbackTopK(t *testing.T) {
	store := newStore(t, []domain.IndexedVector{
		{ID: "a", Vector: []float64{1, 0}, Text: "a"},
		{ID: "b", Vector: []float64{0, 1}, Text: "b"},
		{ID: "c", Vector: []float64{1, 1}, Text: "c"},
	})

	results := FallbackTopK(store, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Document.ID)
	assert.Equal(t, "b", results[1].Document.ID)

	assert.Len(t, FallbackTopK(store, 10), 3)
	assert.Empty(t, FallbackTopK(store, 0))
}

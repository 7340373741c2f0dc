// Package ranker scores a query vector against every record of the vector
// store and returns the top-K passages.
package ranker

import (
	"fmt"
	"math"
	"sort"

	"portfoliochat/internal/domain"
	"portfoliochat/internal/vectorstore"
)

// epsilon keeps the cosine denominator positive when either vector is all
// zeros (a tf-idf query with no in-vocabulary tokens embeds to zero).
const epsilon = 1e-10

// Cosine returns the ε-stabilized cosine similarity of a and b. The result
// is always finite; a zero vector on either side scores 0.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + epsilon)
}

// Rank scores query against every store record and returns the top
// min(k, store.Len()) results in strictly descending score order. Equal
// scores keep the store's insertion order, so identical inputs always yield
// identical output. A query of the wrong dimensionality fails with
// domain.ErrDimensionMismatch; callers should degrade to FallbackTopK.
func Rank(query []float64, store *vectorstore.Store, k int) ([]domain.SearchResult, error) {
	if len(query) != store.Dimension() {
		return nil, fmt.Errorf("%w: query has dimension %d, store has %d",
			domain.ErrDimensionMismatch, len(query), store.Dimension())
	}
	records := store.All()
	results := make([]domain.SearchResult, len(records))
	for i, rec := range records {
		results[i] = domain.SearchResult{Document: rec.Document(), Score: Cosine(query, rec.Vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < 0 {
		k = 0
	}
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// FallbackTopK returns the first min(k, store.Len()) records in insertion
// order. It is the deterministic substitute used when no query vector is
// available; retrieval degrades, it never blocks the reply.
func FallbackTopK(store *vectorstore.Store, k int) []domain.SearchResult {
	records := store.All()
	if k < 0 {
		k = 0
	}
	if k > len(records) {
		k = len(records)
	}
	results := make([]domain.SearchResult, k)
	for i := 0; i < k; i++ {
		results[i] = domain.SearchResult{Document: records[i].Document()}
	}
	return results
}

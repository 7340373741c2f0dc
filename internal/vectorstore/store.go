// Package vectorstore holds the in-memory snapshot of pre-embedded
// knowledge-base passages. The snapshot is loaded once at startup from the
// JSON artifact written by the offline index build and is immutable for the
// process lifetime; concurrent readers need no locking.
package vectorstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"portfoliochat/internal/domain"
	"portfoliochat/internal/embedding/tfidf"
)

// Store is an immutable collection of indexed vectors in artifact order.
type Store struct {
	records []domain.IndexedVector
	dim     int
	tfidf   *tfidf.Model
}

// record mirrors one artifact entry.
type record struct {
	ID     string            `json:"id"`
	Vector []float64         `json:"vector"`
	Text   string            `json:"text"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// envelope is the current artifact format. Earlier builds wrote a bare
// record array; Decode accepts both.
type envelope struct {
	Records []record     `json:"records"`
	TFIDF   *tfidf.Model `json:"tfidf,omitempty"`
}

// Load reads and validates the embedding artifact at path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open index %s: %v", domain.ErrLoad, path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates an embedding artifact. It fails when the
// artifact is malformed, empty, contains duplicate ids or empty passages,
// or mixes vector dimensionalities.
func Decode(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read index: %v", domain.ErrLoad, err)
	}

	var env envelope
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(data, &env.Records); err != nil {
			return nil, fmt.Errorf("%w: parse index: %v", domain.ErrLoad, err)
		}
	} else {
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: parse index: %v", domain.ErrLoad, err)
		}
	}

	records := make([]domain.IndexedVector, len(env.Records))
	for i, rec := range env.Records {
		records[i] = domain.IndexedVector{ID: rec.ID, Vector: rec.Vector, Text: rec.Text, Meta: rec.Meta}
	}
	return New(records, env.TFIDF)
}

// New validates records and builds a store over them. The slice is retained;
// callers must not modify it afterwards.
func New(records []domain.IndexedVector, model *tfidf.Model) (*Store, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: index contains no records", domain.ErrLoad)
	}
	dim := len(records[0].Vector)
	if dim == 0 {
		return nil, fmt.Errorf("%w: record %q has an empty vector", domain.ErrLoad, records[0].ID)
	}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: record with empty id", domain.ErrLoad)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate record id %q", domain.ErrLoad, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if rec.Text == "" {
			return nil, fmt.Errorf("%w: record %q has empty text", domain.ErrLoad, rec.ID)
		}
		if len(rec.Vector) != dim {
			return nil, fmt.Errorf("%w: record %q has dimension %d, store has %d",
				domain.ErrLoad, rec.ID, len(rec.Vector), dim)
		}
	}
	return &Store{records: records, dim: dim, tfidf: model}, nil
}

// All returns every indexed vector in artifact insertion order. The returned
// slice is a read-only view; callers must not modify it.
func (s *Store) All() []domain.IndexedVector { return s.records }

// Dimension returns the vector dimensionality shared by all records.
func (s *Store) Dimension() int { return s.dim }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// TFIDF returns the tf-idf model the index was built with, or nil when the
// index was embedded remotely.
func (s *Store) TFIDF() *tfidf.Model { return s.tfidf }

// Encode writes the store back out in the current artifact format.
// Decode(Encode(s)) yields identical ordering and values.
func (s *Store) Encode(w io.Writer) error {
	return Write(w, s.records, s.tfidf)
}

// Write encodes records (and an optional tf-idf model) as an embedding
// artifact. It applies the same validation as New so a broken artifact is
// never written.
func Write(w io.Writer, records []domain.IndexedVector, model *tfidf.Model) error {
	if _, err := New(records, model); err != nil {
		return err
	}
	env := envelope{Records: make([]record, len(records)), TFIDF: model}
	for i, rec := range records {
		env.Records[i] = record{ID: rec.ID, Vector: rec.Vector, Text: rec.Text, Meta: rec.Meta}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

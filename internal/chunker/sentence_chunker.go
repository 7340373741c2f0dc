// Package chunker splits the bio into overlapping sentence windows for the
// offline index build.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"portfoliochat/internal/domain"
)

// SentenceChunker splits text into sentence-based chunks with overlap.
// Overlap keeps a thought that straddles a chunk boundary retrievable from
// either side.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

// New creates a sentence chunker. Non-positive sizes fall back to defaults.
func New(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk splits text into documents with ids idPrefix_0, idPrefix_1, ...
// Every document carries a copy of meta. Empty text yields no documents.
func (c *SentenceChunker) Chunk(idPrefix, text string, meta map[string]string) []domain.Document {
	sentences := c.splitter.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		sentences = []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	var docs []domain.Document
	i, idx := 0, 0
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		docs = append(docs, domain.Document{
			ID:   fmt.Sprintf("%s_%d", idPrefix, idx),
			Text: strings.Join(sentences[i:end], " "),
			Meta: copyMeta(meta),
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
		idx++
	}
	return docs
}

func copyMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

package domain

import "context"

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces a reply from an ordered sequence of conversation
// turns. Turn order is significant and must be preserved.
type Generator interface {
	Generate(ctx context.Context, turns []Turn) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

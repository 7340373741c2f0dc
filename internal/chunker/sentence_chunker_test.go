package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	text := "One. Two. Three. Four. Five. Six. Seven."
	docs := New(3, 1).Chunk("bio", text, map[string]string{"type": "bio"})

	require.Len(t, docs, 3)
	assert.Equal(t, "bio_0", docs[0].ID)
	assert.Equal(t, "One. Two. Three.", docs[0].Text)
	// One sentence of overlap carries across the boundary.
	assert.Equal(t, "bio_1", docs[1].ID)
	assert.Equal(t, "Three. Four. Five.", docs[1].Text)
	assert.Equal(t, "Five. Six. Seven.", docs[2].Text)
	assert.Equal(t, "bio", docs[0].Meta["type"])
}

func TestChunk_NoSentencePunctuation(t *testing.T) {
	docs := New(3, 1).Chunk("bio", "just one unpunctuated line", nil)
	require.Len(t, docs, 1)
	assert.Equal(t, "bio_0", docs[0].ID)
	assert.Equal(t, "just one unpunctuated line", docs[0].Text)
}

func TestChunk_Empty(t *testing.T) {
	assert.Empty(t, New(3, 1).Chunk("bio", "   \n  ", nil))
}

func TestChunk_MetaIsCopied(t *testing.T) {
	meta := map[string]string{"type": "bio"}
	docs := New(2, 0).Chunk("bio", "One. Two. Three.", meta)
	require.NotEmpty(t, docs)
	docs[0].Meta["type"] = "changed"
	assert.Equal(t, "bio", meta["type"])
}

func TestNew_ClampsOverlap(t *testing.T) {
	// Overlap >= chunk size would never advance; it must be clamped.
	docs := New(2, 5).Chunk("x", "One. Two. Three. Four.", nil)
	require.NotEmpty(t, docs)
	assert.Less(t, len(docs), 10)
}

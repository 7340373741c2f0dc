package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	text := "Design systems keep teams consistent. The weather was nice. " +
		"Design research shapes every design decision. Lunch was late. " +
		"Consistent design tokens make systems easy to maintain."

	got, err := NewFrequency().Summarize(text, 2)
	require.NoError(t, err)

	sentences := strings.Count(got, ".")
	assert.LessOrEqual(t, sentences, 2)
	assert.Contains(t, strings.ToLower(got), "design")
}

func TestSummarize_KeepsSourceOrder(t *testing.T) {
	text := "Alpha beta gamma. Alpha beta delta. Alpha beta epsilon."
	got, err := NewFrequency().Summarize(text, 3)
	require.NoError(t, err)
	// All sentences selected; they must come back in original order.
	assert.Equal(t, "Alpha beta gamma. Alpha beta delta. Alpha beta epsilon.", got)
}

func TestSummarize_NoSentences(t *testing.T) {
	got, err := NewFrequency().Summarize("no terminal punctuation here", 2)
	require.NoError(t, err)
	assert.Equal(t, "no terminal punctuation here", got)
}

func TestSummarize_MaxLargerThanText(t *testing.T) {
	got, err := NewFrequency().Summarize("Only one sentence.", 5)
	require.NoError(t, err)
	assert.Equal(t, "Only one sentence.", got)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.Content.Dir)
	assert.Equal(t, "content/vectors.json", cfg.Content.IndexPath)
	assert.Equal(t, "openai", cfg.Embedder.Type)
	assert.Equal(t, "openai", cfg.Generator.Type)
	assert.Equal(t, 6, cfg.Retrieval.TopK)
	assert.Equal(t, 5, cfg.Chunker.SentencesPerChunk)

	// The UX Club disambiguation ships as a default rule.
	require.NotEmpty(t, cfg.Overrides)
	rule := cfg.Overrides[0]
	assert.Equal(t, []string{"ux club"}, rule.Triggers)
	assert.Contains(t, rule.Exclusions, "branding")
	assert.Equal(t, "ux-club", rule.Target)
}

func TestLoad_ParsesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `
content:
  dir: fixtures
embedder:
  type: tfidf
generator:
  type: openai
  openai:
    model: gpt-4o
retrieval:
  top_k: 3
overrides:
  - triggers: ["ux club"]
    exclusions: ["project"]
    target: ux-club
persona:
  bot_name: Test Bot
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fixtures", cfg.Content.Dir)
	assert.Equal(t, filepath.Join("fixtures", "vectors.json"), cfg.Content.IndexPath)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "gpt-4o", cfg.Generator.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generator.OpenAI.APIKeyEnv)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "Test Bot", cfg.Persona.BotName)
	assert.Equal(t, "the site owner", cfg.Persona.OwnerName)
	require.Len(t, cfg.Overrides, 1)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content:\n\tdir: tabs-are-invalid"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	cfg.Persona.BotName = "Saved Bot"

	require.NoError(t, Save(path, cfg))
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved Bot", reloaded.Persona.BotName)
	assert.Equal(t, cfg.Retrieval.TopK, reloaded.Retrieval.TopK)
}

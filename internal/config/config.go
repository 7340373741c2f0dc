package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible
// embeddings client.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the query embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// OpenAIGeneratorConfig holds configuration for the chat-completion client.
type OpenAIGeneratorConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// GeneratorConfig selects and configures the reply generator.
type GeneratorConfig struct {
	Type   string                 `yaml:"type"`
	OpenAI *OpenAIGeneratorConfig `yaml:"openai,omitempty"`
}

// ContentConfig locates the curated content bundle and the embedding
// artifact built from it.
type ContentConfig struct {
	Dir       string `yaml:"dir"`
	IndexPath string `yaml:"index_path"`
}

// ChunkerConfig configures how the bio is split at index-build time.
type ChunkerConfig struct {
	SentencesPerChunk int `yaml:"sentences_per_chunk"`
	OverlapSentences  int `yaml:"overlap_sentences"`
}

// RetrievalConfig configures semantic retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// OverrideRule redirects ambiguous queries to a specific FAQ entry. A rule
// fires when every trigger keyword is present and no exclusion keyword is.
// Rules are evaluated in listed order; the first match wins.
type OverrideRule struct {
	Triggers   []string `yaml:"triggers"`
	Exclusions []string `yaml:"exclusions"`
	Target     string   `yaml:"target"`
}

// PersonaConfig names the bot and the portfolio owner for the persona
// instruction and the chat surfaces.
type PersonaConfig struct {
	BotName   string `yaml:"bot_name"`
	OwnerName string `yaml:"owner_name"`
}

// ServerConfig configures the HTTP API mode.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SummaryConfig configures the bio blurb in the chat header.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Content   ContentConfig   `yaml:"content"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Overrides []OverrideRule  `yaml:"overrides"`
	Persona   PersonaConfig   `yaml:"persona"`
	Server    ServerConfig    `yaml:"server"`
	Summary   SummaryConfig   `yaml:"summary"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then
// ~/.config/portfolio-chat/config.yaml. If neither exists, it writes
// defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "portfolio-chat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Content:   ContentConfig{Dir: "content", IndexPath: "content/vectors.json"},
		Embedder:  EmbedderConfig{Type: "openai"},
		Generator: GeneratorConfig{Type: "openai"},
		Chunker:   ChunkerConfig{SentencesPerChunk: 5, OverlapSentences: 1},
		Retrieval: RetrievalConfig{TopK: 6},
		Overrides: defaultOverrides(),
		Persona:   PersonaConfig{BotName: "Queenie Bot", OwnerName: "Queenie"},
		Server:    ServerConfig{Addr: ":8080"},
		Summary:   SummaryConfig{MaxSentences: 2},
	}
	applyConfigDefaults(cfg)
	return cfg
}

// defaultOverrides carries the known ambiguous phrasings. "UX Club" names
// both a student club (FAQ) and a branding project; without the exclusions
// the project would shadow the club answer.
func defaultOverrides() []OverrideRule {
	return []OverrideRule{
		{
			Triggers:   []string{"ux club"},
			Exclusions: []string{"project", "case study", "branding"},
			Target:     "ux-club",
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "content"
	}
	if cfg.Content.IndexPath == "" {
		cfg.Content.IndexPath = filepath.Join(cfg.Content.Dir, "vectors.json")
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 6
	}
	if cfg.Persona.BotName == "" {
		cfg.Persona.BotName = "Portfolio Bot"
	}
	if cfg.Persona.OwnerName == "" {
		cfg.Persona.OwnerName = "the site owner"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = 2
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
	}
	if cfg.Generator.Type == "openai" {
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIGeneratorConfig{}
		}
		o := cfg.Generator.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "gpt-4o-mini"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 60
		}
		if o.MaxTokens == 0 {
			o.MaxTokens = 512
		}
	}
}

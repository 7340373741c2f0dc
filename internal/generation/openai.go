// Package generation calls the text-generation service. The service is
// opaque to the rest of the pipeline: turns in, reply text out. Transport
// errors and empty completions surface as domain.ErrGenerationFailure so the
// caller can substitute a safe reply.
package generation

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"portfoliochat/internal/domain"
)

// OpenAIConfig configures the chat-completion client.
type OpenAIConfig struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// OpenAIGenerator generates replies through an OpenAI-compatible chat
// completions API.
type OpenAIGenerator struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAI builds a generator from config.
func NewOpenAI(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	apiCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIGenerator{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends the turns in order and returns the completion text.
func (g *OpenAIGenerator) Generate(ctx context.Context, turns []domain.Turn) (string, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    toMessages(turns),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrGenerationFailure)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationFailure)
	}
	return text, nil
}

func toMessages(turns []domain.Turn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		role := openai.ChatMessageRoleUser
		switch t.Role {
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case domain.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		msgs[i] = openai.ChatCompletionMessage{Role: role, Content: t.Content}
	}
	return msgs
}

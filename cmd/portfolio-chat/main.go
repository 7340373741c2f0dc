// Command portfolio-chat answers questions about the portfolio, either as a
// terminal chat widget (default) or as an HTTP API (--serve).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"portfoliochat/internal/config"
	"portfoliochat/internal/domain"
	"portfoliochat/internal/embedding/openai"
	"portfoliochat/internal/embedding/tfidf"
	"portfoliochat/internal/generation"
	"portfoliochat/internal/knowledge"
	"portfoliochat/internal/selector"
	"portfoliochat/internal/server"
	"portfoliochat/internal/service"
	"portfoliochat/internal/summarizer"
	"portfoliochat/internal/tui"
	"portfoliochat/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/portfolio-chat/config.yaml)")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of the terminal chat")
	addr := flag.String("addr", "", "Listen address override for --serve")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(*cfgPath, *serve, *addr, logger); err != nil {
		logger.Error("exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfgPath string, serve bool, addr string, logger *slog.Logger) error {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// A corrupt index or content bundle is fatal: refusing to serve beats
	// answering from garbage.
	store, err := vectorstore.Load(cfg.Content.IndexPath)
	if err != nil {
		return err
	}
	base, err := knowledge.Load(cfg.Content.Dir)
	if err != nil {
		return err
	}
	logger.Info("knowledge loaded",
		"records", store.Len(), "dimension", store.Dimension(),
		"projects", len(base.Projects), "faqs", len(base.FAQs), "exemplars", len(base.Exemplars))

	embedder, err := buildEmbedder(cfg, store)
	if err != nil {
		return err
	}
	if embedder.Dimension() != 0 && embedder.Dimension() != store.Dimension() {
		logger.Warn("embedder dimension differs from index; semantic search will degrade to fallback",
			"embedder", embedder.Dimension(), "index", store.Dimension())
	}

	var gen domain.Generator
	switch cfg.Generator.Type {
	case "openai":
		o := cfg.Generator.OpenAI
		gen, err = generation.NewOpenAI(generation.OpenAIConfig{
			BaseURL:     o.BaseURL,
			APIKeyEnv:   o.APIKeyEnv,
			Model:       o.Model,
			Timeout:     time.Duration(o.TimeoutSecs) * time.Second,
			MaxTokens:   o.MaxTokens,
			Temperature: o.Temperature,
		})
		if err != nil {
			return fmt.Errorf("generator init: %w", err)
		}
	default:
		return fmt.Errorf("unknown generator: %s", cfg.Generator.Type)
	}

	rules := make([]selector.Rule, len(cfg.Overrides))
	for i, r := range cfg.Overrides {
		rules[i] = selector.Rule{Triggers: r.Triggers, Exclusions: r.Exclusions, Target: r.Target}
	}
	sel := selector.New(base, store, embedder, rules, cfg.Retrieval.TopK, logger)

	blurb := ""
	if base.Bio != "" {
		blurb, err = summarizer.NewFrequency().Summarize(base.Bio, cfg.Summary.MaxSentences)
		if err != nil {
			logger.Warn("bio summary failed", "err", err)
		}
	}
	svc := service.New(sel, gen, base, service.Options{
		BotName:   cfg.Persona.BotName,
		OwnerName: cfg.Persona.OwnerName,
		BioBlurb:  blurb,
	}, logger)

	if serve {
		if addr == "" {
			addr = cfg.Server.Addr
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.New(svc, logger).Run(ctx, addr)
	}

	_, err = tea.NewProgram(tui.New(svc, cfg.Persona.BotName), tea.WithAltScreen()).Run()
	return err
}

// buildEmbedder assembles the query embedder from config. The tfidf type
// requires an index built with the tfidf model persisted alongside it.
func buildEmbedder(cfg *config.AppConfig, store *vectorstore.Store) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "openai":
		o := cfg.Embedder.OpenAI
		return openai.NewClient(openai.Config{
			BaseURL:   o.BaseURL,
			APIKeyEnv: o.APIKeyEnv,
			Model:     o.Model,
			Timeout:   time.Duration(o.TimeoutSecs) * time.Second,
		})
	case "tfidf":
		model := store.TFIDF()
		if model == nil {
			return nil, errors.New("embedder type tfidf requires an index built with the tfidf embedder")
		}
		return tfidf.FromModel(model)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

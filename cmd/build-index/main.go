// Command build-index is the offline chunk-and-embed step. It flattens the
// content bundle (bio chunks, project one-liners and details, FAQs) into
// documents, embeds them, and writes the embedding artifact the chat binary
// loads at startup. A new artifact replaces the old one out of band; the
// running process never mutates its index.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"portfoliochat/internal/chunker"
	"portfoliochat/internal/config"
	"portfoliochat/internal/domain"
	"portfoliochat/internal/embedding/openai"
	"portfoliochat/internal/embedding/tfidf"
	"portfoliochat/internal/knowledge"
	"portfoliochat/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to YAML config file")
	out := flag.String("out", "", "Output path override (default: config content.index_path)")
	flag.Parse()

	if err := run(*cfgPath, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, out string) error {
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
	if out == "" {
		out = cfg.Content.IndexPath
	}

	base, err := knowledge.Load(cfg.Content.Dir)
	if err != nil {
		return err
	}

	docs := flatten(base, chunker.New(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences))
	if len(docs) == 0 {
		return fmt.Errorf("content bundle produced no documents")
	}
	fmt.Printf("Flattened %d documents (%d projects, %d faqs)\n", len(docs), len(base.Projects), len(base.FAQs))

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	ctx := context.Background()
	var vectors [][]float64
	var model *tfidf.Model

	switch cfg.Embedder.Type {
	case "openai":
		o := cfg.Embedder.OpenAI
		client, err := openai.NewClient(openai.Config{
			BaseURL:   o.BaseURL,
			APIKeyEnv: o.APIKeyEnv,
			Model:     o.Model,
			Timeout:   time.Duration(o.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("embedder init: %w", err)
		}
		fmt.Printf("Embedding %d documents with %s...\n", len(docs), client.Name())
		vectors, err = client.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed documents: %w", err)
		}
	case "tfidf":
		emb := tfidf.NewEmbedder()
		if err := emb.Prepare(texts); err != nil {
			return fmt.Errorf("prepare tfidf: %w", err)
		}
		fmt.Printf("Embedding %d documents with tfidf (dim=%d)...\n", len(docs), emb.Dimension())
		vectors, err = emb.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed documents: %w", err)
		}
		model = emb.Model()
	default:
		return fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	records := make([]domain.IndexedVector, len(docs))
	for i, d := range docs {
		records[i] = domain.IndexedVector{ID: d.ID, Vector: vectors[i], Text: d.Text, Meta: d.Meta}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := vectorstore.Write(f, records, model); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	fmt.Printf("Wrote %d vectors to %s\n", len(records), out)
	return nil
}

// flatten turns the content bundle into the document list the index is
// built from. The id scheme (bio_N, proj_<id>_one, proj_<id>_dN, faq_N)
// stays stable across rebuilds.
func flatten(base *knowledge.Base, ch *chunker.SentenceChunker) []domain.Document {
	var docs []domain.Document

	docs = append(docs, ch.Chunk("bio", base.Bio, map[string]string{"type": "bio"})...)

	for _, p := range base.Projects {
		meta := map[string]string{"type": "project", "id": p.ID}
		if p.URL != "" {
			meta["url"] = p.URL
		}
		docs = append(docs, domain.Document{
			ID:   fmt.Sprintf("proj_%s_one", p.ID),
			Text: fmt.Sprintf("%s\n%s", p.Title, p.OneLiner),
			Meta: meta,
		})
		for i, d := range p.Details {
			docs = append(docs, domain.Document{
				ID:   fmt.Sprintf("proj_%s_d%d", p.ID, i),
				Text: fmt.Sprintf("%s: %s", p.Title, d),
				Meta: meta,
			})
		}
	}

	for i, f := range base.FAQs {
		docs = append(docs, domain.Document{
			ID:   fmt.Sprintf("faq_%d", i),
			Text: fmt.Sprintf("Q: %s\nA: %s", f.Question, f.Answer),
			Meta: map[string]string{"type": "faq", "key": f.Key},
		})
	}
	return docs
}

// Package selector decides which textual context grounds a reply. Curated
// structured content wins over retrieval: an exact project match is checked
// first, then the topic-override rule table, and only then the semantic
// ranking of the vector store. When the embedding service is unavailable the
// semantic step degrades to a deterministic subset of the store instead of
// failing the request.
package selector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"portfoliochat/internal/domain"
	"portfoliochat/internal/knowledge"
	"portfoliochat/internal/ranker"
	"portfoliochat/internal/vectorstore"
)

// Rule redirects queries that contain every trigger keyword and none of the
// exclusion keywords to a specific FAQ entry. Rules patch cases where two
// topics share vocabulary and similarity ranking alone picks the wrong one.
type Rule struct {
	Triggers   []string
	Exclusions []string
	Target     string
}

// Source identifies which path produced the context.
type Source string

const (
	SourceProject  Source = "project"
	SourceFAQ      Source = "faq"
	SourceSemantic Source = "semantic"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Selection is the chosen context. Context is empty only when every
// underlying source is empty; callers treat that as "no grounding", not as
// an error.
type Selection struct {
	Context string
	Source  Source
}

// Selector evaluates the priority chain for each query.
type Selector struct {
	base     *knowledge.Base
	store    *vectorstore.Store
	embedder domain.Embedder
	rules    []Rule
	topK     int
	logger   *slog.Logger
}

// New builds a selector. Rules are evaluated in the given order; the first
// matching rule wins.
func New(base *knowledge.Base, store *vectorstore.Store, embedder domain.Embedder, rules []Rule, topK int, logger *slog.Logger) *Selector {
	if topK <= 0 {
		topK = 6
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{base: base, store: store, embedder: embedder, rules: rules, topK: topK, logger: logger}
}

// Select returns the context for query.
func (s *Selector) Select(ctx context.Context, query string) Selection {
	if p, ok := s.base.MatchProject(query); ok {
		return Selection{Context: renderProject(p), Source: SourceProject}
	}
	if f, ok := s.matchOverride(query); ok {
		return Selection{Context: renderFAQ(f), Source: SourceFAQ}
	}
	return s.semantic(ctx, query)
}

// matchOverride evaluates the rule table in order. A rule fires only when
// every trigger is present and no exclusion is present, case-insensitively.
func (s *Selector) matchOverride(query string) (knowledge.FAQ, bool) {
	q := strings.ToLower(query)
	for _, r := range s.rules {
		if len(r.Triggers) == 0 || !containsAll(q, r.Triggers) || containsAny(q, r.Exclusions) {
			continue
		}
		f, ok := s.base.FAQByKey(r.Target)
		if !ok {
			s.logger.Warn("override rule targets unknown faq", "target", r.Target)
			continue
		}
		return f, true
	}
	return knowledge.FAQ{}, false
}

func (s *Selector) semantic(ctx context.Context, query string) Selection {
	if s.store == nil || s.store.Len() == 0 {
		return Selection{Source: SourceNone}
	}

	results, source := s.rank(ctx, query)
	if len(results) == 0 {
		return Selection{Source: SourceNone}
	}
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(r.Document.Text)
	}
	return Selection{Context: b.String(), Source: source}
}

// rank embeds the query and ranks the store, degrading to the first topK
// records in insertion order when embedding or ranking is unavailable.
func (s *Selector) rank(ctx context.Context, query string) ([]domain.SearchResult, Source) {
	if s.embedder == nil {
		return ranker.FallbackTopK(s.store, s.topK), SourceFallback
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed, using fallback context", "err", err)
		return ranker.FallbackTopK(s.store, s.topK), SourceFallback
	}
	results, err := ranker.Rank(vec, s.store, s.topK)
	if err != nil {
		s.logger.Warn("ranking failed, using fallback context", "err", err)
		return ranker.FallbackTopK(s.store, s.topK), SourceFallback
	}
	return results, SourceSemantic
}

func renderProject(p knowledge.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", p.Title)
	if p.OneLiner != "" {
		b.WriteString(p.OneLiner)
		b.WriteString("\n")
	}
	for _, d := range p.Details {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	if p.URL != "" {
		fmt.Fprintf(&b, "More: %s\n", p.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFAQ(f knowledge.FAQ) string {
	return fmt.Sprintf("Q: %s\nA: %s", f.Question, f.Answer)
}

func containsAll(q string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(q, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

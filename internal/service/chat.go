// Package service orchestrates the reply pipeline: select context, assemble
// the prompt, call generation. Every per-request failure is absorbed here;
// callers always get a usable reply and operators get a log line.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"portfoliochat/internal/domain"
	"portfoliochat/internal/knowledge"
	"portfoliochat/internal/prompt"
	"portfoliochat/internal/selector"
)

// FallbackReply is returned whenever generation errs or produces no text.
const FallbackReply = "Sorry, I had trouble replying. Please try again."

// Answer is the pipeline output. Source records which context path grounded
// the reply; it is diagnostic, not user-facing.
type Answer struct {
	Reply  string          `json:"reply"`
	Source selector.Source `json:"source,omitempty"`
}

// Chat is the request-time pipeline. All fields are read-only after New, so
// a single Chat is safe for concurrent requests.
type Chat struct {
	selector  *selector.Selector
	generator domain.Generator
	persona   string
	shots     []knowledge.Exemplar
	greeting  string
	logger    *slog.Logger
}

// Options configures pipeline construction.
type Options struct {
	BotName   string
	OwnerName string
	// BioBlurb is the pre-summarized bio line shown in greetings. May be
	// empty.
	BioBlurb string
}

// New builds the chat pipeline over a selector and generator.
func New(sel *selector.Selector, gen domain.Generator, base *knowledge.Base, opts Options, logger *slog.Logger) *Chat {
	if logger == nil {
		logger = slog.Default()
	}
	greeting := fmt.Sprintf("Hello! I'm %s. Ask me about %s's projects, background, or work experiences.",
		opts.BotName, opts.OwnerName)
	if opts.BioBlurb != "" {
		greeting += " " + opts.BioBlurb
	}
	return &Chat{
		selector:  sel,
		generator: gen,
		persona:   prompt.Persona(opts.BotName, opts.OwnerName, base.StyleGuide),
		shots:     base.Exemplars,
		greeting:  greeting,
		logger:    logger,
	}
}

// Greeting returns the assistant's opening line.
func (c *Chat) Greeting() string { return c.greeting }

// Reply runs the pipeline for one query. It never fails: embedding trouble
// degrades to fallback context inside the selector, and generation trouble
// degrades to the fixed fallback reply here.
func (c *Chat) Reply(ctx context.Context, query string) Answer {
	query = strings.TrimSpace(query)
	sel := c.selector.Select(ctx, query)
	c.logger.Info("context selected", "source", sel.Source, "query_len", len(query))

	turns := prompt.Assemble(c.persona, sel.Context, query, c.shots)
	text, err := c.generator.Generate(ctx, turns)
	if err != nil {
		c.logger.Error("generation failed", "err", err, "source", sel.Source)
		return Answer{Reply: FallbackReply, Source: sel.Source}
	}
	reply := sanitize(text)
	if reply == "" {
		c.logger.Error("generation returned empty text", "source", sel.Source)
		return Answer{Reply: FallbackReply, Source: sel.Source}
	}
	return Answer{Reply: reply, Source: sel.Source}
}

// sanitize applies the site's small reply rewrites.
func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " + ", " and "))
}

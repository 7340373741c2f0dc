// Package knowledge loads the curated content bundle: projects, FAQs,
// few-shot exemplars and the style guide. These are hand-authored records,
// preferred over retrieval whenever a query matches one directly. Like the
// vector store, the bundle is loaded once at startup and never mutated.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"portfoliochat/internal/domain"
)

// Project is a curated portfolio entry.
type Project struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	OneLiner string   `json:"oneLiner"`
	Details  []string `json:"details"`
	URL      string   `json:"url,omitempty"`
}

// FAQ is a curated question/answer pair. The key is the stable handle
// override rules target.
type FAQ struct {
	Key      string `json:"key"`
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// Exemplar is a few-shot (user utterance, ideal reply) pair used to steer
// the generation service's style.
type Exemplar struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Base is the loaded content bundle.
type Base struct {
	Projects   []Project
	FAQs       []FAQ
	Exemplars  []Exemplar
	StyleGuide string
	Bio        string
}

// Load reads the content bundle from dir. projects.json and faqs.json are
// required; exemplars.json, style.md and bio.md are optional. Any file that
// exists but does not parse is fatal.
func Load(dir string) (*Base, error) {
	base := &Base{}

	if err := readJSON(filepath.Join(dir, "projects.json"), &base.Projects, true); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "faqs.json"), &base.FAQs, true); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "exemplars.json"), &base.Exemplars, false); err != nil {
		return nil, err
	}

	var err error
	if base.StyleGuide, err = readText(filepath.Join(dir, "style.md")); err != nil {
		return nil, err
	}
	if base.Bio, err = readText(filepath.Join(dir, "bio.md")); err != nil {
		return nil, err
	}

	for i, p := range base.Projects {
		if p.ID == "" || p.Title == "" {
			return nil, fmt.Errorf("%w: project %d is missing id or title", domain.ErrLoad, i)
		}
	}
	for i, f := range base.FAQs {
		if f.Key == "" || f.Question == "" || f.Answer == "" {
			return nil, fmt.Errorf("%w: faq %d is missing key, q or a", domain.ErrLoad, i)
		}
	}
	return base, nil
}

// MatchProject returns the first project whose title or id appears in the
// query, case-insensitively. Source order decides between multiple matches.
func (b *Base) MatchProject(query string) (Project, bool) {
	q := strings.ToLower(query)
	for _, p := range b.Projects {
		if strings.Contains(q, strings.ToLower(p.Title)) || strings.Contains(q, strings.ToLower(p.ID)) {
			return p, true
		}
	}
	return Project{}, false
}

// FAQByKey looks up an FAQ entry by its stable key.
func (b *Base) FAQByKey(key string) (FAQ, bool) {
	for _, f := range b.FAQs {
		if f.Key == key {
			return f, true
		}
	}
	return FAQ{}, false
}

// Empty reports whether the bundle holds no structured entities at all.
func (b *Base) Empty() bool {
	return len(b.Projects) == 0 && len(b.FAQs) == 0
}

func readJSON(path string, out any, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %v", domain.ErrLoad, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrLoad, path, err)
	}
	return nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrLoad, path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

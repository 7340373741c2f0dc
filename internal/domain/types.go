package domain

// Document is a single passage of the knowledge base.
type Document struct {
	ID   string
	Text string
	Meta map[string]string
}

// IndexedVector pairs a document with its pre-computed embedding. The text
// is denormalized so retrieved passages can be dropped into a prompt
// without a second lookup.
type IndexedVector struct {
	ID     string
	Vector []float64
	Text   string
	Meta   map[string]string
}

// Document returns the document view of an indexed vector.
func (v IndexedVector) Document() Document {
	return Document{ID: v.ID, Text: v.Text, Meta: v.Meta}
}

// SearchResult is a retrieved passage with its similarity score.
// Created per query and discarded after use.
type SearchResult struct {
	Document Document
	Score    float64
}

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversational payload sent to the generation
// service.
type Turn struct {
	Role    Role
	Content string
}

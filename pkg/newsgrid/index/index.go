// Package index defines the boolean predicate tree evaluated by document
// index providers and the provider contract itself. Providers are treated
// as read-only and safe for concurrent queries.
package index

import (
	"context"
	"strings"
	"time"
)

// Stored field names shared by every provider.
const (
	FieldCountry     = "country"
	FieldRecipient   = "recipient"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldContent     = "content"
	FieldPublished   = "published"
)

// TextFields are the fields that contribute to a document's modelling text.
var TextFields = []string{FieldTitle, FieldDescription, FieldContent}

// Index is a document index provider
type Index interface {
	// Count returns the true total number of documents matching q.
	Count(ctx context.Context, q Query) (int, error)

	// Search returns up to limit matches, ranked by score descending and
	// then by ID ascending.
	Search(ctx context.Context, q Query, limit int) ([]Hit, error)

	// Document resolves a reference to its stored fields.
	Document(ctx context.Context, id string) (Doc, error)
}

// Hit is a ranked document reference
type Hit struct {
	ID    string
	Score float64
}

// Doc holds the stored field values of one document
type Doc struct {
	ID        string
	Fields    map[string]string
	Published time.Time
}

// Field returns a stored string field, or "" when absent.
func (d Doc) Field(name string) string {
	if d.Fields == nil {
		return ""
	}
	return d.Fields[name]
}

// Date returns a structured date field. Only FieldPublished is a date.
func (d Doc) Date(name string) (time.Time, bool) {
	if name != FieldPublished || d.Published.IsZero() {
		return time.Time{}, false
	}
	return d.Published, true
}

// Text joins the non-empty text fields in TextFields order.
func (d Doc) Text() string {
	parts := make([]string, 0, len(TextFields))
	for _, f := range TextFields {
		if v := strings.TrimSpace(d.Field(f)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

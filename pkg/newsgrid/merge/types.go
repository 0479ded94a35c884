package merge

import (
	"fmt"
	"strings"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Type selects the topic distance metric
type Type int

const (
	// TermOverlap is 1 - Jaccard over the topics' top terms.
	TermOverlap Type = iota
	// SentenceOverlap is 1 - Jaccard over the tokens of each topic's
	// representative summary sentences.
	SentenceOverlap
	// DocumentOverlap is 1 - Jaccard over the documents best matching
	// each topic's top terms.
	DocumentOverlap
	// TFIDF is 1 - cosine similarity of TF-IDF weighted term vectors in
	// the space of all topics' terms.
	TFIDF
)

var typeNames = []string{"term_overlap", "sentence_overlap", "document_overlap", "tfidf"}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType maps a configuration name to a Type.
func ParseType(name string) (Type, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range typeNames {
		if n == norm {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported merge type %q: %w", name, internalerr.ErrInvalidConfig)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("unsupported merge type %d: %w", int(t), internalerr.ErrInvalidConfig)
	}
	return []byte(t.String()), nil
}

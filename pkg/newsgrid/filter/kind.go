package filter

import (
	"fmt"
	"strings"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Kind identifies the semantic axis of a dimension
type Kind int

const (
	Country Kind = iota
	TitleContains
	ContentContains
	DescriptionContains
	PublishDay
	Recipient
)

var kindNames = map[Kind]string{
	Country:             "country",
	TitleContains:       "title_contains",
	ContentContains:     "content_contains",
	DescriptionContains: "description_contains",
	PublishDay:          "publish_day",
	Recipient:           "recipient",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a configuration name to a Kind. Matching ignores case and
// treats '-' like '_'.
func ParseKind(name string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for k, n := range kindNames {
		if n == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown dimension kind %q: %w", name, internalerr.ErrInvalidConfig)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown dimension kind %d: %w", int(k), internalerr.ErrInvalidConfig)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// field is the index field a kind selects on.
func (k Kind) field() string {
	switch k {
	case Country:
		return index.FieldCountry
	case Recipient:
		return index.FieldRecipient
	case TitleContains:
		return index.FieldTitle
	case ContentContains:
		return index.FieldContent
	case DescriptionContains:
		return index.FieldDescription
	case PublishDay:
		return index.FieldPublished
	}
	return ""
}

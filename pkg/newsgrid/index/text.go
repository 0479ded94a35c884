package index

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Text is a parsed free-text predicate against one field. Every clause
// without Exclude must match; no excluded clause may match.
type Text struct {
	Field   string
	Clauses []Clause
}

// Clause is one word or quoted phrase, already split into lower-case terms.
// A clause with several terms matches them as a contiguous phrase.
type Clause struct {
	Terms   []string
	Exclude bool
}

func (t Text) Key() string {
	parts := make([]string, len(t.Clauses))
	for i, c := range t.Clauses {
		s := strconv.Quote(strings.Join(c.Terms, " "))
		if c.Exclude {
			s = "-" + s
		}
		parts[i] = s
	}
	return t.Field + ":(" + strings.Join(parts, " ") + ")"
}

// Required returns the clauses that must match.
func (t Text) Required() []Clause {
	var out []Clause
	for _, c := range t.Clauses {
		if !c.Exclude {
			out = append(out, c)
		}
	}
	return out
}

// Excluded returns the clauses that must not match.
func (t Text) Excluded() []Clause {
	var out []Clause
	for _, c := range t.Clauses {
		if c.Exclude {
			out = append(out, c)
		}
	}
	return out
}

// ParseText parses a free-text query: whitespace separated words, double
// quoted phrases, and a leading '-' to exclude a word or phrase.
func ParseText(field, s string) (Text, error) {
	q := Text{Field: field}
	src := strings.TrimSpace(s)
	if src == "" {
		return q, fmt.Errorf("%w: empty text query", internalerr.ErrMalformedQuery)
	}

	runes := []rune(src)
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		exclude := false
		if runes[i] == '-' {
			exclude = true
			i++
			if i >= len(runes) || unicode.IsSpace(runes[i]) {
				return q, fmt.Errorf("%w: dangling '-' in %q", internalerr.ErrMalformedQuery, s)
			}
		}

		var raw string
		if runes[i] == '"' {
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			if end >= len(runes) {
				return q, fmt.Errorf("%w: unbalanced quote in %q", internalerr.ErrMalformedQuery, s)
			}
			raw = string(runes[i+1 : end])
			i = end + 1
		} else {
			end := i
			for end < len(runes) && !unicode.IsSpace(runes[end]) {
				if runes[end] == '"' {
					return q, fmt.Errorf("%w: stray quote in %q", internalerr.ErrMalformedQuery, s)
				}
				end++
			}
			raw = string(runes[i:end])
			i = end
		}

		terms := Terms(raw)
		if len(terms) == 0 {
			return q, fmt.Errorf("%w: clause %q has no searchable terms", internalerr.ErrMalformedQuery, raw)
		}
		q.Clauses = append(q.Clauses, Clause{Terms: terms, Exclude: exclude})
	}
	return q, nil
}

// MustParseText is ParseText for literals known to be well formed.
func MustParseText(field, s string) Text {
	q, err := ParseText(field, s)
	if err != nil {
		panic(err)
	}
	return q
}

// Terms lower-cases s and splits it on anything that is not a letter or a
// digit. Providers use it to analyze text the same way queries are parsed.
func Terms(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Package textproc turns article text into model-ready tokens.
//
// The pipeline order is fixed: NFC normalization and lowercasing, then
// tokenization that keeps punctuation inside a word but strips it at the
// edges, then stopword removal, then optional stemming.
package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern keeps internal punctuation ("u.s.", "gpt-4", "don't") and
// drops leading and trailing punctuation.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}](?:[\p{L}\p{N}\p{P}]*[\p{L}\p{N}])?`)

// Pipeline handles text tokenization and normalization
type Pipeline struct {
	stopwords map[string]struct{}
	stem      bool
}

// NewPipeline creates a pipeline with the given stopword list. Stopwords
// are matched after lowercasing.
func NewPipeline(stopwords []string) *Pipeline {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.TrimSpace(Normalize(w))
		if w != "" {
			stops[w] = struct{}{}
		}
	}
	return &Pipeline{stopwords: stops}
}

// SetStemming enables English snowball stemming as the last stage.
func (p *Pipeline) SetStemming(on bool) {
	p.stem = on
}

// Normalize applies NFC composition and lowercasing.
func Normalize(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}

// Tokens splits text into normalized tokens, removing stopwords.
func (p *Pipeline) Tokens(text string) []string {
	raw := tokenPattern.FindAllString(Normalize(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if p.IsStopword(tok) {
			continue
		}
		if p.stem {
			tok = stem(tok)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Features maps the tokens of text to feature IDs, growing vocab as new
// terms appear.
func (p *Pipeline) Features(text string, vocab *Vocabulary) []int {
	tokens := p.Tokens(text)
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = vocab.ID(tok)
	}
	return ids
}

// IsStopword reports whether an already normalized token is a stopword.
func (p *Pipeline) IsStopword(token string) bool {
	_, ok := p.stopwords[token]
	return ok
}

// AddStopword adds a word to the stopword list
func (p *Pipeline) AddStopword(word string) {
	p.stopwords[Normalize(word)] = struct{}{}
}

func stem(tok string) string {
	stemmed, err := snowball.Stem(tok, "english", true)
	if err != nil || stemmed == "" {
		return tok
	}
	return stemmed
}

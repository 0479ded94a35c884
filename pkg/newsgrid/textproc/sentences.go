package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentences splits text into trimmed sentences. A sentence ends at a line
// break or at '.', '!' or '?' followed by whitespace or end of text.
// Abbreviations are not special-cased.
func Sentences(text string) []string {
	var out []string
	start := 0
	flush := func(end int) {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i, r := range text {
		switch r {
		case '\n', '\r':
			flush(i)
		case '.', '!', '?':
			next := i + utf8.RuneLen(r)
			if next >= len(text) {
				continue
			}
			nr, _ := utf8.DecodeRuneInString(text[next:])
			if unicode.IsSpace(nr) {
				flush(next)
			}
		}
	}
	flush(len(text))
	return out
}

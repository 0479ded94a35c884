package textproc

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup returns the visible text of an HTML fragment. Script and
// style contents are dropped and block elements become line breaks so
// that Sentences still sees paragraph boundaries. Input that cannot be
// parsed is returned as is.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteByte('\n')
		}
	}
	extract(doc)

	return strings.TrimSpace(buf.String())
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "tr": true, "section": true, "article": true,
}

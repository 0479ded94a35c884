// Package topic holds topics produced by topic modelling and the arena
// that owns them. Cells and topics refer to each other by ID only.
package topic

import (
	"math"
	"sort"
)

// Term is one term of a topic with its probability
type Term struct {
	Term string  `json:"term"`
	Prob float64 `json:"prob"`
}

// Options control how raw weights become a topic's term list.
type Options struct {
	MinProb  float64 // terms below this probability are dropped
	MaxTerms int     // cap on the full term list, 0 means no cap
	TopTerms int     // length of the top-terms prefix
}

// Topic is a ranked term distribution. Equality is by ID.
type Topic struct {
	ID    int
	terms []Term
	top   int
	cells map[string]struct{}
}

// New normalizes raw term weights to probabilities that sum to 1, then
// keeps terms with probability >= MinProb, sorted descending and capped at
// MaxTerms. The retained probabilities are not renormalized. Every
// normalized probability is recorded in hist when it is non-nil.
func New(id int, weights map[string]float64, opts Options, hist *Histogram) *Topic {
	var sum float64
	for _, w := range weights {
		if w > 0 && !math.IsInf(w, 0) {
			sum += w
		}
	}

	terms := make([]Term, 0, len(weights))
	if sum > 0 {
		for term, w := range weights {
			if w <= 0 || math.IsInf(w, 0) {
				continue
			}
			p := w / sum
			hist.Record(p)
			if p >= opts.MinProb {
				terms = append(terms, Term{Term: term, Prob: p})
			}
		}
	}
	SortTerms(terms)
	if opts.MaxTerms > 0 && len(terms) > opts.MaxTerms {
		terms = terms[:opts.MaxTerms]
	}
	return FromTerms(id, terms, opts.TopTerms)
}

// FromTerms wraps an already ranked term list without renormalizing.
func FromTerms(id int, terms []Term, topTerms int) *Topic {
	t := &Topic{ID: id, terms: terms, cells: make(map[string]struct{})}
	t.top = topTerms
	if t.top <= 0 || t.top > len(terms) {
		t.top = len(terms)
	}
	return t
}

// SortTerms orders terms by probability descending, then term ascending.
func SortTerms(terms []Term) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Prob != terms[j].Prob {
			return terms[i].Prob > terms[j].Prob
		}
		return terms[i].Term < terms[j].Term
	})
}

// Terms returns the full filtered term list.
func (t *Topic) Terms() []Term {
	out := make([]Term, len(t.terms))
	copy(out, t.terms)
	return out
}

// Top returns the top-terms prefix.
func (t *Topic) Top() []Term {
	out := make([]Term, t.top)
	copy(out, t.terms[:t.top])
	return out
}

// TopWords returns the top terms without probabilities.
func (t *Topic) TopWords() []string {
	out := make([]string, t.top)
	for i := 0; i < t.top; i++ {
		out[i] = t.terms[i].Term
	}
	return out
}

// TopLen returns the configured length of the top-terms prefix.
func (t *Topic) TopLen() int { return t.top }

// Prob returns the probability of term, or 0 if it was filtered out.
func (t *Topic) Prob(term string) float64 {
	for _, tt := range t.terms {
		if tt.Term == term {
			return tt.Prob
		}
	}
	return 0
}

// Map returns the term list as a term to probability map.
func (t *Topic) Map() map[string]float64 {
	m := make(map[string]float64, len(t.terms))
	for _, tt := range t.terms {
		m[tt.Term] = tt.Prob
	}
	return m
}

// Mass is the probability retained after filtering.
func (t *Topic) Mass() float64 {
	var sum float64
	for _, tt := range t.terms {
		sum += tt.Prob
	}
	return sum
}

// AddCell records a back-reference to a cell. It reports whether the
// reference is new.
func (t *Topic) AddCell(cellID string) bool {
	if _, ok := t.cells[cellID]; ok {
		return false
	}
	t.cells[cellID] = struct{}{}
	return true
}

// HasCell reports whether the topic is assigned to the cell.
func (t *Topic) HasCell(cellID string) bool {
	_, ok := t.cells[cellID]
	return ok
}

// Cells returns the IDs of the cells the topic is assigned to, sorted.
func (t *Topic) Cells() []string {
	out := make([]string, 0, len(t.cells))
	for id := range t.cells {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone copies the topic including its cell references.
func (t *Topic) Clone() *Topic {
	c := FromTerms(t.ID, t.Terms(), t.top)
	for id := range t.cells {
		c.cells[id] = struct{}{}
	}
	return c
}

package memindex

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Index is an in-memory implementation of index.Index for tests and
// small corpora.
type Index struct {
	mu    sync.RWMutex
	docs  map[string]index.Doc
	terms map[string]map[string][]string // doc id -> field -> analyzed terms
}

// New creates an empty in-memory index.
func New(docs ...index.Doc) *Index {
	ix := &Index{
		docs:  make(map[string]index.Doc),
		terms: make(map[string]map[string][]string),
	}
	for _, d := range docs {
		ix.Add(d)
	}
	return ix
}

// Add inserts or replaces a document, keyed by ID.
func (ix *Index) Add(d index.Doc) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if d.ID == "" {
		return
	}
	ix.docs[d.ID] = copyDoc(d)
	analyzed := make(map[string][]string, len(d.Fields))
	for field, val := range d.Fields {
		analyzed[field] = index.Terms(val)
	}
	ix.terms[d.ID] = analyzed
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Count implements index.Index.
func (ix *Index) Count(ctx context.Context, q index.Query) (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := 0
	for id := range ix.docs {
		ok, _, err := ix.eval(id, q)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Search implements index.Index.
func (ix *Index) Search(ctx context.Context, q index.Query, limit int) ([]index.Hit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	var hits []index.Hit
	for id := range ix.docs {
		ok, score, err := ix.eval(id, q)
		if err != nil {
			return nil, err
		}
		if ok {
			hits = append(hits, index.Hit{ID: id, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Document implements index.Index.
func (ix *Index) Document(ctx context.Context, id string) (index.Doc, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	d, ok := ix.docs[id]
	if !ok {
		return index.Doc{}, fmt.Errorf("document %s: %w", id, internalerr.ErrNotFound)
	}
	return copyDoc(d), nil
}

// eval reports whether doc id matches q, with a relevance score that counts
// matched text occurrences. Pure filters score 1.
func (ix *Index) eval(id string, q index.Query) (bool, float64, error) {
	doc := ix.docs[id]
	switch v := q.(type) {
	case index.MatchAll:
		return true, 1, nil
	case index.Term:
		return doc.Field(v.Field) == v.Value, 1, nil
	case index.Range:
		val, ok := numericField(doc, v.Field)
		if !ok {
			return false, 0, nil
		}
		return val >= v.Min && val <= v.Max, 1, nil
	case index.Text:
		return ix.evalText(id, v)
	case index.And:
		total := 0.0
		for _, c := range v.Clauses {
			ok, s, err := ix.eval(id, c)
			if err != nil || !ok {
				return false, 0, err
			}
			total += s
		}
		return true, total, nil
	case index.Or:
		matched := false
		total := 0.0
		for _, c := range v.Clauses {
			ok, s, err := ix.eval(id, c)
			if err != nil {
				return false, 0, err
			}
			if ok {
				matched = true
				total += s
			}
		}
		return matched, total, nil
	default:
		return false, 0, fmt.Errorf("unsupported query node %T: %w", q, internalerr.ErrInvalidInput)
	}
}

func (ix *Index) evalText(id string, q index.Text) (bool, float64, error) {
	terms := ix.terms[id][q.Field]
	for _, c := range q.Excluded() {
		if occurrences(terms, c.Terms) > 0 {
			return false, 0, nil
		}
	}
	score := 0.0
	for _, c := range q.Required() {
		n := occurrences(terms, c.Terms)
		if n == 0 {
			return false, 0, nil
		}
		score += float64(n)
	}
	if score == 0 {
		score = 1
	}
	return true, score, nil
}

// occurrences counts contiguous matches of phrase in terms.
func occurrences(terms, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(terms) {
		return 0
	}
	n := 0
outer:
	for i := 0; i+len(phrase) <= len(terms); i++ {
		for j, p := range phrase {
			if terms[i+j] != p {
				continue outer
			}
		}
		n++
	}
	return n
}

func numericField(d index.Doc, field string) (float64, bool) {
	if field == index.FieldPublished {
		if d.Published.IsZero() {
			return 0, false
		}
		return float64(d.Published.Unix()), true
	}
	raw := d.Field(field)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func copyDoc(d index.Doc) index.Doc {
	fields := make(map[string]string, len(d.Fields))
	for k, v := range d.Fields {
		fields[k] = v
	}
	return index.Doc{ID: d.ID, Fields: fields, Published: d.Published}
}

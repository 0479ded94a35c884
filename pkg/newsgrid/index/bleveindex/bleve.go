// Package bleveindex provides an index.Index backed by a bleve full-text
// index. Keyword fields (country, recipient) are indexed verbatim, text
// fields are split into lower-cased letter/digit runs exactly like
// index.Terms (no stopword removal), and the publication time is a numeric
// field holding unix seconds.
package bleveindex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	regexptokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

const batchSize = 500

// termsAnalyzer mirrors index.Terms.
const (
	termsAnalyzer  = "newsgrid_terms"
	termsTokenizer = "newsgrid_terms"
	termsPattern   = `[\p{L}\p{N}]+`
)

// Index wraps a bleve index
type Index struct {
	idx bleve.Index
}

// NewMemOnly creates a bleve index that lives only in memory.
func NewMemOnly() (*Index, error) {
	m, err := newMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Open opens the bleve index at path, creating it when it does not exist.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		var m mapping.IndexMapping
		if m, err = newMapping(); err != nil {
			return nil, err
		}
		idx, err = bleve.New(path, m)
	}
	if err != nil {
		return nil, fmt.Errorf("open bleve index %s: %w", path, err)
	}
	return &Index{idx: idx}, nil
}

// Close releases the underlying index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

func newMapping() (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomTokenizer(termsTokenizer, map[string]interface{}{
		"type":   regexptokenizer.Name,
		"regexp": termsPattern,
	})
	if err != nil {
		return nil, fmt.Errorf("register tokenizer: %w", err)
	}
	err = m.AddCustomAnalyzer(termsAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     termsTokenizer,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}

	keyword := bleve.NewKeywordFieldMapping()

	text := bleve.NewTextFieldMapping()
	text.Analyzer = termsAnalyzer

	published := bleve.NewNumericFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(index.FieldCountry, keyword)
	doc.AddFieldMappingsAt(index.FieldRecipient, keyword)
	for _, f := range index.TextFields {
		doc.AddFieldMappingsAt(f, text)
	}
	doc.AddFieldMappingsAt(index.FieldPublished, published)

	m.DefaultMapping = doc
	m.DefaultAnalyzer = termsAnalyzer
	return m, nil
}

// Add indexes documents in batches. Existing documents with the same ID
// are replaced.
func (ix *Index) Add(ctx context.Context, docs ...index.Doc) error {
	batch := ix.idx.NewBatch()
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.ID == "" {
			continue
		}
		if err := batch.Index(d.ID, toBleve(d)); err != nil {
			return fmt.Errorf("index document %s: %w", d.ID, err)
		}
		if batch.Size() >= batchSize {
			if err := ix.idx.Batch(batch); err != nil {
				return fmt.Errorf("flush batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := ix.idx.Batch(batch); err != nil {
			return fmt.Errorf("flush batch: %w", err)
		}
	}
	return nil
}

// Count implements index.Index.
func (ix *Index) Count(ctx context.Context, q index.Query) (int, error) {
	bq, err := Translate(q)
	if err != nil {
		return 0, err
	}
	req := bleve.NewSearchRequestOptions(bq, 0, 0, false)
	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w: %v", q.Key(), internalerr.ErrIndexUnavailable, err)
	}
	return int(res.Total), nil
}

// Search implements index.Index.
func (ix *Index) Search(ctx context.Context, q index.Query, limit int) ([]index.Hit, error) {
	if limit <= 0 {
		return nil, nil
	}
	bq, err := Translate(q)
	if err != nil {
		return nil, err
	}
	req := bleve.NewSearchRequestOptions(bq, limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w: %v", q.Key(), internalerr.ErrIndexUnavailable, err)
	}

	hits := make([]index.Hit, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = index.Hit{ID: h.ID, Score: h.Score}
	}
	return hits, nil
}

// Document implements index.Index.
func (ix *Index) Document(ctx context.Context, id string) (index.Doc, error) {
	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{id}))
	req.Fields = []string{"*"}
	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		return index.Doc{}, fmt.Errorf("document %s: %w: %v", id, internalerr.ErrIndexUnavailable, err)
	}
	if len(res.Hits) == 0 {
		return index.Doc{}, fmt.Errorf("document %s: %w", id, internalerr.ErrNotFound)
	}
	return fromBleve(id, res.Hits[0].Fields), nil
}

// Translate converts a predicate tree into a bleve query.
func Translate(q index.Query) (query.Query, error) {
	switch v := q.(type) {
	case nil, index.MatchAll:
		return bleve.NewMatchAllQuery(), nil
	case index.Term:
		tq := bleve.NewTermQuery(v.Value)
		tq.SetField(v.Field)
		return tq, nil
	case index.Range:
		minV, maxV := v.Min, v.Max
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(&minV, &maxV, &inclusive, &inclusive)
		rq.SetField(v.Field)
		return rq, nil
	case index.Text:
		return translateText(v), nil
	case index.And:
		qs, err := translateAll(v.Clauses)
		if err != nil {
			return nil, err
		}
		return bleve.NewConjunctionQuery(qs...), nil
	case index.Or:
		qs, err := translateAll(v.Clauses)
		if err != nil {
			return nil, err
		}
		return bleve.NewDisjunctionQuery(qs...), nil
	default:
		return nil, fmt.Errorf("unsupported query node %T: %w", q, internalerr.ErrInvalidInput)
	}
}

func translateAll(in []index.Query) ([]query.Query, error) {
	out := make([]query.Query, 0, len(in))
	for _, c := range in {
		bq, err := Translate(c)
		if err != nil {
			return nil, err
		}
		out = append(out, bq)
	}
	return out, nil
}

func translateText(t index.Text) query.Query {
	clause := func(c index.Clause) query.Query {
		s := strings.Join(c.Terms, " ")
		if len(c.Terms) > 1 {
			pq := bleve.NewMatchPhraseQuery(s)
			pq.SetField(t.Field)
			return pq
		}
		mq := bleve.NewMatchQuery(s)
		mq.SetField(t.Field)
		return mq
	}

	var must, mustNot []query.Query
	required := t.Required()
	if len(required) == 0 {
		must = append(must, bleve.NewMatchAllQuery())
	}
	for _, c := range required {
		must = append(must, clause(c))
	}
	for _, c := range t.Excluded() {
		mustNot = append(mustNot, clause(c))
	}
	return query.NewBooleanQuery(must, nil, mustNot)
}

func toBleve(d index.Doc) map[string]interface{} {
	data := make(map[string]interface{}, len(d.Fields)+1)
	for k, v := range d.Fields {
		data[k] = v
	}
	if !d.Published.IsZero() {
		data[index.FieldPublished] = float64(d.Published.Unix())
	}
	return data
}

func fromBleve(id string, fields map[string]interface{}) index.Doc {
	d := index.Doc{ID: id, Fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			d.Fields[k] = val
		case float64:
			if k == index.FieldPublished {
				d.Published = time.Unix(int64(val), 0).UTC()
			}
		}
	}
	return d
}

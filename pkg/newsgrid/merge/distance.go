package merge

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

// distances builds the symmetric pairwise distance matrix of topics.
func (m *Merger) distances(ctx context.Context, topics []*topic.Topic, sentences SentenceSource) ([][]float64, error) {
	var sets []map[string]struct{}
	switch m.opts.Type {
	case TermOverlap:
		sets = make([]map[string]struct{}, len(topics))
		for i, t := range topics {
			sets[i] = toSet(t.TopWords())
		}
	case SentenceOverlap:
		if sentences == nil {
			return nil, fmt.Errorf("sentence overlap needs a sentence source: %w", internalerr.ErrInvalidConfig)
		}
		sets = make([]map[string]struct{}, len(topics))
		for i, t := range topics {
			texts, err := sentences.TopicSentences(ctx, t.ID)
			if err != nil {
				return nil, err
			}
			set := make(map[string]struct{})
			for _, text := range texts {
				for _, tok := range m.pipe.Tokens(text) {
					set[tok] = struct{}{}
				}
			}
			sets[i] = set
		}
	case DocumentOverlap:
		if m.idx == nil {
			return nil, fmt.Errorf("document overlap needs an index: %w", internalerr.ErrInvalidConfig)
		}
		sets = make([]map[string]struct{}, len(topics))
		for i, t := range topics {
			docs, err := m.topicDocs(ctx, t)
			if err != nil {
				return nil, err
			}
			sets[i] = docs
		}
	case TFIDF:
		return tfidfDistances(topics), nil
	default:
		return nil, fmt.Errorf("unsupported merge type %s: %w", m.opts.Type, internalerr.ErrInvalidConfig)
	}

	d := square(len(topics))
	for i := range topics {
		for j := i + 1; j < len(topics); j++ {
			d[i][j] = 1 - jaccard(sets[i], sets[j])
			d[j][i] = d[i][j]
		}
	}
	return d, nil
}

// topicDocs returns the IDs of the documents that best match any of the
// topic's top terms in any text field.
func (m *Merger) topicDocs(ctx context.Context, t *topic.Topic) (map[string]struct{}, error) {
	var clauses []index.Query
	for _, w := range t.TopWords() {
		terms := index.Terms(w)
		if len(terms) == 0 {
			continue
		}
		for _, f := range index.TextFields {
			clauses = append(clauses, index.Text{Field: f, Clauses: []index.Clause{{Terms: terms}}})
		}
	}
	out := make(map[string]struct{})
	if len(clauses) == 0 {
		return out, nil
	}
	hits, err := m.idx.Search(ctx, index.AnyOf(clauses...), m.opts.DocLimit)
	if err != nil {
		return nil, fmt.Errorf("topic %d documents: %w", t.ID, err)
	}
	for _, h := range hits {
		out[h.ID] = struct{}{}
	}
	return out, nil
}

// tfidfDistances weights p(term|topic) by ln(1 + T/df) over the T topics
// and compares vectors by cosine.
func tfidfDistances(topics []*topic.Topic) [][]float64 {
	space := make(map[string]int)
	df := make(map[string]int)
	for _, t := range topics {
		for _, tt := range t.Terms() {
			if _, ok := space[tt.Term]; !ok {
				space[tt.Term] = len(space)
			}
			df[tt.Term]++
		}
	}

	n := float64(len(topics))
	vecs := make([][]float64, len(topics))
	for i, t := range topics {
		v := make([]float64, len(space))
		for _, tt := range t.Terms() {
			v[space[tt.Term]] = tt.Prob * math.Log(1+n/float64(df[tt.Term]))
		}
		vecs[i] = v
	}

	d := square(len(topics))
	for i := range vecs {
		for j := i + 1; j < len(vecs); j++ {
			d[i][j] = 1 - cosine(vecs[i], vecs[j])
			d[j][i] = d[i][j]
		}
	}
	return d
}

func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func square(n int) [][]float64 {
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	return d
}

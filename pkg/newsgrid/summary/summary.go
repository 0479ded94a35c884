// Package summary produces extractive summaries of cells and topics:
// ranked sentences and ranked terms scored by term frequency, optionally
// boosted by the cell's topics.
package summary

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/memo"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

// Config selects what a summary contains. It is comparable and doubles as
// the cache fingerprint.
type Config struct {
	Sentences         int     `json:"sentences"`
	Terms             int     `json:"terms"`
	TopicBoost        float64 `json:"topic_boost"` // 0 disables topic boosting
	MinSentenceTokens int     `json:"min_sentence_tokens"`
}

// Sentence is a ranked extracted sentence
type Sentence struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Doc   string  `json:"doc"`
}

// TermWeight is a ranked term
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Summary is the rendered artifact for one cell or topic
type Summary struct {
	ID        string       `json:"id"`
	Cell      string       `json:"cell,omitempty"`
	Topic     *int         `json:"topic,omitempty"`
	Boosted   bool         `json:"boosted"`
	Sentences []Sentence   `json:"sentences"`
	Terms     []TermWeight `json:"terms"`
	Created   time.Time    `json:"created"`
}

type cacheKey struct {
	target string
	cfg    Config
}

// Summarizer renders and caches summaries. Like the cell caches it feeds,
// it is not safe for concurrent use.
type Summarizer struct {
	idx     index.Index
	pipe    *textproc.Pipeline
	topics  *topic.Set
	cache   *memo.Memo[cacheKey, *Summary]
	entropy *ulid.MonotonicEntropy
}

// New creates a summarizer. topics may be nil, which disables boosting
// and per-topic summaries.
func New(idx index.Index, pipe *textproc.Pipeline, topics *topic.Set) *Summarizer {
	return &Summarizer{
		idx:     idx,
		pipe:    pipe,
		topics:  topics,
		cache:   memo.New[cacheKey, *Summary](),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// SetTopics replaces the topic arena, for example after merging. Cached
// summaries are dropped.
func (s *Summarizer) SetTopics(topics *topic.Set) {
	s.topics = topics
	s.cache = memo.New[cacheKey, *Summary]()
}

// Cell summarizes a cell. With cfg.TopicBoost > 0 and topics assigned to
// the cell, term weights are boosted by the cell's topics. Empty cells
// fail with ErrEmptyCell.
func (s *Summarizer) Cell(ctx context.Context, cell *matrix.Cell, cfg Config) (*Summary, error) {
	return s.cache.Do(cacheKey{target: "cell:" + cell.ID(), cfg: cfg}, func() (*Summary, error) {
		if cell.Empty() {
			return nil, fmt.Errorf("cell %s: %w", cell.Name(), internalerr.ErrEmptyCell)
		}
		docs, err := cell.Resolve(ctx, s.idx)
		if err != nil {
			return nil, err
		}
		docs = distinct(docs)

		sents := s.sentences(docs, cfg.MinSentenceTokens)
		tf := termFrequencies(sents)

		weights := tf
		boosted := false
		if cfg.TopicBoost > 0 && s.topics != nil && len(cell.Topics()) > 0 {
			weights = s.boost(tf, cell.Topics(), cfg.TopicBoost)
			boosted = true
		}

		sum := s.newSummary()
		sum.Cell = cell.ID()
		sum.Boosted = boosted
		sum.Sentences = rankSentences(sents, weights, cfg.Sentences)
		sum.Terms = topTerms(weights, cfg.Terms)
		return sum, nil
	})
}

// boost weights each term by tf * (1 + boost * sum over the cell's topics
// of p(topic|cell) * p(term|topic)).
func (s *Summarizer) boost(tf map[string]float64, scores []topic.Score, boost float64) map[string]float64 {
	out := make(map[string]float64, len(tf))
	for term, f := range tf {
		var affinity float64
		for _, sc := range scores {
			if t, ok := s.topics.Get(sc.Topic); ok {
				affinity += sc.Prob * t.Prob(term)
			}
		}
		out[term] = f * (1 + boost*affinity)
	}
	return out
}

// Topic summarizes a topic over the cells it was assigned to. Sentences
// are scored by the mean p(term|topic) of their tokens; terms are the
// topic's top terms.
func (s *Summarizer) Topic(ctx context.Context, m *matrix.Matrix, topicID int, cfg Config) (*Summary, error) {
	return s.cache.Do(cacheKey{target: fmt.Sprintf("topic:%d", topicID), cfg: cfg}, func() (*Summary, error) {
		if s.topics == nil {
			return nil, fmt.Errorf("topic %d: no topics: %w", topicID, internalerr.ErrNotFound)
		}
		t, ok := s.topics.Get(topicID)
		if !ok {
			return nil, fmt.Errorf("topic %d: %w", topicID, internalerr.ErrNotFound)
		}

		var docs []index.Doc
		for _, id := range t.Cells() {
			cell, ok := m.CellByID(id)
			if !ok || cell.Empty() {
				continue
			}
			resolved, err := cell.Resolve(ctx, s.idx)
			if err != nil {
				return nil, err
			}
			docs = append(docs, resolved...)
		}

		sents := s.sentences(distinct(docs), cfg.MinSentenceTokens)
		sum := s.newSummary()
		id := topicID
		sum.Topic = &id
		sum.Sentences = rankSentences(sents, t.Map(), cfg.Sentences)

		for i, tt := range t.Top() {
			if cfg.Terms > 0 && i >= cfg.Terms {
				break
			}
			sum.Terms = append(sum.Terms, TermWeight{Term: tt.Term, Weight: tt.Prob})
		}
		return sum, nil
	})
}

func (s *Summarizer) newSummary() *Summary {
	return &Summary{
		ID:      ulid.MustNew(ulid.Now(), s.entropy).String(),
		Created: time.Now().UTC(),
	}
}

type sentence struct {
	text   string
	doc    string
	order  int
	tokens []string
}

// sentences splits documents into tokenized sentences in document order,
// dropping repeats and sentences shorter than minTokens.
func (s *Summarizer) sentences(docs []index.Doc, minTokens int) []sentence {
	var out []sentence
	seen := make(map[string]struct{})
	for _, d := range docs {
		for _, text := range textproc.Sentences(textproc.StripMarkup(d.Text())) {
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			tokens := s.pipe.Tokens(text)
			if len(tokens) == 0 || len(tokens) < minTokens {
				continue
			}
			out = append(out, sentence{text: text, doc: d.ID, order: len(out), tokens: tokens})
		}
	}
	return out
}

func termFrequencies(sents []sentence) map[string]float64 {
	tf := make(map[string]float64)
	for _, s := range sents {
		for _, tok := range s.tokens {
			tf[tok]++
		}
	}
	return tf
}

// rankSentences scores each sentence by the mean weight of its tokens and
// returns the best k, earlier sentences first on ties.
func rankSentences(sents []sentence, weights map[string]float64, k int) []Sentence {
	ranked := make([]Sentence, len(sents))
	order := make([]int, len(sents))
	for i, s := range sents {
		var total float64
		for _, tok := range s.tokens {
			total += weights[tok]
		}
		ranked[i] = Sentence{Text: s.text, Doc: s.doc, Score: total / float64(len(s.tokens))}
		order[i] = s.order
	}
	idx := make([]int, len(ranked))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := ranked[idx[a]], ranked[idx[b]]
		if ra.Score != rb.Score {
			return ra.Score > rb.Score
		}
		return order[idx[a]] < order[idx[b]]
	})
	if k > 0 && len(idx) > k {
		idx = idx[:k]
	}
	out := make([]Sentence, len(idx))
	for i, j := range idx {
		out[i] = ranked[j]
	}
	return out
}

func topTerms(weights map[string]float64, k int) []TermWeight {
	out := make([]TermWeight, 0, len(weights))
	for term, w := range weights {
		out = append(out, TermWeight{Term: term, Weight: w})
	}
	sortTerms(out)
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func sortTerms(ts []TermWeight) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Weight != ts[j].Weight {
			return ts[i].Weight > ts[j].Weight
		}
		return ts[i].Term < ts[j].Term
	})
}

// distinct drops replicated documents, keeping first occurrences.
func distinct(docs []index.Doc) []index.Doc {
	seen := make(map[string]struct{}, len(docs))
	out := make([]index.Doc, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}

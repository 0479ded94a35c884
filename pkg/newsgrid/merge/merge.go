// Package merge collapses near-duplicate topics: it clusters topics by a
// pairwise distance, replaces each cluster by the mean of its members and
// rewrites cell topic lists onto the merged topics.
package merge

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/cluster"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

// DefaultEpsilon is the default neighbourhood radius.
const DefaultEpsilon = 0.5

// Options configure a Merger
type Options struct {
	Type     Type
	Epsilon  float64
	DocLimit int // documents per topic for DocumentOverlap
}

// SentenceSource yields the representative sentences of a topic.
type SentenceSource interface {
	TopicSentences(ctx context.Context, topicID int) ([]string, error)
}

// Merger merges topics
type Merger struct {
	opts Options
	idx  index.Index
	pipe *textproc.Pipeline
}

// New creates a merger. idx is needed for DocumentOverlap and pipe for
// SentenceOverlap; either may be nil otherwise. An unsupported type fails
// here rather than at merge time.
func New(opts Options, idx index.Index, pipe *textproc.Pipeline) (*Merger, error) {
	if _, err := opts.Type.MarshalText(); err != nil {
		return nil, err
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.DocLimit <= 0 {
		opts.DocLimit = 50
	}
	if pipe == nil {
		pipe = textproc.NewPipeline(nil)
	}
	return &Merger{opts: opts, idx: idx, pipe: pipe}, nil
}

// Result is the outcome of a merge. Originals are never mutated.
type Result struct {
	Topics   *topic.Set
	Remap    map[int]int // original topic ID to resulting ID
	Clusters [][]int     // original IDs of every merged cluster of size > 1
}

// Merge clusters the topics in set with minPts 0 and radius Epsilon.
// Each multi-member cluster becomes one topic whose term probabilities are
// the mean over members, absent terms counting 0, keeping the lowest
// member ID. Other topics pass through as copies.
func (m *Merger) Merge(ctx context.Context, set *topic.Set, sentences SentenceSource) (*Result, error) {
	topics := set.All()
	d, err := m.distances(ctx, topics, sentences)
	if err != nil {
		return nil, err
	}
	groups, _ := cluster.DBSCAN(len(topics), m.opts.Epsilon, 0, cluster.Matrix(d))

	res := &Result{Topics: topic.NewSet(), Remap: make(map[int]int, len(topics))}
	for _, g := range groups {
		members := make([]*topic.Topic, len(g))
		for i, p := range g {
			members[i] = topics[p]
		}
		if len(members) == 1 {
			t := members[0].Clone()
			res.Remap[t.ID] = t.ID
			_ = res.Topics.Add(t)
			continue
		}

		merged := Mean(members)
		ids := make([]int, len(members))
		for i, t := range members {
			ids[i] = t.ID
			res.Remap[t.ID] = merged.ID
		}
		res.Clusters = append(res.Clusters, ids)
		_ = res.Topics.Add(merged)
	}

	log.Info().
		Str("type", m.opts.Type.String()).
		Float64("epsilon", m.opts.Epsilon).
		Int("before", len(topics)).
		Int("after", res.Topics.Len()).
		Int("clusters", len(res.Clusters)).
		Msg("topics merged")
	return res, nil
}

// Mean averages the members' term probabilities, treating absent terms
// as 0. The result takes the lowest member ID and the first member's top
// length. Members' cell references are not carried over.
func Mean(members []*topic.Topic) *topic.Topic {
	sorted := make([]*topic.Topic, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	sums := make(map[string]float64)
	for _, t := range sorted {
		for _, tt := range t.Terms() {
			sums[tt.Term] += tt.Prob
		}
	}
	k := float64(len(sorted))
	terms := make([]topic.Term, 0, len(sums))
	for term, sum := range sums {
		terms = append(terms, topic.Term{Term: term, Prob: sum / k})
	}
	topic.SortTerms(terms)
	return topic.FromTerms(sorted[0].ID, terms, sorted[0].TopLen())
}

// RewriteScores folds scores onto merged topic IDs by summing the
// probabilities of topics that map to the same ID.
func (r *Result) RewriteScores(scores []topic.Score) []topic.Score {
	folded := make(map[int]float64, len(scores))
	for _, s := range scores {
		id, ok := r.Remap[s.Topic]
		if !ok {
			id = s.Topic
		}
		folded[id] += s.Prob
	}
	out := make([]topic.Score, 0, len(folded))
	for id, p := range folded {
		out = append(out, topic.Score{Topic: id, Prob: p})
	}
	topic.SortScores(out)
	return out
}

// Rewrite replaces every cell's ranked topic list with its folded form and
// adds the cell to each resulting topic's back-references.
func (r *Result) Rewrite(cells []*matrix.Cell) {
	for _, c := range cells {
		scores := c.Topics()
		if len(scores) == 0 {
			continue
		}
		folded := r.RewriteScores(scores)
		c.SetTopics(folded)
		for _, s := range folded {
			if t, ok := r.Topics.Get(s.Topic); ok {
				t.AddCell(c.ID())
			}
		}
	}
}

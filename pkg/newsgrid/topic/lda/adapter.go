// Package lda adapts a topic model training library to matrix cells: it
// builds the training corpus, trains, extracts topics and aggregates
// topic probabilities per cell.
package lda

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

// Options configure an Adapter
type Options struct {
	TopicsPerCell int
	Iterations    int
	Threads       int
	Alpha         float64
	Eta           float64
	Policy        Policy
	Topic         topic.Options
}

// Model is the outcome of one training run
type Model struct {
	Topics *topic.Set
	// CellProbabilities maps a cell ID to its topic probability vector,
	// indexed by topic ID. Cells without instances are absent.
	CellProbabilities map[string][]float64
	Vocab             *textproc.Vocabulary
}

// Scores returns a cell's probability vector as topic scores.
func (m *Model) Scores(cellID string) []topic.Score {
	vec := m.CellProbabilities[cellID]
	out := make([]topic.Score, len(vec))
	for k, p := range vec {
		out[k] = topic.Score{Topic: k, Prob: p}
	}
	return out
}

// Adapter trains topics over matrix cells
type Adapter struct {
	idx     index.Index
	pipe    *textproc.Pipeline
	trainer Trainer
	opts    Options
}

// NewAdapter creates an adapter. A nil trainer uses NLPTrainer.
func NewAdapter(idx index.Index, pipe *textproc.Pipeline, trainer Trainer, opts Options) *Adapter {
	if trainer == nil {
		trainer = NLPTrainer{}
	}
	if opts.TopicsPerCell <= 0 {
		opts.TopicsPerCell = 1
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 100
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	return &Adapter{idx: idx, pipe: pipe, trainer: trainer, opts: opts}
}

// NumTopics is TopicsPerCell x the number of cells.
func (a *Adapter) NumTopics(cells int) int {
	return a.opts.TopicsPerCell * max(1, cells)
}

// Train builds the corpus from cells, trains and returns the model. hist,
// when non-nil, accumulates every normalized term probability.
func (a *Adapter) Train(ctx context.Context, cells []*matrix.Cell, hist *topic.Histogram) (*Model, error) {
	corpus, err := BuildCorpus(ctx, a.idx, cells, a.pipe, a.opts.Policy)
	if err != nil {
		return nil, err
	}
	if len(corpus.Instances) == 0 {
		return nil, fmt.Errorf("no cell has trainable text: %w", internalerr.ErrEmptyCorpus)
	}

	k := a.NumTopics(len(cells))
	res, err := a.trainer.Train(ctx, corpus, Hyper{
		Topics:     k,
		Iterations: a.opts.Iterations,
		Threads:    a.opts.Threads,
		Alpha:      a.opts.Alpha,
		Eta:        a.opts.Eta,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrTraining, err)
	}
	if err := checkResult(res, k, len(corpus.Instances), corpus.Vocab.Len()); err != nil {
		return nil, err
	}

	topics := topic.NewSet()
	for id, row := range res.TopicTerms {
		weights := make(map[string]float64, len(row))
		for w, v := range row {
			weights[corpus.Vocab.Term(w)] += v
		}
		if err := topics.Add(topic.New(id, weights, a.opts.Topic, hist)); err != nil {
			return nil, err
		}
	}

	model := &Model{
		Topics:            topics,
		CellProbabilities: aggregate(corpus.Instances, res.InstanceTopics, k),
		Vocab:             corpus.Vocab,
	}
	log.Info().
		Int("topics", k).
		Int("instances", len(corpus.Instances)).
		Int("vocab", corpus.Vocab.Len()).
		Str("policy", a.opts.Policy.String()).
		Msg("topic model trained")
	return model, nil
}

func checkResult(res Result, k, instances, vocab int) error {
	if len(res.TopicTerms) != k || len(res.InstanceTopics) != instances {
		return fmt.Errorf("%w: got %d topics for %d instances, want %d for %d",
			internalerr.ErrTraining, len(res.TopicTerms), len(res.InstanceTopics), k, instances)
	}
	for _, row := range res.TopicTerms {
		if len(row) != vocab {
			return fmt.Errorf("%w: topic row has %d terms, vocabulary has %d", internalerr.ErrTraining, len(row), vocab)
		}
	}
	for _, vec := range res.InstanceTopics {
		if len(vec) != k {
			return fmt.Errorf("%w: instance vector has %d topics, want %d", internalerr.ErrTraining, len(vec), k)
		}
	}
	return nil
}

// aggregate averages instance vectors per cell. With one instance per cell
// the mean is the instance vector itself.
func aggregate(instances []Instance, vecs [][]float64, k int) map[string][]float64 {
	sums := make(map[string][]float64)
	counts := make(map[string]int)
	for i, inst := range instances {
		sum, ok := sums[inst.Cell]
		if !ok {
			sum = make([]float64, k)
			sums[inst.Cell] = sum
		}
		for t, p := range vecs[i] {
			sum[t] += p
		}
		counts[inst.Cell]++
	}
	for cell, sum := range sums {
		n := float64(counts[cell])
		for t := range sum {
			sum[t] /= n
		}
	}
	return sums
}

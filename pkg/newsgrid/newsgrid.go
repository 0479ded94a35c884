// Package newsgrid runs comparative analysis sessions over a news corpus:
// a row x column matrix of document subsets with per-cell topics and
// extractive summaries.
package newsgrid

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/assign"
	"github.com/cognicore/newsgrid/pkg/newsgrid/config"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index/bleveindex"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/merge"
	"github.com/cognicore/newsgrid/pkg/newsgrid/store"
	"github.com/cognicore/newsgrid/pkg/newsgrid/summary"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic/lda"
)

// Engine is the main analysis facade
type Engine struct {
	idx     index.Index
	trainer lda.Trainer
}

// Options configures an Engine
type Options struct {
	Index index.Index
	// Trainer overrides the topic model library. Nil uses lda.NLPTrainer.
	Trainer lda.Trainer
}

// New creates an Engine over a read-only index.
func New(opts Options) *Engine {
	return &Engine{idx: opts.Index, trainer: opts.Trainer}
}

// Index returns the engine's document index.
func (e *Engine) Index() index.Index { return e.idx }

// BuildMatrix builds the configured matrix without any topic work.
func (e *Engine) BuildMatrix(ctx context.Context, comp *config.Components) (*matrix.Matrix, error) {
	return matrix.Build(ctx, e.idx, comp.Rows, comp.Cols, comp.Base, comp.Matrix)
}

// Analyze runs one session: build the matrix, train topics, assign them
// to cells, optionally merge near-duplicates, then summarize every cell.
// Matrix and training failures abort the session; per-cell failures are
// collected in the report.
func (e *Engine) Analyze(ctx context.Context, comp *config.Components) (*Report, error) {
	rep := &Report{
		Session:   ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String(),
		Started:   time.Now().UTC(),
		Histogram: topic.NewHistogram(0),
		Errors:    make(map[string]error),
	}
	logger := log.With().Str("session", rep.Session).Logger()

	m, err := e.BuildMatrix(ctx, comp)
	if err != nil {
		return nil, fmt.Errorf("build matrix: %w", err)
	}
	rep.Matrix = m
	cells := m.Cells()

	adapter := lda.NewAdapter(e.idx, comp.Pipeline, e.trainer, comp.Topics)
	model, err := adapter.Train(ctx, cells, rep.Histogram)
	if err != nil {
		return nil, fmt.Errorf("train topics: %w", err)
	}
	rep.Topics = model.Topics
	rep.Assignment = assign.All(model.Topics, model, cells, comp.Threshold)
	for id, err := range rep.Assignment.Errors {
		rep.Errors[id] = err
	}

	sum := summary.New(e.idx, comp.Pipeline, model.Topics)
	if comp.Merge != nil {
		merger, err := merge.New(*comp.Merge, e.idx, comp.Pipeline)
		if err != nil {
			return nil, err
		}
		src := summary.TopicSource{Summarizer: sum, Matrix: m, Config: comp.Summary}
		res, err := merger.Merge(ctx, model.Topics, src)
		if err != nil {
			return nil, fmt.Errorf("merge topics: %w", err)
		}
		res.Rewrite(cells)
		rep.Merge = res
		rep.Topics = res.Topics
		sum.SetTopics(res.Topics)
	}

	summaries, errs := sum.All(ctx, cells, comp.Summary)
	rep.Summaries = summaries
	for id, err := range errs {
		rep.Errors[id] = err
	}

	weights, err := sum.TermWeights(ctx, cells, comp.Summary.Terms)
	if err != nil {
		return nil, fmt.Errorf("term weights: %w", err)
	}
	rep.TermWeights = weights

	rep.Finished = time.Now().UTC()
	logger.Info().
		Int("cells", len(cells)).
		Int("topics", rep.Topics.Len()).
		Int("summaries", len(rep.Summaries)).
		Int("errors", len(rep.Errors)).
		Dur("took", rep.Finished.Sub(rep.Started)).
		Msg("analysis finished")
	return rep, nil
}

// IndexStore builds an in-memory bleve index over every stored article.
func IndexStore(ctx context.Context, st store.Store) (*bleveindex.Index, error) {
	ix, err := bleveindex.NewMemOnly()
	if err != nil {
		return nil, err
	}

	const chunk = 500
	docs := make([]index.Doc, 0, chunk)
	flush := func() error {
		if len(docs) == 0 {
			return nil
		}
		err := ix.Add(ctx, docs...)
		docs = docs[:0]
		return err
	}
	err = st.ListArticles(ctx, func(a store.Article) error {
		docs = append(docs, a.Doc())
		if len(docs) == chunk {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		ix.Close()
		return nil, fmt.Errorf("index articles: %w", err)
	}
	return ix, nil
}

package summary

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
)

// All summarizes every cell. Empty cells are skipped with a warning and
// other failures are logged and returned per cell ID; neither stops the
// remaining cells.
func (s *Summarizer) All(ctx context.Context, cells []*matrix.Cell, cfg Config) (map[string]*Summary, map[string]error) {
	out := make(map[string]*Summary, len(cells))
	errs := make(map[string]error)
	for _, c := range cells {
		sum, err := s.Cell(ctx, c, cfg)
		switch {
		case errors.Is(err, internalerr.ErrEmptyCell):
			log.Warn().Str("cell", c.Name()).Msg("no documents, skipping summary")
		case err != nil:
			log.Error().Err(err).Str("cell", c.Name()).Msg("summarization failed")
			errs[c.ID()] = err
		default:
			out[c.ID()] = sum
		}
	}
	return out, errs
}

// TermWeights ranks the k best TF-IDF terms of every non-empty cell. Term
// frequency is counted over a cell's distinct documents and document
// frequency over cells, with idf = ln(1 + N/df).
func (s *Summarizer) TermWeights(ctx context.Context, cells []*matrix.Cell, k int) (map[string][]TermWeight, error) {
	tfs := make(map[string]map[string]float64)
	df := make(map[string]int)
	for _, c := range cells {
		if c.Empty() {
			continue
		}
		docs, err := c.Resolve(ctx, s.idx)
		if err != nil {
			return nil, err
		}
		tf := make(map[string]float64)
		for _, d := range distinct(docs) {
			for _, tok := range s.pipe.Tokens(textproc.StripMarkup(d.Text())) {
				tf[tok]++
			}
		}
		for term := range tf {
			df[term]++
		}
		tfs[c.ID()] = tf
	}

	n := float64(len(tfs))
	out := make(map[string][]TermWeight, len(tfs))
	for id, tf := range tfs {
		weights := make(map[string]float64, len(tf))
		for term, f := range tf {
			weights[term] = f * math.Log(1+n/float64(df[term]))
		}
		out[id] = topTerms(weights, k)
	}
	return out, nil
}

// TopicSource serves the sentences of per-topic summaries over a matrix.
type TopicSource struct {
	Summarizer *Summarizer
	Matrix     *matrix.Matrix
	Config     Config
}

// TopicSentences returns the text of the topic summary's sentences.
func (ts TopicSource) TopicSentences(ctx context.Context, topicID int) ([]string, error) {
	sum, err := ts.Summarizer.Topic(ctx, ts.Matrix, topicID, ts.Config)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(sum.Sentences))
	for i, s := range sum.Sentences {
		out[i] = s.Text
	}
	return out, nil
}

package config

import (
	"fmt"

	"github.com/cognicore/newsgrid/pkg/newsgrid/assign"
	"github.com/cognicore/newsgrid/pkg/newsgrid/filter"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/merge"
	"github.com/cognicore/newsgrid/pkg/newsgrid/summary"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic/lda"
)

// Components holds everything an analysis session is built from
type Components struct {
	Pipeline  *textproc.Pipeline
	Rows      *filter.Dimension
	Cols      *filter.Dimension
	Base      index.Query
	Matrix    matrix.Options
	Topics    lda.Options
	Threshold float64 // effective, already scaled by topics per cell
	Summary   summary.Config
	Merge     *merge.Options // nil when merging is disabled
}

// Components constructs the session components. Dimension and query
// errors surface here, before any index access.
func (a *Analysis) Components() (*Components, error) {
	comp := &Components{}

	// Load stoplist
	stops := textproc.DefaultStopwords()
	if a.Text.Stoplist != "" {
		sl, err := LoadStoplist(a.Text.Stoplist)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = sl.Terms
	}
	comp.Pipeline = textproc.NewPipeline(stops)
	comp.Pipeline.SetStemming(a.Text.Stem)

	var err error
	if comp.Rows, err = a.Matrix.Rows.Build(); err != nil {
		return nil, fmt.Errorf("matrix.rows: %w", err)
	}
	if comp.Cols, err = a.Matrix.Cols.Build(); err != nil {
		return nil, fmt.Errorf("matrix.cols: %w", err)
	}
	if a.Matrix.Base != nil {
		if comp.Base, err = a.Matrix.Base.Predicate(); err != nil {
			return nil, fmt.Errorf("matrix.base: %w", err)
		}
	}
	comp.Matrix = matrix.Options{CellDocCap: a.Matrix.CellDocCap}

	policy, err := lda.ParsePolicy(a.Topics.Policy)
	if err != nil {
		return nil, err
	}
	comp.Topics = lda.Options{
		TopicsPerCell: a.Topics.TopicsPerCell,
		Iterations:    a.Topics.Iterations,
		Threads:       a.Topics.Threads,
		Alpha:         a.Topics.Alpha,
		Eta:           a.Topics.Eta,
		Policy:        policy,
		Topic: topic.Options{
			MinProb:  a.Topics.MinProbability,
			MaxTerms: a.Topics.MaxTerms,
			TopTerms: a.Topics.TopTerms,
		},
	}
	comp.Threshold = assign.Threshold(a.Assign.Threshold, a.Topics.TopicsPerCell)

	comp.Summary = summary.Config{
		Sentences:         a.Summary.Sentences,
		Terms:             a.Summary.Terms,
		TopicBoost:        max(0, a.Summary.TopicBoost),
		MinSentenceTokens: a.Summary.MinSentenceTokens,
	}

	if a.Merge.Enabled {
		typ, err := merge.ParseType(a.Merge.Type)
		if err != nil {
			return nil, err
		}
		comp.Merge = &merge.Options{Type: typ, Epsilon: a.Merge.Epsilon}
	}
	return comp, nil
}

// Build constructs the filter dimension.
func (d Dimension) Build() (*filter.Dimension, error) {
	kind, err := filter.ParseKind(d.Kind)
	if err != nil {
		return nil, err
	}
	return filter.NewDimension(kind, d.Values)
}

package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/newsgrid/pkg/newsgrid/filter"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index/memindex"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

func fixture(t *testing.T, idx index.Index) *matrix.Matrix {
	t.Helper()
	rows, err := filter.ForCountryCodes([]string{"DE", "US", "FR"})
	require.NoError(t, err)
	cols, err := filter.ForCountryCodes([]string{filter.AllDocs})
	require.NoError(t, err)
	m, err := matrix.Build(context.Background(), idx, rows, cols, nil, matrix.Options{})
	require.NoError(t, err)
	return m
}

func corpus() *memindex.Index {
	return memindex.New(
		index.Doc{ID: "1", Fields: map[string]string{
			index.FieldCountry: "DE",
			index.FieldTitle:   "Border crisis deepens",
			index.FieldContent: "Refugees wait at the border crossing. The border stays closed. Weather was mild today.",
		}},
		index.Doc{ID: "2", Fields: map[string]string{
			index.FieldCountry: "DE",
			index.FieldContent: "Border police reinforce the border crossing. Minister speaks.",
		}},
		index.Doc{ID: "3", Fields: map[string]string{
			index.FieldCountry: "US",
			index.FieldContent: "<p>Markets rally on strong earnings.</p><p>Bonds slip slightly.</p>",
		}},
	)
}

func TestCellSummaryRanksByTermFrequency(t *testing.T) {
	ctx := context.Background()
	idx := corpus()
	m := fixture(t, idx)
	s := New(idx, textproc.NewPipeline(textproc.DefaultStopwords()), nil)

	sum, err := s.Cell(ctx, m.Cell(0, 0), Config{Sentences: 2, Terms: 3, MinSentenceTokens: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, sum.ID)
	assert.Equal(t, m.Cell(0, 0).ID(), sum.Cell)
	assert.False(t, sum.Boosted)

	require.Len(t, sum.Sentences, 2)
	assert.Equal(t, "Border police reinforce the border crossing.", sum.Sentences[0].Text)
	// Ties keep document order.
	assert.Equal(t, "Border crisis deepens", sum.Sentences[1].Text)
	for _, sent := range sum.Sentences {
		assert.NotEqual(t, "Minister speaks.", sent.Text)
	}
	assert.GreaterOrEqual(t, sum.Sentences[0].Score, sum.Sentences[1].Score)

	require.Len(t, sum.Terms, 3)
	assert.Equal(t, TermWeight{Term: "border", Weight: 5}, sum.Terms[0])
	assert.Equal(t, "crossing", sum.Terms[1].Term)
	assert.Equal(t, "closed", sum.Terms[2].Term)
}

func TestCellSummaryStripsMarkup(t *testing.T) {
	ctx := context.Background()
	idx := corpus()
	m := fixture(t, idx)
	s := New(idx, textproc.NewPipeline(textproc.DefaultStopwords()), nil)

	sum, err := s.Cell(ctx, m.Cell(1, 0), Config{})
	require.NoError(t, err)
	texts := make([]string, len(sum.Sentences))
	for i, sent := range sum.Sentences {
		texts[i] = sent.Text
	}
	assert.ElementsMatch(t, []string{"Markets rally on strong earnings.", "Bonds slip slightly."}, texts)
}

func TestEmptyCellSummary(t *testing.T) {
	idx := corpus()
	m := fixture(t, idx)
	s := New(idx, textproc.NewPipeline(nil), nil)

	_, err := s.Cell(context.Background(), m.Cell(2, 0), Config{})
	assert.ErrorIs(t, err, internalerr.ErrEmptyCell)
}

func TestSummariesAreCachedPerConfig(t *testing.T) {
	ctx := context.Background()
	idx := corpus()
	m := fixture(t, idx)
	s := New(idx, textproc.NewPipeline(nil), nil)

	a, err := s.Cell(ctx, m.Cell(0, 0), Config{Sentences: 1})
	require.NoError(t, err)
	b, err := s.Cell(ctx, m.Cell(0, 0), Config{Sentences: 1})
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := s.Cell(ctx, m.Cell(0, 0), Config{Sentences: 2})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestTopicBoostFavorsTopicTerms(t *testing.T) {
	ctx := context.Background()
	idx := corpus()
	m := fixture(t, idx)
	cell := m.Cell(0, 0)

	weather := topic.FromTerms(0, []topic.Term{{Term: "weather", Prob: 0.6}, {Term: "mild", Prob: 0.4}}, 2)
	weather.AddCell(cell.ID())
	cell.SetTopics([]topic.Score{{Topic: 0, Prob: 1}})
	s := New(idx, textproc.NewPipeline(textproc.DefaultStopwords()), topic.NewSet(weather))

	plain, err := s.Cell(ctx, cell, Config{Sentences: 1})
	require.NoError(t, err)
	boosted, err := s.Cell(ctx, cell, Config{Sentences: 1, TopicBoost: 20})
	require.NoError(t, err)

	assert.False(t, plain.Boosted)
	assert.True(t, boosted.Boosted)
	assert.Equal(t, "Weather was mild today.", boosted.Sentences[0].Text)
	assert.NotEqual(t, plain.Sentences[0].Text, boosted.Sentences[0].Text)
}

func TestTopicSummary(t *testing.T) {
	ctx := context.Background()
	idx := corpus()
	m := fixture(t, idx)

	markets := topic.FromTerms(3, []topic.Term{{Term: "markets", Prob: 0.5}, {Term: "bonds", Prob: 0.3}, {Term: "rally", Prob: 0.2}}, 2)
	markets.AddCell(m.Cell(1, 0).ID())
	s := New(idx, textproc.NewPipeline(nil), topic.NewSet(markets))

	sum, err := s.Topic(ctx, m, 3, Config{Sentences: 1})
	require.NoError(t, err)
	require.NotNil(t, sum.Topic)
	assert.Equal(t, 3, *sum.Topic)
	require.Len(t, sum.Sentences, 1)
	assert.Equal(t, "Markets rally on strong earnings.", sum.Sentences[0].Text)
	assert.Equal(t, []TermWeight{{"markets", 0.5}, {"bonds", 0.3}}, sum.Terms)

	_, err = s.Topic(ctx, m, 9, Config{})
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestAllIsolatesCells(t *testing.T) {
	ctx := context.Background()
	idx := corpus()
	m := fixture(t, idx)

	// Document 2 disappears from the provider after the matrix is built.
	broken := &missingDoc{Index: idx, id: "2"}
	s := New(broken, textproc.NewPipeline(nil), nil)

	sums, errs := s.All(ctx, m.Cells(), Config{})
	assert.Len(t, sums, 1)
	assert.Contains(t, sums, m.Cell(1, 0).ID())
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[m.Cell(0, 0).ID()], internalerr.ErrNotFound)
}

type missingDoc struct {
	index.Index
	id string
}

func (m *missingDoc) Document(ctx context.Context, id string) (index.Doc, error) {
	if id == m.id {
		return index.Doc{}, internalerr.ErrNotFound
	}
	return m.Index.Document(ctx, id)
}

func TestTermWeightsPreferDistinctiveTerms(t *testing.T) {
	ctx := context.Background()
	idx := memindex.New(
		index.Doc{ID: "1", Fields: map[string]string{index.FieldCountry: "DE", index.FieldContent: "news border border"}},
		index.Doc{ID: "2", Fields: map[string]string{index.FieldCountry: "US", index.FieldContent: "news markets"}},
	)
	m := fixture(t, idx)
	s := New(idx, textproc.NewPipeline(nil), nil)

	weights, err := s.TermWeights(ctx, m.Cells(), 2)
	require.NoError(t, err)
	assert.Len(t, weights, 2)
	de := weights[m.Cell(0, 0).ID()]
	require.Len(t, de, 2)
	assert.Equal(t, "border", de[0].Term)
	assert.Equal(t, "news", de[1].Term)
	assert.Less(t, de[1].Weight, de[0].Weight)
}

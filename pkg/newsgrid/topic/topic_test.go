package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesBeforeFiltering(t *testing.T) {
	weights := map[string]float64{"border": 6, "talks": 3, "summit": 1, "noise": 0}
	hist := NewHistogram(10)
	tp := New(0, weights, Options{MinProb: 0.15, TopTerms: 1}, hist)

	// Recorded probabilities are the full normalized distribution.
	assert.Equal(t, 3, hist.Total())
	full := New(0, weights, Options{}, nil)
	assert.InDelta(t, 1.0, full.Mass(), 1e-9)

	terms := tp.Terms()
	require.Len(t, terms, 2)
	assert.Equal(t, Term{Term: "border", Prob: 0.6}, terms[0])
	assert.InDelta(t, 0.3, terms[1].Prob, 1e-9)
	// Not renormalized after filtering.
	assert.InDelta(t, 0.9, tp.Mass(), 1e-9)

	assert.Equal(t, []string{"border"}, tp.TopWords())
	assert.Equal(t, 0.0, tp.Prob("summit"))
}

func TestNewCapsAndSortsStrictly(t *testing.T) {
	weights := map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}
	tp := New(1, weights, Options{MaxTerms: 3}, nil)

	terms := tp.Terms()
	require.Len(t, terms, 3)
	for i := 1; i < len(terms); i++ {
		assert.Greater(t, terms[i-1].Prob, terms[i].Prob)
	}
	assert.Equal(t, "e", terms[0].Term)
	// TopTerms 0 means the whole list.
	assert.Equal(t, 3, tp.TopLen())
}

func TestNewTieBreakByTerm(t *testing.T) {
	tp := New(0, map[string]float64{"zeta": 1, "alpha": 1}, Options{}, nil)
	assert.Equal(t, []string{"alpha", "zeta"}, tp.TopWords())
}

func TestNewEmptyWeights(t *testing.T) {
	tp := New(0, map[string]float64{"x": 0}, Options{TopTerms: 5}, nil)
	assert.Empty(t, tp.Terms())
	assert.Empty(t, tp.Top())
}

func TestCellBackReferences(t *testing.T) {
	tp := New(0, map[string]float64{"x": 1}, Options{}, nil)
	assert.True(t, tp.AddCell("c2"))
	assert.True(t, tp.AddCell("c1"))
	assert.False(t, tp.AddCell("c1"))
	assert.Equal(t, []string{"c1", "c2"}, tp.Cells())

	clone := tp.Clone()
	clone.AddCell("c3")
	assert.False(t, tp.HasCell("c3"))
	assert.True(t, clone.HasCell("c1"))
}

func TestScores(t *testing.T) {
	s := []Score{{Topic: 2, Prob: 0.1}, {Topic: 1, Prob: 0.3}, {Topic: 0, Prob: 0.1}}
	SortScores(s)
	assert.Equal(t, []Score{{1, 0.3}, {0, 0.1}, {2, 0.1}}, s)

	best, ok := Max([]Score{{Topic: 3, Prob: 0.2}, {Topic: 1, Prob: 0.2}})
	assert.True(t, ok)
	assert.Equal(t, 1, best.Topic)

	_, ok = Max(nil)
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	a := FromTerms(0, []Term{{"x", 1}}, 1)
	b := FromTerms(2, []Term{{"y", 1}}, 1)
	s := NewSet(b, a)

	assert.Equal(t, []int{0, 2}, s.IDs())
	assert.Error(t, s.Add(FromTerms(2, nil, 0)))
	require.NoError(t, s.Add(FromTerms(1, nil, 0)))
	assert.Equal(t, 3, s.Len())

	got, ok := s.Get(2)
	require.True(t, ok)
	assert.Same(t, b, got)

	sub := s.Subset(map[int]struct{}{0: {}, 9: {}})
	assert.Equal(t, []int{0}, sub.IDs())
}

func TestHistogram(t *testing.T) {
	h := NewHistogram(4)
	for _, p := range []float64{0, 0.3, 0.5, 1, 1.5, -1} {
		h.Record(p)
	}
	assert.Equal(t, []int{2, 1, 1, 2}, h.Counts())
	assert.Equal(t, 6, h.Total())

	var nilHist *Histogram
	nilHist.Record(0.5)
	assert.Equal(t, 0, nilHist.Total())
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/newsgrid/pkg/newsgrid/filter"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/merge"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic/lda"
)

const minimal = `
matrix:
  rows: {kind: country, values: [de, us]}
  cols: {kind: publish_day, values: ["20150101", "20150102"]}
`

func TestParseAppliesDefaults(t *testing.T) {
	a, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, 500, a.Matrix.CellDocCap)
	assert.Equal(t, 1, a.Topics.TopicsPerCell)
	assert.Equal(t, 100, a.Topics.Iterations)
	assert.Equal(t, 1, a.Topics.Threads)
	assert.Equal(t, 0.1, a.Topics.Alpha)
	assert.Equal(t, 0.01, a.Topics.Eta)
	assert.Equal(t, 0.001, a.Topics.MinProbability)
	assert.Equal(t, 100, a.Topics.MaxTerms)
	assert.Equal(t, 10, a.Topics.TopTerms)
	assert.Equal(t, "per_cell", a.Topics.Policy)
	assert.Equal(t, 0.2, a.Assign.Threshold)
	assert.Equal(t, 5, a.Summary.Sentences)
	assert.Equal(t, 10, a.Summary.Terms)
	assert.Equal(t, 1.0, a.Summary.TopicBoost)
	assert.Equal(t, 3, a.Summary.MinSentenceTokens)
	assert.Equal(t, "term_overlap", a.Merge.Type)
	assert.Equal(t, 0.5, a.Merge.Epsilon)
	assert.Equal(t, "info", a.Log.Level)
}

func TestComponents(t *testing.T) {
	a, err := Parse([]byte(minimal + `
  base: {field: content, query: "refugees -sports"}
topics:
  topics_per_cell: 2
  policy: per_document
summary:
  topic_boost: -1
merge:
  enabled: true
  type: tfidf
  epsilon: 0.3
`))
	require.NoError(t, err)

	comp, err := a.Components()
	require.NoError(t, err)
	assert.Equal(t, []string{"DE", "US"}, comp.Rows.Labels())
	assert.Equal(t, filter.PublishDay, comp.Cols.Kind())
	_, ok := comp.Base.(index.Text)
	assert.True(t, ok)
	assert.Equal(t, lda.PerDocument, comp.Topics.Policy)
	assert.Equal(t, 2, comp.Topics.TopicsPerCell)
	assert.InDelta(t, 0.1, comp.Threshold, 1e-12)
	assert.Equal(t, 0.0, comp.Summary.TopicBoost)
	require.NotNil(t, comp.Merge)
	assert.Equal(t, merge.TFIDF, comp.Merge.Type)
	assert.Equal(t, 0.3, comp.Merge.Epsilon)

	// Default stopwords are active.
	assert.True(t, comp.Pipeline.IsStopword("the"))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown kind", `
matrix:
  rows: {kind: CountryFilterDimension, values: [DE]}
  cols: {kind: country, values: [US]}
`, internalerr.ErrInvalidConfig},
		{"no values", `
matrix:
  rows: {kind: country}
  cols: {kind: country, values: [US]}
`, internalerr.ErrInvalidConfig},
		{"policy", minimal + `
topics: {policy: per_sentence}
`, internalerr.ErrInvalidConfig},
		{"merge type", minimal + `
merge: {type: cosine}
`, internalerr.ErrInvalidConfig},
		{"base field", minimal + `
  base: {field: country, query: DE}
`, internalerr.ErrInvalidConfig},
		{"base query", minimal + `
  base: {field: title, query: '"open'}
`, internalerr.ErrMalformedQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestComponentsMalformedDimension(t *testing.T) {
	a, err := Parse([]byte(`
matrix:
  rows: {kind: title_contains, values: ['"open']}
  cols: {kind: country, values: [US]}
`))
	require.NoError(t, err)
	_, err = a.Components()
	assert.ErrorIs(t, err, internalerr.ErrMalformedQuery)
}

func TestLoadStoplist(t *testing.T) {
	// Create temp file
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "stoplist.yaml")

	content := `terms:
  - the
  - a
  - and
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}

	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}
}

func TestLoadWithStoplist(t *testing.T) {
	tmpDir := t.TempDir()
	stopPath := filepath.Join(tmpDir, "stoplist.yaml")
	require.NoError(t, os.WriteFile(stopPath, []byte("terms: [border]\n"), 0644))

	cfgPath := filepath.Join(tmpDir, "analysis.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(minimal+"text:\n  stoplist: "+stopPath+"\n  stem: true\n"), 0644))

	a, err := Load(cfgPath)
	require.NoError(t, err)
	comp, err := a.Components()
	require.NoError(t, err)
	assert.True(t, comp.Pipeline.IsStopword("border"))
	assert.False(t, comp.Pipeline.IsStopword("the"))
	assert.Nil(t, comp.Merge)
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := Load("/nonexistent/analysis.yaml")
	assert.Error(t, err)

	a, err := Parse([]byte(minimal + "text: {stoplist: /nonexistent/stoplist.yaml}\n"))
	require.NoError(t, err)
	_, err = a.Components()
	assert.Error(t, err)
}

func TestBasePredicate(t *testing.T) {
	b := &Base{Field: index.FieldContent, Query: `"trade war" -tariff`}
	q, err := b.Predicate()
	require.NoError(t, err)
	text, ok := q.(index.Text)
	require.True(t, ok)
	assert.Equal(t, index.FieldContent, text.Field)

	_, err = (&Base{Field: index.FieldCountry, Query: "DE"}).Predicate()
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	_, err = (&Base{Field: index.FieldTitle, Query: `"open`}).Predicate()
	assert.ErrorIs(t, err, internalerr.ErrMalformedQuery)
}

package matrix

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/newsgrid/pkg/newsgrid/filter"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index/memindex"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

func newsDoc(id, country string, day int, content string) index.Doc {
	return index.Doc{
		ID:        id,
		Published: time.Date(2015, 1, day, 9, 30, 0, 0, time.UTC),
		Fields: map[string]string{
			index.FieldCountry: country,
			index.FieldContent: content,
		},
	}
}

func fixture() *memindex.Index {
	return memindex.New(
		newsDoc("d1", "DE", 1, "Refugees reach the border."),
		newsDoc("d2", "DE", 2, "Border controls tightened."),
		newsDoc("d3", "US", 1, "Markets rally."),
		newsDoc("d4", "US", 2, "Markets fall at the border."),
		newsDoc("d5", "US", 2, "Storm hits the coast."),
	)
}

func dims(t *testing.T) (*filter.Dimension, *filter.Dimension) {
	t.Helper()
	rows, err := filter.ForCountryCodes([]string{"DE", "US"})
	require.NoError(t, err)
	cols, err := filter.ForPublishDays([]string{"20150101", "20150102"})
	require.NoError(t, err)
	return rows, cols
}

func TestBuildCountryByDay(t *testing.T) {
	ctx := context.Background()
	rows, cols := dims(t)

	m, err := Build(ctx, fixture(), rows, cols, nil, Options{})
	require.NoError(t, err)
	require.Equal(t, 4, m.CellCount())
	assert.Equal(t, index.MatchAll{}, m.Base())

	// d1 is DE on 2015-01-01 and belongs to that cell only.
	for _, c := range m.Cells() {
		inCell := false
		for _, id := range c.Docs() {
			if id == "d1" {
				inCell = true
			}
		}
		want := c.Row().Label() == "DE" && c.Col().Label() == "20150101"
		assert.Equal(t, want, inCell, c.Name())
	}

	usDay2 := m.Cell(1, 1)
	require.NotNil(t, usDay2)
	assert.Equal(t, "US|20150102", usDay2.Name())
	assert.Equal(t, 2, usDay2.Total())
	assert.ElementsMatch(t, []string{"d4", "d5"}, usDay2.Docs())

	assert.Nil(t, m.Cell(2, 0))
	assert.Nil(t, m.Cell(0, -1))

	assert.Equal(t, []int{2, 3}, m.RowDocCounts())
	assert.Equal(t, []int{2, 3}, m.ColDocCounts())
	assert.Equal(t, []string{"DE", "US"}, m.RowLabels())
	assert.Equal(t, []string{"20150101", "20150102"}, m.ColLabels())
}

func TestEveryPairHasOneCell(t *testing.T) {
	ctx := context.Background()
	rows, err := filter.ForCountryCodes([]string{"DE", "US", "FR"})
	require.NoError(t, err)
	cols, err := filter.ForTextContains(filter.ContentContains, []string{"border", "markets"})
	require.NoError(t, err)

	m, err := Build(ctx, fixture(), rows, cols, nil, Options{})
	require.NoError(t, err)
	require.Equal(t, rows.Len()*cols.Len(), m.CellCount())

	seen := make(map[string]struct{})
	for r := 0; r < rows.Len(); r++ {
		for c := 0; c < cols.Len(); c++ {
			cell := m.Cell(r, c)
			require.NotNil(t, cell)
			assert.Equal(t, r, cell.RowIndex())
			assert.Equal(t, c, cell.ColIndex())
			seen[cell.ID()] = struct{}{}

			byID, ok := m.CellByID(cell.ID())
			require.True(t, ok)
			assert.Same(t, cell, byID)
			byName, ok := m.CellByName(cell.Name())
			require.True(t, ok)
			assert.Same(t, cell, byName)
		}
	}
	assert.Len(t, seen, m.CellCount())

	fr := m.Cell(2, 0)
	assert.True(t, fr.Empty())
	assert.Equal(t, 0, fr.Total())
}

func TestCellIDsAreDeterministic(t *testing.T) {
	ctx := context.Background()
	r1, c1 := dims(t)
	r2, c2 := dims(t)

	a, err := Build(ctx, fixture(), r1, c1, nil, Options{})
	require.NoError(t, err)
	// A different corpus and base filter does not change identity.
	b, err := Build(ctx, memindex.New(), r2, c2, index.MustParseText(index.FieldContent, "border"), Options{})
	require.NoError(t, err)

	for i, c := range a.Cells() {
		other := b.Cells()[i]
		assert.Equal(t, c.ID(), other.ID())
		assert.Equal(t, c.Name(), other.Name())
	}
	assert.NotEqual(t, a.Cell(0, 0).ID(), a.Cell(0, 1).ID())
}

func TestCellNamesEscapeSeparator(t *testing.T) {
	rows, err := filter.ForTextContains(filter.TitleContains, []string{"a", "a|b"})
	require.NoError(t, err)
	cols, err := filter.ForTextContains(filter.ContentContains, []string{"b|c", "c"})
	require.NoError(t, err)

	m, err := Build(context.Background(), fixture(), rows, cols, nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, `a|b\|c`, m.Cell(0, 0).Name())
	assert.Equal(t, `a\|b|c`, m.Cell(1, 1).Name())
	for _, c := range m.Cells() {
		got, ok := m.CellByName(c.Name())
		require.True(t, ok, c.Name())
		assert.Same(t, c, got, c.Name())
	}
}

func TestBaseFilterNarrowsCells(t *testing.T) {
	ctx := context.Background()
	rows, cols := dims(t)

	m, err := Build(ctx, fixture(), rows, cols, index.MustParseText(index.FieldContent, "border"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d4"}, m.Cell(1, 1).Docs())
	// Axis counts ignore the base filter.
	assert.Equal(t, []int{2, 3}, m.RowDocCounts())
}

func TestSampleSizes(t *testing.T) {
	hits := func(n int) []index.Hit {
		out := make([]index.Hit, n)
		for i := range out {
			out[i] = index.Hit{ID: fmt.Sprintf("d%d", i)}
		}
		return out
	}

	tests := []struct {
		name  string
		hits  int
		total int
		cap   int
		want  []string
	}{
		{"under cap", 3, 3, 10, []string{"d0", "d1", "d2"}},
		{"capped", 2, 3, 2, []string{"d0", "d1"}},
		{"empty", 0, 0, 10, nil},
		{"short index returns replicate", 2, 5, 10, []string{"d0", "d1", "d0", "d1", "d0"}},
		{"short index beyond cap", 2, 50, 3, []string{"d0", "d1", "d0"}},
		{"count without hits", 0, 4, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(hits(tt.hits), tt.total, tt.cap)
			assert.Equal(t, tt.want, got)
			if tt.hits > 0 {
				want := tt.total
				if want > tt.cap {
					want = tt.cap
				}
				assert.Len(t, got, want)
			}
		})
	}
}

// shortIndex returns at most max hits regardless of the requested limit.
type shortIndex struct {
	index.Index
	max int
}

func (s shortIndex) Search(ctx context.Context, q index.Query, limit int) ([]index.Hit, error) {
	if limit > s.max {
		limit = s.max
	}
	return s.Index.Search(ctx, q, limit)
}

func TestBuildReplicatesShortResults(t *testing.T) {
	ctx := context.Background()
	rows, err := filter.ForCountryCodes([]string{"US"})
	require.NoError(t, err)
	cols, err := filter.ForCountryCodes([]string{filter.AllDocs})
	require.NoError(t, err)

	m, err := Build(ctx, shortIndex{Index: fixture(), max: 2}, rows, cols, nil, Options{CellDocCap: 10})
	require.NoError(t, err)
	cell := m.Cell(0, 0)
	assert.Equal(t, 3, cell.Total())
	assert.Equal(t, []string{"d3", "d4", "d3"}, cell.Docs())

	m, err = Build(ctx, fixture(), rows, cols, nil, Options{CellDocCap: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"d3", "d4"}, m.Cell(0, 0).Docs())
}

// failingIndex fails the nth call to Count.
type failingIndex struct {
	index.Index
	calls  *int
	failAt int
}

var errIndexDown = errors.New("index down")

func (f failingIndex) Count(ctx context.Context, q index.Query) (int, error) {
	*f.calls++
	if *f.calls == f.failAt {
		return 0, errIndexDown
	}
	return f.Index.Count(ctx, q)
}

func TestBuildAbortsOnIndexError(t *testing.T) {
	ctx := context.Background()
	for _, failAt := range []int{1, 3, 5} {
		rows, cols := dims(t)
		calls := 0
		m, err := Build(ctx, failingIndex{Index: fixture(), calls: &calls, failAt: failAt}, rows, cols, nil, Options{})
		assert.ErrorIs(t, err, errIndexDown)
		assert.Nil(t, m)
	}
}

func TestResolveFetchesOncePerDocument(t *testing.T) {
	ctx := context.Background()
	rows, err := filter.ForCountryCodes([]string{"DE"})
	require.NoError(t, err)
	cols, err := filter.ForCountryCodes([]string{filter.AllDocs})
	require.NoError(t, err)

	base := fixture()
	m, err := Build(ctx, shortIndex{Index: base, max: 1}, rows, cols, nil, Options{})
	require.NoError(t, err)
	cell := m.Cell(0, 0)
	require.Equal(t, []string{"d1", "d1"}, cell.Docs())

	counter := &countingIndex{Index: base}
	docs, err := cell.Resolve(ctx, counter)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[1].ID)
	assert.Equal(t, 1, counter.fetches)

	_, err = cell.Resolve(ctx, counter)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.fetches)
}

type countingIndex struct {
	index.Index
	fetches int
}

func (c *countingIndex) Document(ctx context.Context, id string) (index.Doc, error) {
	c.fetches++
	return c.Index.Document(ctx, id)
}

func TestSetTopicsSorts(t *testing.T) {
	c := &Cell{}
	c.SetTopics([]topic.Score{{Topic: 1, Prob: 0.2}, {Topic: 0, Prob: 0.7}})
	assert.Equal(t, []topic.Score{{Topic: 0, Prob: 0.7}, {Topic: 1, Prob: 0.2}}, c.Topics())
}

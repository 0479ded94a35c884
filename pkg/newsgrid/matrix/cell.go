package matrix

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cognicore/newsgrid/pkg/newsgrid/filter"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

var cellNamespace = uuid.MustParse("6f1f3c2e-8b7a-4d0e-9a51-3c1d2b7e9f40")

var labelEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// Cell is the document subset for one (row, column) pair
type Cell struct {
	rowIdx, colIdx int
	row, col       *filter.Value

	id    string
	name  string
	query index.Query

	total  int
	sample []string
	docs   []index.Doc

	topics []topic.Score
}

// CellID is the machine-stable identifier of a (row, col) pair. It depends
// only on the two predicates.
func CellID(row, col *filter.Value) string {
	return uuid.NewSHA1(cellNamespace, []byte(row.Key()+"|"+col.Key())).String()
}

// CellName is the human-readable identifier of a (row, col) pair: the two
// labels joined by '|', with '\' and '|' inside a label backslash-escaped.
func CellName(row, col *filter.Value) string {
	return labelEscaper.Replace(row.Label()) + "|" + labelEscaper.Replace(col.Label())
}

// ID returns the machine-stable identifier.
func (c *Cell) ID() string { return c.id }

// Name returns the human-readable identifier.
func (c *Cell) Name() string { return c.name }

// Row returns the row value.
func (c *Cell) Row() *filter.Value { return c.row }

// Col returns the column value.
func (c *Cell) Col() *filter.Value { return c.col }

// RowIndex returns the row position.
func (c *Cell) RowIndex() int { return c.rowIdx }

// ColIndex returns the column position.
func (c *Cell) ColIndex() int { return c.colIdx }

// Query returns the composite predicate base AND row AND col.
func (c *Cell) Query() index.Query { return c.query }

// Total is the true number of matching documents.
func (c *Cell) Total() int { return c.total }

// Docs returns the document sample, replicated or capped as built.
func (c *Cell) Docs() []string {
	out := make([]string, len(c.sample))
	copy(out, c.sample)
	return out
}

// SampleSize returns the length of the document sample.
func (c *Cell) SampleSize() int { return len(c.sample) }

// Empty reports whether the cell matched no documents.
func (c *Cell) Empty() bool { return len(c.sample) == 0 }

// Topics returns the ranked topic list set by assignment.
func (c *Cell) Topics() []topic.Score {
	out := make([]topic.Score, len(c.topics))
	copy(out, c.topics)
	return out
}

// SetTopics stores a ranked topic list, sorting it descending.
func (c *Cell) SetTopics(scores []topic.Score) {
	c.topics = make([]topic.Score, len(scores))
	copy(c.topics, scores)
	topic.SortScores(c.topics)
}

// Resolve fetches the stored fields of the sample, aligned with Docs.
// Each distinct document is fetched once and the result is kept on the
// cell.
func (c *Cell) Resolve(ctx context.Context, idx index.Index) ([]index.Doc, error) {
	if c.docs != nil || len(c.sample) == 0 {
		return c.docs, nil
	}

	fetched := make(map[string]index.Doc)
	docs := make([]index.Doc, len(c.sample))
	for i, id := range c.sample {
		d, ok := fetched[id]
		if !ok {
			var err error
			d, err = idx.Document(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("cell %s: resolve %s: %w", c.name, id, err)
			}
			fetched[id] = d
		}
		docs[i] = d
	}
	c.docs = docs
	return docs, nil
}

func (c *Cell) String() string { return c.name }

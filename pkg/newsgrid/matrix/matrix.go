// Package matrix builds the row x column grid of cells over two filter
// dimensions and a base filter.
package matrix

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/filter"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
)

// DefaultCellDocCap bounds the documents materialized per cell.
const DefaultCellDocCap = 500

// Options configure matrix construction
type Options struct {
	CellDocCap int
}

// Matrix is the full grid of cells. Cells are created eagerly and live as
// long as the matrix.
type Matrix struct {
	rows, cols *filter.Dimension
	base       index.Query

	cells  []*Cell
	byID   map[string]*Cell
	byName map[string]*Cell
}

// Build runs two queries per cell (count and capped search) in row-major
// order, then counts every dimension value on its own. Any index error
// aborts the build and no matrix is returned. A nil base matches all
// documents.
func Build(ctx context.Context, idx index.Index, rows, cols *filter.Dimension, base index.Query, opts Options) (*Matrix, error) {
	if opts.CellDocCap <= 0 {
		opts.CellDocCap = DefaultCellDocCap
	}
	if base == nil {
		base = index.MatchAll{}
	}

	m := &Matrix{
		rows:   rows,
		cols:   cols,
		base:   base,
		cells:  make([]*Cell, 0, rows.Len()*cols.Len()),
		byID:   make(map[string]*Cell, rows.Len()*cols.Len()),
		byName: make(map[string]*Cell, rows.Len()*cols.Len()),
	}

	for r, rv := range rows.Values() {
		for c, cv := range cols.Values() {
			cell, err := buildCell(ctx, idx, base, rv, cv, opts.CellDocCap)
			if err != nil {
				return nil, err
			}
			cell.rowIdx, cell.colIdx = r, c
			m.cells = append(m.cells, cell)
			m.byID[cell.id] = cell
			m.byName[cell.name] = cell
		}
	}

	for _, d := range []*filter.Dimension{rows, cols} {
		for _, v := range d.Values() {
			n, err := idx.Count(ctx, v.Query())
			if err != nil {
				return nil, fmt.Errorf("count %s value %q: %w", d.Kind(), v.Label(), err)
			}
			v.SetDocs(n)
		}
	}

	log.Info().
		Int("cells", len(m.cells)).
		Int("rows", rows.Len()).
		Int("cols", cols.Len()).
		Int("cap", opts.CellDocCap).
		Msg("matrix built")
	return m, nil
}

func buildCell(ctx context.Context, idx index.Index, base index.Query, row, col *filter.Value, docCap int) (*Cell, error) {
	cell := &Cell{
		row:   row,
		col:   col,
		id:    CellID(row, col),
		name:  CellName(row, col),
		query: index.AllOf(base, row.Query(), col.Query()),
	}

	total, err := idx.Count(ctx, cell.query)
	if err != nil {
		return nil, fmt.Errorf("cell %s: count: %w", cell.name, err)
	}
	hits, err := idx.Search(ctx, cell.query, docCap)
	if err != nil {
		return nil, fmt.Errorf("cell %s: search: %w", cell.name, err)
	}
	cell.total = total
	cell.sample = Sample(hits, total, docCap)
	return cell, nil
}

// Rows returns the row dimension.
func (m *Matrix) Rows() *filter.Dimension { return m.rows }

// Cols returns the column dimension.
func (m *Matrix) Cols() *filter.Dimension { return m.cols }

// Base returns the base filter predicate.
func (m *Matrix) Base() index.Query { return m.base }

// CellCount returns rows x cols.
func (m *Matrix) CellCount() int { return len(m.cells) }

// Cell returns the cell at (row, col), or nil when out of range.
func (m *Matrix) Cell(row, col int) *Cell {
	if row < 0 || row >= m.rows.Len() || col < 0 || col >= m.cols.Len() {
		return nil
	}
	return m.cells[row*m.cols.Len()+col]
}

// CellByID looks a cell up by machine ID.
func (m *Matrix) CellByID(id string) (*Cell, bool) {
	c, ok := m.byID[id]
	return c, ok
}

// CellByName looks a cell up by human-readable ID.
func (m *Matrix) CellByName(name string) (*Cell, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// Cells returns every cell in row-major order.
func (m *Matrix) Cells() []*Cell {
	out := make([]*Cell, len(m.cells))
	copy(out, m.cells)
	return out
}

// RowLabels returns the row labels aligned by position.
func (m *Matrix) RowLabels() []string { return m.rows.Labels() }

// ColLabels returns the column labels aligned by position.
func (m *Matrix) ColLabels() []string { return m.cols.Labels() }

// RowDocCounts returns per-row document counts.
func (m *Matrix) RowDocCounts() []int { return m.rows.DocCounts() }

// ColDocCounts returns per-column document counts.
func (m *Matrix) ColDocCounts() []int { return m.cols.DocCounts() }

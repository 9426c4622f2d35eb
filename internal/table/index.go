package table

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/leengari/table-algebra/internal/domain/data"
	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
)

// ColumnIndex is an ordered index over one column of one table. Row
// numbers in the index are in that table's numbering.
type ColumnIndex interface {
	// Table is the table whose numbering and values the index uses.
	Table() Table
	Column() int
	Size() int

	Insert(ctx context.Context, row int) error
	Remove(ctx context.Context, row int) error

	// SelectAll returns every indexed row ordered by value.
	SelectAll() []int
	SelectEqual(ctx context.Context, value interface{}) ([]int, error)
	// SelectRange returns rows whose value lies in [lo, hi].
	SelectRange(ctx context.Context, lo, hi interface{}) ([]int, error)
	SelectFirst(ctx context.Context) ([]int, error)
	SelectLast(ctx context.Context) ([]int, error)

	// Subset rebases the index onto target, a table composed on top of
	// the index's table, without re-reading values. column is the
	// column offset in target's schema.
	Subset(target Table, column int) (ColumnIndex, error)
}

// InsertSearchIndex keeps row numbers sorted by value and locates values
// with binary search, reading cells through the owning table. Rows with
// equal values keep insertion order.
type InsertSearchIndex struct {
	table  Table
	column int
	rows   []int
}

var _ ColumnIndex = (*InsertSearchIndex)(nil)

// NewInsertSearchIndex creates an empty index.
func NewInsertSearchIndex(t Table, column int) *InsertSearchIndex {
	return &InsertSearchIndex{table: t, column: column}
}

// BuildIndex indexes every row of t in enumeration order.
func BuildIndex(ctx context.Context, t Table, column int) (*InsertSearchIndex, error) {
	if err := checkColumn(t, column); err != nil {
		return nil, err
	}

	rows := AllRows(t)
	values := make(map[int]interface{}, len(rows))
	for _, r := range rows {
		v, err := t.GetValue(ctx, r, column)
		if err != nil {
			return nil, err
		}
		values[r] = v
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return data.Compare(values[rows[i]], values[rows[j]]) < 0
	})

	slog.Debug("index built",
		slog.String("table", tableName(t)),
		slog.Int("column", column),
		slog.Int("rows", len(rows)))

	return &InsertSearchIndex{table: t, column: column, rows: rows}, nil
}

func (i *InsertSearchIndex) Table() Table { return i.table }

func (i *InsertSearchIndex) Column() int { return i.column }

func (i *InsertSearchIndex) Size() int { return len(i.rows) }

func (i *InsertSearchIndex) value(ctx context.Context, row int) (interface{}, error) {
	return i.table.GetValue(ctx, row, i.column)
}

// bound returns the first position whose value is >= v (upper=false) or
// > v (upper=true).
func (i *InsertSearchIndex) bound(ctx context.Context, v interface{}, upper bool) (int, error) {
	lo, hi := 0, len(i.rows)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		mv, err := i.value(ctx, i.rows[mid])
		if err != nil {
			return 0, err
		}
		c := data.Compare(mv, v)
		if c < 0 || (upper && c == 0) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

func (i *InsertSearchIndex) Insert(ctx context.Context, row int) error {
	v, err := i.value(ctx, row)
	if err != nil {
		return err
	}
	pos, err := i.bound(ctx, v, true)
	if err != nil {
		return err
	}
	i.rows = slices.Insert(i.rows, pos, row)
	return nil
}

func (i *InsertSearchIndex) Remove(ctx context.Context, row int) error {
	v, err := i.value(ctx, row)
	if err != nil {
		return err
	}
	lo, err := i.bound(ctx, v, false)
	if err != nil {
		return err
	}
	hi, err := i.bound(ctx, v, true)
	if err != nil {
		return err
	}
	for p := lo; p < hi; p++ {
		if i.rows[p] == row {
			i.rows = slices.Delete(i.rows, p, p+1)
			return nil
		}
	}
	return fmt.Errorf("row %d is not in the index on %s column %d", row, tableName(i.table), i.column)
}

func (i *InsertSearchIndex) SelectAll() []int {
	return slices.Clone(i.rows)
}

func (i *InsertSearchIndex) SelectEqual(ctx context.Context, value interface{}) ([]int, error) {
	return i.SelectRange(ctx, value, value)
}

func (i *InsertSearchIndex) SelectRange(ctx context.Context, lo, hi interface{}) ([]int, error) {
	if data.Compare(lo, hi) > 0 {
		return []int{}, nil
	}
	from, err := i.bound(ctx, lo, false)
	if err != nil {
		return nil, err
	}
	to, err := i.bound(ctx, hi, true)
	if err != nil {
		return nil, err
	}
	return slices.Clone(i.rows[from:to]), nil
}

func (i *InsertSearchIndex) SelectFirst(ctx context.Context) ([]int, error) {
	if len(i.rows) == 0 {
		return []int{}, nil
	}
	v, err := i.value(ctx, i.rows[0])
	if err != nil {
		return nil, err
	}
	return i.SelectEqual(ctx, v)
}

func (i *InsertSearchIndex) SelectLast(ctx context.Context) ([]int, error) {
	if len(i.rows) == 0 {
		return []int{}, nil
	}
	v, err := i.value(ctx, i.rows[len(i.rows)-1])
	if err != nil {
		return nil, err
	}
	return i.SelectEqual(ctx, v)
}

// Subset orders target's rows by the position their resolved row holds in
// this index. Rows that resolve to no row (null padding from outer joins)
// sort first, like NULL values.
func (i *InsertSearchIndex) Subset(target Table, column int) (ColumnIndex, error) {
	c, err := asComposable(target, "index subset")
	if err != nil {
		return nil, err
	}

	domain := AllRows(target)
	resolved, err := c.ResolveRows(column, domain, i.table)
	if err != nil {
		return nil, err
	}
	if len(resolved) != len(domain) {
		return nil, dberrors.Assertf("resolving %d rows of %s into %s returned %d rows",
			len(domain), tableName(target), tableName(i.table), len(resolved))
	}

	rank := make(map[int]int, len(i.rows))
	for pos, r := range i.rows {
		rank[r] = pos
	}
	keys := make([]int, len(domain))
	for k, r := range resolved {
		if r < 0 {
			keys[k] = -1
			continue
		}
		pos, ok := rank[r]
		if !ok {
			return nil, dberrors.Assertf("row %d of %s is not covered by the index on column %d",
				r, tableName(i.table), i.column)
		}
		keys[k] = pos
	}

	order := make([]int, len(domain))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] < keys[order[b]]
	})

	rows := make([]int, len(order))
	for k, o := range order {
		rows[k] = domain[o]
	}
	return &InsertSearchIndex{table: target, column: column, rows: rows}, nil
}

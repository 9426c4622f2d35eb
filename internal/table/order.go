package table

import (
	"context"
	"log/slog"
	"slices"

	"github.com/leengari/table-algebra/internal/domain/data"
	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
)

// SortKey is one column of a multi-column ordering.
type SortKey struct {
	Column    int
	Ascending bool
}

// OrderBy returns a view of t sorted by column. Rows with equal values
// keep their relative order in t, which makes repeated application a
// stable multi-key sort.
func OrderBy(ctx context.Context, t Table, column int, ascending bool) (*RowPermutationTable, error) {
	sorted, err := SelectAllRows(ctx, t, column)
	if err != nil {
		return nil, err
	}

	runs, err := equalRuns(ctx, t, column, sorted)
	if err != nil {
		return nil, err
	}
	if !ascending {
		slices.Reverse(runs)
	}

	rows := make([]int, 0, len(sorted))
	for _, run := range runs {
		slices.Sort(run)
		rows = append(rows, run...)
	}

	slog.Debug("order by",
		slog.String("table", tableName(t)),
		slog.Int("column", column),
		slog.Bool("ascending", ascending),
		slog.Int("rows", len(rows)))

	return NewRowPermutationTable(t, rows, column)
}

// equalRuns splits index-ordered rows into runs of equal value.
func equalRuns(ctx context.Context, t Table, column int, sorted []int) ([][]int, error) {
	var runs [][]int
	var last interface{}
	for i, r := range sorted {
		v, err := t.GetValue(ctx, r, column)
		if err != nil {
			return nil, err
		}
		if i == 0 || data.Compare(last, v) != 0 {
			runs = append(runs, nil)
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], r)
		last = v
	}
	return runs, nil
}

// OrderByColumns sorts by several keys, the first key being the most
// significant. Keys are applied right to left.
func OrderByColumns(ctx context.Context, t Table, keys []SortKey) (Table, error) {
	result := t
	for i := len(keys) - 1; i >= 0; i-- {
		sorted, err := OrderBy(ctx, result, keys[i].Column, keys[i].Ascending)
		if err != nil {
			return nil, err
		}
		result = sorted
	}

	if result.RowCount() != t.RowCount() {
		return nil, dberrors.Assertf("ordering %s changed the row count from %d to %d",
			tableName(t), t.RowCount(), result.RowCount())
	}
	return result, nil
}

// OrderRowsByColumns returns t's row numbers, in t's numbering, in the
// order given by keys.
func OrderRowsByColumns(ctx context.Context, t Table, keys []SortKey) ([]int, error) {
	if len(keys) == 0 {
		return AllRows(t), nil
	}
	sorted, err := OrderByColumns(ctx, t, keys)
	if err != nil {
		return nil, err
	}
	view, err := asComposable(sorted, "order rows")
	if err != nil {
		return nil, err
	}
	return view.ResolveRows(keys[0].Column, AllRows(sorted), t)
}

package table

import (
	"context"

	"github.com/leengari/table-algebra/internal/domain/data"
)

// Collect materializes every row of t in enumeration order, keyed by
// qualified column name.
func Collect(ctx context.Context, t Table) ([]data.Record, error) {
	info := t.TableInfo()
	names := make([]string, info.ColumnCount())
	for c := range names {
		name, err := info.ColumnName(c)
		if err != nil {
			return nil, err
		}
		names[c] = name.FullName()
	}

	records := make([]data.Record, 0, t.RowCount())
	for e := t.Enumerate(); e.Next(); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := NewRow(t, e.Row())
		values, err := row.Values(ctx)
		if err != nil {
			return nil, err
		}
		rec := data.NewRecord(len(names))
		for c, name := range names {
			rec.Set(name, values[c])
		}
		records = append(records, rec)
	}
	return records, nil
}

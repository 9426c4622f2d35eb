package table

import (
	"log/slog"
	"strconv"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
)

// OuterTable is a join over root tables given by explicit row lists, where
// a row number of -1 stands for a NULL-padded contribution.
type OuterTable struct {
	*JoinedTable
	rows [][]int
}

var _ Composable = (*OuterTable)(nil)

// NewOuterTable builds a table over the roots and rows described by info.
func NewOuterTable(info *RawTableInfo) (*OuterTable, error) {
	if _, err := info.RowCount(); err != nil {
		return nil, err
	}
	items := info.Items()
	if len(items) == 0 {
		return nil, dberrors.Assertf("outer table needs at least one root table")
	}

	o := &OuterTable{rows: make([][]int, len(items))}
	parents := make([]Table, len(items))
	for i, item := range items {
		parents[i] = item.Table
		o.rows[i] = item.Rows
	}
	o.JoinedTable = newJoinedTable(o, o, parents)
	return o, nil
}

func (o *OuterTable) RowCount() int {
	return len(o.rows[0])
}

func (o *OuterTable) resolveTableRows(rows []int, table int) ([]int, error) {
	if err := checkRows(o, rows, o.RowCount()); err != nil {
		return nil, err
	}
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = o.rows[table][r]
	}
	return out, nil
}

// MergeIn adds a NULL-padded row for every row of outside whose root
// rows are not already present. Every root of outside must be one of this
// table's roots.
func (o *OuterTable) MergeIn(outside Composable) error {
	outsideInfo, err := GetRawTableInfo(outside)
	if err != nil {
		return err
	}
	outsideCount, err := outsideInfo.RowCount()
	if err != nil {
		return err
	}

	current := NewRawTableInfo()
	for i, p := range o.parents {
		current.Add(p.(Composable), o.rows[i])
	}
	for _, item := range outsideInfo.Items() {
		if _, ok := current.RowsFor(item.Table); !ok {
			return dberrors.Assertf("outer merge: %s is not a root of the outer table", tableName(item.Table))
		}
	}

	// Rows of outside that already appear in the projection of the current
	// rows must not be padded.
	matched := make(map[string]struct{}, o.RowCount())
	for r := range o.RowCount() {
		matched[projectKey(outsideInfo, current, r)] = struct{}{}
	}
	var keep []int
	for k := range outsideCount {
		if _, ok := matched[projectKey(outsideInfo, outsideInfo, k)]; !ok {
			keep = append(keep, k)
		}
	}

	unmatched := NewRawTableInfo()
	for _, p := range o.parents {
		src, ok := outsideInfo.RowsFor(p)
		rows := make([]int, len(keep))
		for i, k := range keep {
			if ok {
				rows[i] = src[k]
			} else {
				rows[i] = -1
			}
		}
		unmatched.Add(p.(Composable), rows)
	}

	merged, err := current.Union(unmatched)
	if err != nil {
		return err
	}
	for i, item := range merged.Items() {
		o.rows[i] = item.Rows
	}

	// The row domain changed; indexes derived before the merge are stale.
	o.indexes = make([]ColumnIndex, len(o.indexes))

	slog.Debug("outer merge",
		slog.String("table", tableName(o)),
		slog.Int("outside_rows", outsideCount),
		slog.Int("rows", o.RowCount()))
	return nil
}

// projectKey renders row r of src restricted to the roots of shape.
func projectKey(shape, src *RawTableInfo, r int) string {
	key := make([]byte, 0, 16)
	for _, item := range shape.Items() {
		rows, _ := src.RowsFor(item.Table)
		key = strconv.AppendInt(key, int64(rows[r]), 10)
		key = append(key, ',')
	}
	return string(key)
}

// Outer keeps every row of table and adds a NULL-padded row for each row
// of outside not matched by table.
func Outer(table, outside Composable) (*OuterTable, error) {
	info, err := GetRawTableInfo(table)
	if err != nil {
		return nil, err
	}
	o, err := NewOuterTable(info)
	if err != nil {
		return nil, err
	}
	if err := o.MergeIn(outside); err != nil {
		return nil, err
	}
	return o, nil
}

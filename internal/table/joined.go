package table

import (
	"context"
	"log/slog"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
)

// NoSortColumn marks a join that has no known physical ordering.
const NoSortColumn = -1

// rowMapper is what every concrete join supplies: its row count and how
// its own row numbers decompose into a parent's row numbers. A mapped row
// of -1 means the parent contributes no row (null padding).
type rowMapper interface {
	RowCount() int
	resolveTableRows(rows []int, table int) ([]int, error)
}

// JoinedTable composes N parent tables. Every behavior is derived from
// the concrete join's row mapping.
type JoinedTable struct {
	TableBase
	parents    []Table
	info       *schema.JoinedTableInfo
	mapper     rowMapper
	sortColumn int
	root       bool
}

func newJoinedTable(self Table, mapper rowMapper, parents []Table) *JoinedTable {
	infos := make([]*schema.TableInfo, len(parents))
	for i, p := range parents {
		infos[i] = p.TableInfo()
	}
	info := schema.NewJoinedTableInfo(schema.MergedName(infos...), infos...)

	return &JoinedTable{
		TableBase:  newTableBase(self, info.ColumnCount()),
		parents:    parents,
		info:       info,
		mapper:     mapper,
		sortColumn: NoSortColumn,
	}
}

func (j *JoinedTable) TableInfo() *schema.TableInfo {
	return j.info.TableInfo()
}

// JoinedInfo exposes the column offset mapping.
func (j *JoinedTable) JoinedInfo() *schema.JoinedTableInfo {
	return j.info
}

// Parents returns the joined tables in column order.
func (j *JoinedTable) Parents() []Table {
	return j.parents
}

// SortColumn returns the column the join is physically ordered by, or
// NoSortColumn.
func (j *JoinedTable) SortColumn() int {
	return j.sortColumn
}

// SetSortColumn records that rows are already ordered by column.
func (j *JoinedTable) SetSortColumn(column int) error {
	if column != NoSortColumn {
		if err := checkColumn(j.self, column); err != nil {
			return err
		}
	}
	j.sortColumn = column
	return nil
}

// MarkRoot makes the join terminate raw table info collection.
func (j *JoinedTable) MarkRoot() {
	j.root = true
}

func (j *JoinedTable) IsRoot() bool {
	return j.root
}

func (j *JoinedTable) Enumerate() RowEnumerator {
	return NewSimpleRowEnumerator(j.mapper.RowCount())
}

func (j *JoinedTable) resolveTableRow(row, table int) (int, error) {
	rows, err := j.mapper.resolveTableRows([]int{row}, table)
	if err != nil {
		return -1, err
	}
	return rows[0], nil
}

func (j *JoinedTable) GetValue(ctx context.Context, row, column int) (interface{}, error) {
	table, local, err := j.info.Offsets(column)
	if err != nil {
		return nil, err
	}
	parentRow, err := j.resolveTableRow(row, table)
	if err != nil {
		return nil, err
	}
	if parentRow < 0 {
		return nil, nil
	}
	return j.parents[table].GetValue(ctx, parentRow, local)
}

// ResolveRows maps rows into the parent owning column and recurses.
//
// Asking a join to resolve into itself returns an empty list rather than
// the input rows. Callers above this layer rely on that result, so it is
// kept as is.
func (j *JoinedTable) ResolveRows(column int, rows []int, ancestor Table) ([]int, error) {
	if j.isSelf(ancestor) {
		return []int{}, nil
	}

	table, local, err := j.info.Offsets(column)
	if err != nil {
		return nil, err
	}
	parent, err := asComposable(j.parents[table], "joined resolve rows")
	if err != nil {
		return nil, err
	}

	mapped, err := j.mapper.resolveTableRows(rows, table)
	if err != nil {
		return nil, err
	}
	if Table(parent) == ancestor {
		return mapped, nil
	}
	return parent.ResolveRows(local, mapped, ancestor)
}

func (j *JoinedTable) CollectRawTableInfo(acc *RawTableInfo, rows []int) error {
	if j.root {
		acc.Add(j.self.(Composable), rows)
		return nil
	}

	for i, p := range j.parents {
		parent, err := asComposable(p, "joined raw table info")
		if err != nil {
			return err
		}
		mapped, err := j.mapper.resolveTableRows(rows, i)
		if err != nil {
			return err
		}
		if parent.IsRoot() {
			acc.Add(parent, mapped)
			continue
		}
		if err := parent.CollectRawTableInfo(acc, mapped); err != nil {
			return err
		}
	}
	return nil
}

// GetColumnIndex derives indexes from the owning parent, except for the
// sort column: the join's row order is a permutation of the parent's, so
// that index is built over the join's own rows.
func (j *JoinedTable) GetColumnIndex(ctx context.Context, column, originalColumn int, target Table) (ColumnIndex, error) {
	if err := checkColumn(j.self, column); err != nil {
		return nil, err
	}

	if idx := j.cachedIndex(column); idx != nil {
		return j.projectIndex(idx, target, originalColumn)
	}

	if column == j.sortColumn {
		idx, err := BuildIndex(ctx, j.self, column)
		if err != nil {
			return nil, err
		}
		j.cacheIndex(column, idx)
		return j.projectIndex(idx, target, originalColumn)
	}

	table, local, err := j.info.Offsets(column)
	if err != nil {
		return nil, err
	}
	idx, err := j.parents[table].GetColumnIndex(ctx, local, originalColumn, target)
	if err != nil {
		return nil, err
	}
	if j.isSelf(target) {
		j.cacheIndex(column, idx)
	}
	return idx, nil
}

// checkRows validates row numbers against the join's own domain.
func checkRows(t Table, rows []int, count int) error {
	for _, r := range rows {
		if r < 0 || r >= count {
			return dberrors.NewRowRange(tableName(t), r, count)
		}
	}
	return nil
}

func logJoin(kind string, j *JoinedTable) {
	slog.Debug("join composed",
		slog.String("kind", kind),
		slog.String("name", j.info.TableInfo().Name.FullName()),
		slog.Int("tables", len(j.parents)),
		slog.Int("rows", j.mapper.RowCount()))
}

package storage

import (
	"context"
	"slices"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/domain/transaction"
	"github.com/leengari/table-algebra/internal/table"
)

// tableView is the root a transaction composes queries on. Reads go to
// the physical table; writes are recorded as changes of the transaction.
// Row numbers are shared with the physical table, so the view resolves
// rows into either of them unchanged.
type tableView struct {
	base *MemoryTable
	tx   *transaction.Transaction
}

var _ table.MutableTable = (*tableView)(nil)

func newTableView(base *MemoryTable, tx *transaction.Transaction) *tableView {
	return &tableView{base: base, tx: tx}
}

func (v *tableView) TableInfo() *schema.TableInfo {
	return v.base.TableInfo()
}

func (v *tableView) RowCount() int {
	return v.base.RowCount()
}

func (v *tableView) GetValue(ctx context.Context, row, column int) (interface{}, error) {
	return v.base.GetValue(ctx, row, column)
}

func (v *tableView) Enumerate() table.RowEnumerator {
	return v.base.Enumerate()
}

func (v *tableView) IsRoot() bool {
	return true
}

func (v *tableView) ResolveRows(_ int, rows []int, ancestor table.Table) ([]int, error) {
	if ancestor != table.Table(v) && ancestor != table.Table(v.base) {
		return nil, dberrors.Assertf("table %s cannot resolve rows into %T", v.base.name(), ancestor)
	}
	return slices.Clone(rows), nil
}

func (v *tableView) CollectRawTableInfo(acc *table.RawTableInfo, rows []int) error {
	acc.Add(v, rows)
	return nil
}

// GetColumnIndex shares the physical table's index. The view and its base
// use the same numbering, so only other targets need a rebased copy.
func (v *tableView) GetColumnIndex(ctx context.Context, column, originalColumn int, target table.Table) (table.ColumnIndex, error) {
	idx, err := v.base.columnIndex(ctx, column)
	if err != nil {
		return nil, err
	}
	if target == table.Table(v) || target == table.Table(v.base) {
		return idx, nil
	}
	return idx.Subset(target, originalColumn)
}

func (v *tableView) AddRow(ctx context.Context, row *table.Row) (int, error) {
	if err := v.checkActive("insert into"); err != nil {
		return -1, err
	}
	pos, err := v.base.AddRow(ctx, row)
	if err != nil {
		return -1, err
	}
	v.tx.Record(transaction.Change{Type: transaction.ChangeTypeInsert, Table: v.base.name(), RowID: pos})
	return pos, nil
}

func (v *tableView) RemoveRow(ctx context.Context, row int) error {
	if err := v.checkActive("delete from"); err != nil {
		return err
	}
	if err := v.base.RemoveRow(ctx, row); err != nil {
		return err
	}
	v.tx.Record(transaction.Change{Type: transaction.ChangeTypeDelete, Table: v.base.name(), RowID: row})
	return nil
}

func (v *tableView) checkActive(op string) error {
	if !v.tx.Active {
		return &dberrors.InvalidStateError{
			Object:    "table " + v.base.name(),
			Operation: op,
			Reason:    "transaction " + v.tx.ID + " is closed",
		}
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/domain/transaction"
	"github.com/leengari/table-algebra/internal/table"
)

// MemoryTable is a physical root table held in memory. Row numbers are
// stable: deleting a row leaves a gap, so once rows have been removed the
// table no longer enumerates as 0..n-1.
type MemoryTable struct {
	mu      sync.RWMutex
	info    *schema.TableInfo
	rows    [][]interface{} // nil slot = deleted row
	live    int
	deleted bool

	idxMu   sync.Mutex
	indexes []*table.InsertSearchIndex
}

var (
	_ table.MutableTable      = (*MemoryTable)(nil)
	_ transaction.TableSource = (*MemoryTable)(nil)
)

// NewMemoryTable creates an empty table with the given schema.
func NewMemoryTable(info *schema.TableInfo) *MemoryTable {
	return &MemoryTable{
		info:    info,
		indexes: make([]*table.InsertSearchIndex, info.ColumnCount()),
	}
}

func (t *MemoryTable) TableInfo() *schema.TableInfo {
	return t.info
}

func (t *MemoryTable) name() string {
	return t.info.Name.FullName()
}

func (t *MemoryTable) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

func (t *MemoryTable) GetValue(_ context.Context, row, column int) (interface{}, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if row < 0 || row >= len(t.rows) || t.rows[row] == nil {
		return nil, dberrors.NewRowRange(t.name(), row, len(t.rows))
	}
	values := t.rows[row]
	if column < 0 || column >= len(values) {
		return nil, dberrors.NewColumnRange(t.name(), column, len(values))
	}
	return values[column], nil
}

// Enumerate yields live row numbers in ascending order.
func (t *MemoryTable) Enumerate() table.RowEnumerator {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.deleted {
		return table.NewSimpleRowEnumerator(len(t.rows))
	}
	rows := make([]int, 0, t.live)
	for i, r := range t.rows {
		if r != nil {
			rows = append(rows, i)
		}
	}
	return table.NewSliceRowEnumerator(rows)
}

func (t *MemoryTable) IsRoot() bool {
	return true
}

// ResolveRows only accepts the table itself as ancestor: a root table is
// the fixed point of row resolution.
func (t *MemoryTable) ResolveRows(_ int, rows []int, ancestor table.Table) ([]int, error) {
	if ancestor != table.Table(t) {
		return nil, dberrors.Assertf("root table %s cannot resolve rows into %T", t.name(), ancestor)
	}
	return slices.Clone(rows), nil
}

func (t *MemoryTable) CollectRawTableInfo(acc *table.RawTableInfo, rows []int) error {
	acc.Add(t, rows)
	return nil
}

// GetColumnIndex builds the column index on first use and keeps it up to
// date on insert and delete.
func (t *MemoryTable) GetColumnIndex(ctx context.Context, column, originalColumn int, target table.Table) (table.ColumnIndex, error) {
	idx, err := t.columnIndex(ctx, column)
	if err != nil {
		return nil, err
	}
	if target == table.Table(t) {
		return idx, nil
	}
	return idx.Subset(target, originalColumn)
}

func (t *MemoryTable) columnIndex(ctx context.Context, column int) (*table.InsertSearchIndex, error) {
	if column < 0 || column >= t.info.ColumnCount() {
		return nil, dberrors.NewColumnRange(t.name(), column, t.info.ColumnCount())
	}

	t.idxMu.Lock()
	defer t.idxMu.Unlock()

	if idx := t.indexes[column]; idx != nil {
		return idx, nil
	}
	idx, err := table.BuildIndex(ctx, t, column)
	if err != nil {
		return nil, fmt.Errorf("failed to build index on %s column %d: %w", t.name(), column, err)
	}
	t.indexes[column] = idx
	return idx, nil
}

// Insert stages values in column order and adds them as a new row.
func (t *MemoryTable) Insert(ctx context.Context, values ...interface{}) (int, error) {
	if len(values) != t.info.ColumnCount() {
		return -1, fmt.Errorf("table %s has %d columns, got %d values", t.name(), t.info.ColumnCount(), len(values))
	}
	row := table.NewDetachedRow(t)
	for c, v := range values {
		if err := row.SetValue(c, v); err != nil {
			return -1, err
		}
	}
	return t.AddRow(ctx, row)
}

// AddRow stores a detached row staged for this table's schema and
// attaches it to the new row number.
func (t *MemoryTable) AddRow(ctx context.Context, row *table.Row) (int, error) {
	if row.IsAttached() {
		return -1, &dberrors.InvalidStateError{
			Object:    fmt.Sprintf("row %d", row.Number()),
			Operation: "insert",
			Reason:    "row is already attached",
		}
	}
	if row.Table().TableInfo() != t.info {
		return -1, fmt.Errorf("row was staged for %s, not %s", row.Table().TableInfo().Name, t.name())
	}

	values, err := row.Values(ctx)
	if err != nil {
		return -1, err
	}

	t.mu.Lock()
	pos := len(t.rows)
	for c, col := range t.info.Columns() {
		if col.NotNull && values[c] == nil {
			t.mu.Unlock()
			return -1, dberrors.NewNotNullViolation(t.name(), col.Name, pos)
		}
	}
	t.rows = append(t.rows, values)
	t.live++
	t.mu.Unlock()

	t.idxMu.Lock()
	defer t.idxMu.Unlock()
	for _, idx := range t.indexes {
		if idx == nil {
			continue
		}
		if err := idx.Insert(ctx, pos); err != nil {
			return -1, err
		}
	}

	row.Attach(pos)
	return pos, nil
}

// RemoveRow deletes a row, leaving its number unused.
func (t *MemoryTable) RemoveRow(ctx context.Context, row int) error {
	if err := t.checkLive(row); err != nil {
		return err
	}

	t.idxMu.Lock()
	for _, idx := range t.indexes {
		if idx == nil {
			continue
		}
		if err := idx.Remove(ctx, row); err != nil {
			t.idxMu.Unlock()
			return err
		}
	}
	t.idxMu.Unlock()

	t.mu.Lock()
	t.rows[row] = nil
	t.live--
	t.deleted = true
	t.mu.Unlock()

	slog.Debug("row removed", slog.String("table", t.name()), slog.Int("row", row))
	return nil
}

func (t *MemoryTable) checkLive(row int) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if row < 0 || row >= len(t.rows) || t.rows[row] == nil {
		return dberrors.NewRowRange(t.name(), row, len(t.rows))
	}
	return nil
}

// MutableView returns a view of the table that records changes on tx.
func (t *MemoryTable) MutableView(tx *transaction.Transaction) (table.MutableTable, error) {
	if tx == nil || !tx.Active {
		return nil, &dberrors.InvalidStateError{Object: "table " + t.name(), Operation: "open", Reason: "transaction is not active"}
	}
	return newTableView(t, tx), nil
}

// reshape rebuilds the rows for a new schema, matching columns by name.
// Columns missing from the old schema become NULL.
//
// idxMu is taken before mu, the same order index builds and inserts use.
func (t *MemoryTable) reshape(info *schema.TableInfo) error {
	t.idxMu.Lock()
	defer t.idxMu.Unlock()
	t.mu.Lock()
	defer t.mu.Unlock()

	mapping := make([]int, info.ColumnCount())
	for c, col := range info.Columns() {
		mapping[c] = t.info.IndexOfColumn(col.Name)
		if mapping[c] < 0 && col.NotNull && t.live > 0 {
			return dberrors.NewNotNullViolation(info.Name.FullName(), col.Name, -1)
		}
	}

	for i, old := range t.rows {
		if old == nil {
			continue
		}
		values := make([]interface{}, len(mapping))
		for c, from := range mapping {
			if from >= 0 {
				values[c] = old[from]
			}
		}
		t.rows[i] = values
	}
	if t.info != info {
		t.info = info
	}
	t.indexes = make([]*table.InsertSearchIndex, info.ColumnCount())
	return nil
}

// Package tabletest builds small in-memory tables for tests of the table
// algebra and the layers above it.
package tabletest

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/storage"
	"github.com/leengari/table-algebra/internal/table"
)

// Column is a column definition for NewTable.
type Column struct {
	Name string
	Type schema.ColumnType
}

// Int and Text shorten column lists in tests.
func Int(name string) Column  { return Column{Name: name, Type: schema.ColumnTypeInt} }
func Text(name string) Column { return Column{Name: name, Type: schema.ColumnTypeText} }

// NewTable creates a physical table named name and inserts rows.
func NewTable(t *testing.T, name string, columns []Column, rows ...[]interface{}) *storage.MemoryTable {
	t.Helper()
	info := schema.NewTableInfo(schema.ParseName(name))
	for _, c := range columns {
		_, err := info.NewColumn(c.Name, c.Type)
		assert.NilError(t, err)
	}
	mt := storage.NewMemoryTable(info)
	for _, r := range rows {
		_, err := mt.Insert(context.Background(), r...)
		assert.NilError(t, err)
	}
	return mt
}

// ScenarioA returns A = [(1,"x"), (2,"y")] and B = [(10), (20), (30)].
func ScenarioA(t *testing.T) (*storage.MemoryTable, *storage.MemoryTable) {
	t.Helper()
	a := NewTable(t, "A", []Column{Int("id"), Text("label")},
		[]interface{}{1, "x"},
		[]interface{}{2, "y"},
	)
	b := NewTable(t, "B", []Column{Int("n")},
		[]interface{}{10},
		[]interface{}{20},
		[]interface{}{30},
	)
	return a, b
}

// RowValues reads every column of one row.
func RowValues(t *testing.T, tbl table.Table, row int) []interface{} {
	t.Helper()
	values, err := table.NewRow(tbl, row).Values(context.Background())
	assert.NilError(t, err)
	return values
}

// ColumnValues reads one column for the given rows, in order.
func ColumnValues(t *testing.T, tbl table.Table, column int, rows []int) []interface{} {
	t.Helper()
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		v, err := tbl.GetValue(context.Background(), r, column)
		assert.NilError(t, err)
		out[i] = v
	}
	return out
}

// Opaque hides every capability of a table except the Table interface.
type Opaque struct {
	T table.Table
}

func (o Opaque) TableInfo() *schema.TableInfo { return o.T.TableInfo() }
func (o Opaque) RowCount() int                { return o.T.RowCount() }
func (o Opaque) Enumerate() table.RowEnumerator {
	return o.T.Enumerate()
}

func (o Opaque) GetValue(ctx context.Context, row, column int) (interface{}, error) {
	return o.T.GetValue(ctx, row, column)
}

func (o Opaque) GetColumnIndex(ctx context.Context, column, originalColumn int, target table.Table) (table.ColumnIndex, error) {
	return o.T.GetColumnIndex(ctx, column, originalColumn, target)
}

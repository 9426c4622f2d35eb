// Package table implements the table algebra: composing physical tables
// into filtered, aliased, joined and ordered views without copying data,
// while keeping every row number and column offset translatable back to
// the tables that hold the values.
//
// Row numbers are local to each table. Resolution walks from a view
// towards its parents, translating numbers at every composition boundary,
// and stops at root tables (physical tables or alias boundaries), which
// are compared by identity.
//
// A composition graph is built and consumed by a single query execution.
// Lazily populated index caches are not synchronized.
package table

import (
	"context"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
)

// Table is the uniform interface of every table-like object.
type Table interface {
	TableInfo() *schema.TableInfo
	RowCount() int

	// GetValue reads one cell. It is the only operation that may block on
	// storage.
	GetValue(ctx context.Context, row, column int) (interface{}, error)

	// Enumerate yields the table's row numbers in enumeration order.
	Enumerate() RowEnumerator

	// GetColumnIndex returns an index over column, expressed in the row
	// numbering of target. target is either the table itself or a table
	// composed on top of it; originalColumn is the column offset in
	// target's own schema and is passed through unchanged.
	GetColumnIndex(ctx context.Context, column, originalColumn int, target Table) (ColumnIndex, error)
}

// Composable is the row-resolution capability of tables that take part in
// a composition. Root tables implement it as the fixed point of the
// recursion.
type Composable interface {
	Table

	// IsRoot reports whether the table terminates row resolution.
	IsRoot() bool

	// ResolveRows translates rows numbered in this table (as seen through
	// column) into ancestor's numbering. Passing the table itself as the
	// ancestor returns rows unchanged.
	ResolveRows(column int, rows []int, ancestor Table) ([]int, error)

	// CollectRawTableInfo appends to acc every root table reachable from
	// this table, paired with rows translated into that root's numbering.
	CollectRawTableInfo(acc *RawTableInfo, rows []int) error
}

// MutableTable is a root table whose rows can be added and removed.
type MutableTable interface {
	Composable

	// AddRow inserts a detached row and returns its new row number.
	AddRow(ctx context.Context, row *Row) (int, error)

	// RemoveRow deletes the row with the given number.
	RemoveRow(ctx context.Context, row int) error
}

// RowEnumerator iterates row numbers.
//
//	for e := t.Enumerate(); e.Next(); {
//		use(e.Row())
//	}
type RowEnumerator interface {
	Next() bool
	Row() int
}

// SimpleRowEnumerator yields 0..n-1. Any other enumerator is treated as
// a non-trivial ordering of row numbers by compositions that need the
// distinction.
type SimpleRowEnumerator struct {
	count   int
	current int
}

// NewSimpleRowEnumerator enumerates 0..count-1.
func NewSimpleRowEnumerator(count int) *SimpleRowEnumerator {
	return &SimpleRowEnumerator{count: count, current: -1}
}

func (e *SimpleRowEnumerator) Next() bool {
	if e.current+1 >= e.count {
		return false
	}
	e.current++
	return true
}

func (e *SimpleRowEnumerator) Row() int {
	return e.current
}

// SliceRowEnumerator yields an explicit list of row numbers.
type SliceRowEnumerator struct {
	rows    []int
	current int
}

// NewSliceRowEnumerator enumerates rows in the given order.
func NewSliceRowEnumerator(rows []int) *SliceRowEnumerator {
	return &SliceRowEnumerator{rows: rows, current: -1}
}

func (e *SliceRowEnumerator) Next() bool {
	if e.current+1 >= len(e.rows) {
		return false
	}
	e.current++
	return true
}

func (e *SliceRowEnumerator) Row() int {
	return e.rows[e.current]
}

// isSimple reports whether e enumerates the plain 0..n-1 sequence.
func isSimple(e RowEnumerator) bool {
	_, ok := e.(*SimpleRowEnumerator)
	return ok
}

// AllRows returns the table's row numbers in enumeration order.
func AllRows(t Table) []int {
	rows := make([]int, 0, t.RowCount())
	for e := t.Enumerate(); e.Next(); {
		rows = append(rows, e.Row())
	}
	return rows
}

// GetRawTableInfo describes the full row domain of t in terms of its root
// tables.
func GetRawTableInfo(t Composable) (*RawTableInfo, error) {
	acc := NewRawTableInfo()
	if err := t.CollectRawTableInfo(acc, AllRows(t)); err != nil {
		return nil, err
	}
	return acc, nil
}

// ColumnIndexOf returns the index of column in t's own numbering.
func ColumnIndexOf(ctx context.Context, t Table, column int) (ColumnIndex, error) {
	return t.GetColumnIndex(ctx, column, column, t)
}

// SelectAllRows returns t's row numbers ordered by column.
func SelectAllRows(ctx context.Context, t Table, column int) ([]int, error) {
	idx, err := ColumnIndexOf(ctx, t, column)
	if err != nil {
		return nil, err
	}
	return idx.SelectAll(), nil
}

// ResolveColumn resolves a dotted column reference against t's schema.
func ResolveColumn(t Table, ref string) (int, error) {
	return t.TableInfo().ResolveColumn(schema.ParseName(ref))
}

func asComposable(t Table, op string) (Composable, error) {
	c, ok := t.(Composable)
	if !ok {
		return nil, dberrors.Assertf("%s: table %s (%T) cannot take part in row resolution", op, tableName(t), t)
	}
	return c, nil
}

func tableName(t Table) string {
	if t == nil {
		return "<nil>"
	}
	return t.TableInfo().Name.FullName()
}

func checkColumn(t Table, column int) error {
	if n := t.TableInfo().ColumnCount(); column < 0 || column >= n {
		return dberrors.NewColumnRange(tableName(t), column, n)
	}
	return nil
}

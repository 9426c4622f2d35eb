package table

import (
	"context"
	"fmt"

	"github.com/leengari/table-algebra/internal/domain/data"
	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
)

// ExpressionReducer turns a column default expression into a constant.
type ExpressionReducer interface {
	Reduce(ctx context.Context, expression interface{}, typ schema.ColumnType) (interface{}, error)
}

// ExpressionReducerFunc adapts a function to ExpressionReducer.
type ExpressionReducerFunc func(ctx context.Context, expression interface{}, typ schema.ColumnType) (interface{}, error)

func (f ExpressionReducerFunc) Reduce(ctx context.Context, expression interface{}, typ schema.ColumnType) (interface{}, error) {
	return f(ctx, expression, typ)
}

// LiteralReducer treats default expressions as constants of the column
// type.
var LiteralReducer ExpressionReducer = ExpressionReducerFunc(
	func(_ context.Context, expression interface{}, typ schema.ColumnType) (interface{}, error) {
		return data.Cast(expression, typ)
	})

// Row reads or stages the values of one row of a table.
//
// An attached row refers to an existing row number; its values are read
// through on first access, all columns at once, and it cannot be
// modified. A detached row has no number and stages values for a row
// about to be inserted.
type Row struct {
	table  Table
	number int
	values []interface{}
	set    []bool
}

// NewRow attaches to an existing row of t.
func NewRow(t Table, number int) *Row {
	return &Row{table: t, number: number}
}

// NewDetachedRow creates an empty staging row for t.
func NewDetachedRow(t Table) *Row {
	return &Row{table: t, number: -1}
}

// Table returns the owning table.
func (r *Row) Table() Table {
	return r.table
}

// Number returns the row number, or -1 while detached.
func (r *Row) Number() int {
	return r.number
}

func (r *Row) IsAttached() bool {
	return r.number >= 0
}

// Attach binds a staged row to the number it was stored under. From then
// on the row is read-only.
func (r *Row) Attach(number int) {
	r.number = number
}

func (r *Row) columnCount() int {
	return r.table.TableInfo().ColumnCount()
}

func (r *Row) ensureCache() {
	if r.values == nil {
		n := r.columnCount()
		r.values = make([]interface{}, n)
		r.set = make([]bool, n)
	}
}

func (r *Row) load(ctx context.Context) error {
	n := r.columnCount()
	values := make([]interface{}, n)
	for c := range n {
		v, err := r.table.GetValue(ctx, r.number, c)
		if err != nil {
			return fmt.Errorf("loading row %d of %s: %w", r.number, tableName(r.table), err)
		}
		values[c] = v
	}
	r.values = values
	r.set = make([]bool, n)
	for c := range r.set {
		r.set[c] = true
	}
	return nil
}

// GetValue returns the value of column. Unset columns of a detached row
// read as NULL.
func (r *Row) GetValue(ctx context.Context, column int) (interface{}, error) {
	if err := checkColumn(r.table, column); err != nil {
		return nil, err
	}
	if r.IsAttached() && r.values == nil {
		if err := r.load(ctx); err != nil {
			return nil, err
		}
	}
	if r.values == nil {
		return nil, nil
	}
	return r.values[column], nil
}

// GetValueByName resolves a (possibly qualified) column name first.
func (r *Row) GetValueByName(ctx context.Context, name string) (interface{}, error) {
	column, err := ResolveColumn(r.table, name)
	if err != nil {
		return nil, err
	}
	return r.GetValue(ctx, column)
}

// IsSet reports whether a detached row has a staged value for column.
func (r *Row) IsSet(column int) bool {
	return r.set != nil && column >= 0 && column < len(r.set) && r.set[column]
}

// SetValue stages a value, cast to the column's type.
func (r *Row) SetValue(column int, value interface{}) error {
	if r.IsAttached() {
		return &dberrors.InvalidStateError{
			Object:    fmt.Sprintf("row %d of %s", r.number, tableName(r.table)),
			Operation: "set value on",
			Reason:    "row is attached to its table",
		}
	}
	col, err := r.table.TableInfo().Column(column)
	if err != nil {
		return err
	}
	v, err := data.Cast(value, col.Type)
	if err != nil {
		return fmt.Errorf("column %s: %w", col.Name, err)
	}

	r.ensureCache()
	r.values[column] = v
	r.set[column] = true
	return nil
}

// SetValueByName resolves the column name and stages the value.
func (r *Row) SetValueByName(name string, value interface{}) error {
	column, err := ResolveColumn(r.table, name)
	if err != nil {
		return err
	}
	return r.SetValue(column, value)
}

// SetDefault stages the column default. Columns without a default get
// NULL; evaluating a default requires a reducer.
func (r *Row) SetDefault(ctx context.Context, column int, reducer ExpressionReducer) error {
	col, err := r.table.TableInfo().Column(column)
	if err != nil {
		return err
	}
	if !col.HasDefault() {
		return r.SetValue(column, nil)
	}
	if reducer == nil {
		return &dberrors.InvalidStateError{
			Object:    "column " + col.Name,
			Operation: "evaluate default of",
			Reason:    "no expression reducer available",
		}
	}
	v, err := reducer.Reduce(ctx, col.DefaultExpression, col.Type)
	if err != nil {
		return fmt.Errorf("default of column %s: %w", col.Name, err)
	}
	return r.SetValue(column, v)
}

// SetDefaults stages defaults for every column not set yet.
func (r *Row) SetDefaults(ctx context.Context, reducer ExpressionReducer) error {
	for c := range r.columnCount() {
		if r.IsSet(c) {
			continue
		}
		if err := r.SetDefault(ctx, c, reducer); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the staged or loaded values.
func (r *Row) Values(ctx context.Context) ([]interface{}, error) {
	if r.IsAttached() && r.values == nil {
		if err := r.load(ctx); err != nil {
			return nil, err
		}
	}
	out := make([]interface{}, r.columnCount())
	copy(out, r.values)
	return out, nil
}

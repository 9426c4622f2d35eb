package schema

import (
	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
)

// TableInfo is the ordered, name-unique column list of a table.
//
// Aliased and read-only variants are derived copies: they share column
// types and defaults with the original but own their ColumnInfo values,
// so deriving never mutates the source.
type TableInfo struct {
	Name       ObjectName
	columns    []*ColumnInfo
	readOnly   bool
	ignoreCase bool
}

// Option configures a TableInfo.
type Option func(*TableInfo)

// WithIgnoreCase makes column resolution case-insensitive.
func WithIgnoreCase(ignore bool) Option {
	return func(t *TableInfo) {
		t.ignoreCase = ignore
	}
}

// NewTableInfo creates an empty, mutable schema.
func NewTableInfo(name ObjectName, opts ...Option) *TableInfo {
	t := &TableInfo{Name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewColumn creates a column and attaches it to the table.
func (t *TableInfo) NewColumn(name string, typ ColumnType) (*ColumnInfo, error) {
	col := NewColumn(name, typ)
	if err := t.AddColumn(col); err != nil {
		return nil, err
	}
	return col, nil
}

// AddColumn attaches a detached column. The back-reference is set exactly
// once; adding a column that already belongs to a table fails.
func (t *TableInfo) AddColumn(col *ColumnInfo) error {
	if t.readOnly {
		return &dberrors.InvalidStateError{Object: "table " + t.Name.FullName(), Operation: "add column to", Reason: "schema is read-only"}
	}
	if col.tableInfo != nil {
		return &dberrors.InvalidStateError{Object: "column " + col.Name, Operation: "attach", Reason: "column already belongs to " + col.tableInfo.Name.FullName()}
	}
	if !col.Type.Valid() {
		return &dberrors.InvalidStateError{Object: "column " + col.Name, Operation: "attach", Reason: "unknown type " + string(col.Type)}
	}
	if t.IndexOfColumn(col.Name) >= 0 {
		return &dberrors.DuplicateColumnError{TableName: t.Name.FullName(), ColumnName: col.Name}
	}

	col.tableInfo = t
	t.columns = append(t.columns, col)
	return nil
}

// RemoveColumn detaches the named column.
func (t *TableInfo) RemoveColumn(name string) error {
	if t.readOnly {
		return &dberrors.InvalidStateError{Object: "table " + t.Name.FullName(), Operation: "remove column from", Reason: "schema is read-only"}
	}
	i := t.IndexOfColumn(name)
	if i < 0 {
		return &dberrors.ColumnNotFoundError{TableName: t.Name.FullName(), ColumnName: name}
	}

	col := t.columns[i]
	t.columns = append(t.columns[:i], t.columns[i+1:]...)
	col.tableInfo = nil
	return nil
}

func (t *TableInfo) ColumnCount() int {
	return len(t.columns)
}

// Column returns the column at offset i.
func (t *TableInfo) Column(i int) (*ColumnInfo, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, dberrors.NewColumnRange(t.Name.FullName(), i, len(t.columns))
	}
	return t.columns[i], nil
}

// Columns returns a copy of the column list.
func (t *TableInfo) Columns() []*ColumnInfo {
	out := make([]*ColumnInfo, len(t.columns))
	copy(out, t.columns)
	return out
}

// IndexOfColumn returns the offset of the named column or -1.
func (t *TableInfo) IndexOfColumn(name string) int {
	for i, col := range t.columns {
		if identEqual(col.Name, name, t.ignoreCase) {
			return i
		}
	}
	return -1
}

// ColumnName returns the fully-qualified name of column i.
func (t *TableInfo) ColumnName(i int) (ObjectName, error) {
	col, err := t.Column(i)
	if err != nil {
		return ObjectName{}, err
	}
	return col.FullName(), nil
}

// ResolveColumn resolves a column reference. A qualified reference must
// name this table (or, for merged join schemas, the column's source
// table); the column name is matched afterwards.
func (t *TableInfo) ResolveColumn(ref ObjectName) (int, error) {
	found := -1
	var tables []string

	for i, col := range t.columns {
		if !identEqual(col.Name, ref.Name, t.ignoreCase) {
			continue
		}
		owner := col.origin
		if owner == nil {
			owner = t
		}
		if ref.IsQualified() && !owner.Name.Matches(ref.Parent, t.ignoreCase) {
			continue
		}
		if found >= 0 {
			tables = append(tables, owner.Name.FullName())
			continue
		}
		found = i
		tables = append(tables, owner.Name.FullName())
	}

	if found < 0 {
		return -1, &dberrors.ColumnNotFoundError{TableName: t.Name.FullName(), ColumnName: ref.FullName()}
	}
	if len(tables) > 1 {
		return -1, &dberrors.AmbiguousColumnError{ColumnName: ref.FullName(), Tables: tables}
	}
	return found, nil
}

// Alias derives a read-only copy of the schema under a new name. Column
// qualification follows the new name only.
func (t *TableInfo) Alias(name ObjectName) *TableInfo {
	alias := &TableInfo{Name: name, readOnly: true, ignoreCase: t.ignoreCase}
	alias.columns = make([]*ColumnInfo, len(t.columns))
	for i, col := range t.columns {
		c := col.copyFor(alias)
		c.origin = nil
		alias.columns[i] = c
	}
	return alias
}

// AsReadOnly derives a read-only copy with the same name.
func (t *TableInfo) AsReadOnly() *TableInfo {
	if t.readOnly {
		return t
	}
	ro := &TableInfo{Name: t.Name, readOnly: true, ignoreCase: t.ignoreCase}
	ro.columns = make([]*ColumnInfo, len(t.columns))
	for i, col := range t.columns {
		ro.columns[i] = col.copyFor(ro)
	}
	return ro
}

func (t *TableInfo) IsReadOnly() bool {
	return t.readOnly
}

func (t *TableInfo) IgnoreCase() bool {
	return t.ignoreCase
}

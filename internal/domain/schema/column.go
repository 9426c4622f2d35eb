package schema

type ColumnType string

const (
	ColumnTypeInt     ColumnType = "INT"
	ColumnTypeFloat   ColumnType = "FLOAT"
	ColumnTypeDecimal ColumnType = "DECIMAL"
	ColumnTypeText    ColumnType = "TEXT"
	ColumnTypeBool    ColumnType = "BOOL"
	ColumnTypeDate    ColumnType = "DATE"
	ColumnTypeTime    ColumnType = "TIME"
	ColumnTypeEmail   ColumnType = "EMAIL"
	ColumnTypeNull    ColumnType = "NULL"
)

// Valid reports whether t is one of the known column types.
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnTypeInt, ColumnTypeFloat, ColumnTypeDecimal, ColumnTypeText,
		ColumnTypeBool, ColumnTypeDate, ColumnTypeTime, ColumnTypeEmail, ColumnTypeNull:
		return true
	}
	return false
}

// ColumnInfo describes a single column. A column is created detached and
// becomes attached when added to a TableInfo.
type ColumnInfo struct {
	Name    string
	Type    ColumnType
	NotNull bool

	// DefaultExpression is opaque to this layer; it is handed to an
	// expression reducer when a row asks for the column default.
	DefaultExpression interface{}

	tableInfo *TableInfo
	origin    *TableInfo // source table for columns of a merged join schema
}

// NewColumn creates a detached column.
func NewColumn(name string, typ ColumnType) *ColumnInfo {
	return &ColumnInfo{Name: name, Type: typ}
}

// TableInfo returns the owning table, or nil while detached.
func (c *ColumnInfo) TableInfo() *TableInfo {
	return c.tableInfo
}

// IsAttached reports whether the column belongs to a table.
func (c *ColumnInfo) IsAttached() bool {
	return c.tableInfo != nil
}

// HasDefault reports whether a default expression is set.
func (c *ColumnInfo) HasDefault() bool {
	return c.DefaultExpression != nil
}

// FullName returns the column name qualified by the table it came from.
func (c *ColumnInfo) FullName() ObjectName {
	src := c.origin
	if src == nil {
		src = c.tableInfo
	}
	if src == nil {
		return ObjectName{Name: c.Name}
	}
	return src.Name.Child(c.Name)
}

// copyFor clones the column metadata for another owner. Type and default
// are shared with the original.
func (c *ColumnInfo) copyFor(owner *TableInfo) *ColumnInfo {
	return &ColumnInfo{
		Name:              c.Name,
		Type:              c.Type,
		NotNull:           c.NotNull,
		DefaultExpression: c.DefaultExpression,
		tableInfo:         owner,
		origin:            c.origin,
	}
}

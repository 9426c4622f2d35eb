package schema

import (
	"strings"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
)

// JoinedTableInfo concatenates the schemas of N tables and maps a global
// column offset back to (table, local column) in constant time.
type JoinedTableInfo struct {
	infos   []*TableInfo
	starts  []int // first global column of each table
	owner   []int // table index of each global column
	merged  *TableInfo
	columns int
}

// NewJoinedTableInfo merges the given schemas in order.
func NewJoinedTableInfo(name ObjectName, infos ...*TableInfo) *JoinedTableInfo {
	j := &JoinedTableInfo{
		infos:  infos,
		starts: make([]int, len(infos)),
	}

	ignoreCase := false
	for i, info := range infos {
		j.starts[i] = j.columns
		j.columns += info.ColumnCount()
		ignoreCase = ignoreCase || info.IgnoreCase()
	}

	// Column names are unique per source table only, so the merged schema
	// is assembled directly rather than through AddColumn.
	j.merged = &TableInfo{Name: name, readOnly: true, ignoreCase: ignoreCase}
	j.owner = make([]int, 0, j.columns)
	for i, info := range infos {
		for _, col := range info.columns {
			c := col.copyFor(j.merged)
			if c.origin == nil {
				c.origin = info
			}
			j.merged.columns = append(j.merged.columns, c)
			j.owner = append(j.owner, i)
		}
	}
	return j
}

// Offsets returns the owning table index and local column for a global
// column offset.
func (j *JoinedTableInfo) Offsets(column int) (int, int, error) {
	if column < 0 || column >= j.columns {
		return -1, -1, dberrors.NewColumnRange(j.merged.Name.FullName(), column, j.columns)
	}
	t := j.owner[column]
	return t, column - j.starts[t], nil
}

// ColumnName returns the qualified name of a global column.
func (j *JoinedTableInfo) ColumnName(column int) (ObjectName, error) {
	return j.merged.ColumnName(column)
}

// TableInfo returns the merged, read-only schema.
func (j *JoinedTableInfo) TableInfo() *TableInfo {
	return j.merged
}

// TableCount returns the number of merged schemas.
func (j *JoinedTableInfo) TableCount() int {
	return len(j.infos)
}

// Table returns the i-th source schema.
func (j *JoinedTableInfo) Table(i int) *TableInfo {
	return j.infos[i]
}

// ColumnCount returns the total number of columns.
func (j *JoinedTableInfo) ColumnCount() int {
	return j.columns
}

// MergedName joins table names into a display name like "a*b".
func MergedName(infos ...*TableInfo) ObjectName {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name.FullName()
	}
	return ObjectName{Name: strings.Join(names, "*")}
}

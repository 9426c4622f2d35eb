package table

import (
	"log/slog"
)

// TableBase is the skeleton shared by all virtual tables: the identity
// used for ancestor comparisons and one lazily populated index slot per
// column.
//
// The slots are per instance and populated on first use; they are never
// invalidated, so a composition must be rebuilt if the underlying data
// changes. Concurrent population is not safe.
type TableBase struct {
	self    Table
	indexes []ColumnIndex
}

func newTableBase(self Table, columns int) TableBase {
	return TableBase{self: self, indexes: make([]ColumnIndex, columns)}
}

// isSelf compares by identity, never by schema content.
func (b *TableBase) isSelf(t Table) bool {
	return t == b.self
}

func (b *TableBase) cachedIndex(column int) ColumnIndex {
	return b.indexes[column]
}

func (b *TableBase) cacheIndex(column int, idx ColumnIndex) {
	b.indexes[column] = idx
}

// projectIndex returns idx as seen from target: unchanged when target is
// this table, otherwise a subset rebased onto target's numbering.
func (b *TableBase) projectIndex(idx ColumnIndex, target Table, originalColumn int) (ColumnIndex, error) {
	if b.isSelf(target) {
		return idx, nil
	}
	slog.Debug("deriving index subset",
		slog.String("table", tableName(b.self)),
		slog.String("target", tableName(target)),
		slog.Int("column", originalColumn))
	return idx.Subset(target, originalColumn)
}

package table

import (
	"context"
	"slices"

	"github.com/leengari/table-algebra/internal/domain/schema"
)

// filterBase passes everything through to a single parent without
// renumbering rows.
type filterBase struct {
	TableBase
	parent Table
	root   bool
}

func newFilterBase(self, parent Table, root bool) filterBase {
	return filterBase{
		TableBase: newTableBase(self, parent.TableInfo().ColumnCount()),
		parent:    parent,
		root:      root,
	}
}

// Parent returns the wrapped table.
func (f *filterBase) Parent() Table {
	return f.parent
}

func (f *filterBase) TableInfo() *schema.TableInfo {
	return f.parent.TableInfo()
}

func (f *filterBase) RowCount() int {
	return f.parent.RowCount()
}

func (f *filterBase) GetValue(ctx context.Context, row, column int) (interface{}, error) {
	return f.parent.GetValue(ctx, row, column)
}

func (f *filterBase) Enumerate() RowEnumerator {
	return f.parent.Enumerate()
}

func (f *filterBase) IsRoot() bool {
	return f.root
}

func (f *filterBase) ResolveRows(column int, rows []int, ancestor Table) ([]int, error) {
	if f.isSelf(ancestor) || ancestor == f.parent {
		return slices.Clone(rows), nil
	}
	parent, err := asComposable(f.parent, "filter resolve rows")
	if err != nil {
		return nil, err
	}
	return parent.ResolveRows(column, rows, ancestor)
}

func (f *filterBase) CollectRawTableInfo(acc *RawTableInfo, rows []int) error {
	if f.root {
		acc.Add(f.self.(Composable), rows)
		return nil
	}
	parent, err := asComposable(f.parent, "filter raw table info")
	if err != nil {
		return err
	}
	if parent.IsRoot() {
		acc.Add(parent, rows)
		return nil
	}
	return parent.CollectRawTableInfo(acc, rows)
}

// GetColumnIndex keeps one cached index per column. Without a cached
// index the request goes to the parent; when the request is for this
// table itself the parent is asked for its own index (rows are not
// renumbered here) and the result is cached. A cached index answering a
// request for another table is projected instead of re-fetched.
func (f *filterBase) GetColumnIndex(ctx context.Context, column, originalColumn int, target Table) (ColumnIndex, error) {
	if err := checkColumn(f.self, column); err != nil {
		return nil, err
	}

	if idx := f.cachedIndex(column); idx != nil {
		return f.projectIndex(idx, target, originalColumn)
	}

	ask := target
	if f.isSelf(target) {
		ask = f.parent
	}
	idx, err := f.parent.GetColumnIndex(ctx, column, originalColumn, ask)
	if err != nil {
		return nil, err
	}
	if f.isSelf(target) {
		f.cacheIndex(column, idx)
	}
	return idx, nil
}

// FilterTable wraps one parent unchanged. It serves as a controlled
// recursion boundary with its own index cache.
type FilterTable struct {
	filterBase
}

var _ Composable = (*FilterTable)(nil)

func NewFilterTable(parent Table) *FilterTable {
	f := &FilterTable{}
	f.filterBase = newFilterBase(f, parent, false)
	return f
}

// AliasedTable renames its parent and acts as a root: compositions built
// on top address it by its new name and do not reach through it when
// collecting root tables.
type AliasedTable struct {
	filterBase
	info *schema.TableInfo
}

var _ Composable = (*AliasedTable)(nil)

// NewAliasedTable exposes parent under name.
func NewAliasedTable(parent Table, name schema.ObjectName) *AliasedTable {
	a := &AliasedTable{info: parent.TableInfo().Alias(name)}
	a.filterBase = newFilterBase(a, parent, true)
	return a
}

func (a *AliasedTable) TableInfo() *schema.TableInfo {
	return a.info
}

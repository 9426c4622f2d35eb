package manager

import (
	"context"
	"slices"
	"strings"

	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/domain/transaction"
	"github.com/leengari/table-algebra/internal/storage"
	"github.com/leengari/table-algebra/internal/table"
)

// DynamicTableProvider serves tables that are not backed by storage.
// Providers are asked before the transaction's visible tables.
type DynamicTableProvider interface {
	ContainsTable(name schema.ObjectName, ignoreCase bool) bool
	GetTable(ctx context.Context, name schema.ObjectName) (table.Composable, error)
	TableNames() []schema.ObjectName
}

// SystemSchema qualifies the tables of SystemTablesProvider.
const SystemSchema = "sys"

var (
	SysTables  = schema.ObjectName{Parent: SystemSchema, Name: "tables"}
	SysColumns = schema.ObjectName{Parent: SystemSchema, Name: "columns"}
)

// SystemTablesProvider describes the visible tables of a transaction:
// sys.tables lists them and sys.columns lists their columns. Tables are
// built on request from the current schemas.
type SystemTablesProvider struct {
	visible transaction.VisibleTables
}

var _ DynamicTableProvider = (*SystemTablesProvider)(nil)

func NewSystemTablesProvider(visible transaction.VisibleTables) *SystemTablesProvider {
	return &SystemTablesProvider{visible: visible}
}

func (p *SystemTablesProvider) ContainsTable(name schema.ObjectName, ignoreCase bool) bool {
	for _, n := range p.TableNames() {
		if n.Equals(name, ignoreCase) {
			return true
		}
	}
	return false
}

func (p *SystemTablesProvider) TableNames() []schema.ObjectName {
	return []schema.ObjectName{SysColumns, SysTables}
}

func (p *SystemTablesProvider) GetTable(ctx context.Context, name schema.ObjectName) (table.Composable, error) {
	if strings.EqualFold(name.Name, SysColumns.Name) {
		return p.columnsTable(ctx)
	}
	return p.tablesTable(ctx)
}

func (p *SystemTablesProvider) tablesTable(ctx context.Context) (table.Composable, error) {
	info := schema.NewTableInfo(SysTables)
	for _, c := range []struct {
		name string
		typ  schema.ColumnType
	}{
		{"schema", schema.ColumnTypeText},
		{"name", schema.ColumnTypeText},
		{"column_count", schema.ColumnTypeInt},
	} {
		if _, err := info.NewColumn(c.name, c.typ); err != nil {
			return nil, err
		}
	}

	t := storage.NewMemoryTable(info)
	for _, name := range p.visible.TableNames() {
		src, ok := p.visible.GetTableSource(name)
		if !ok {
			continue
		}
		if _, err := t.Insert(ctx, name.Parent, name.Name, src.TableInfo().ColumnCount()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (p *SystemTablesProvider) columnsTable(ctx context.Context) (table.Composable, error) {
	info := schema.NewTableInfo(SysColumns)
	for _, c := range []struct {
		name string
		typ  schema.ColumnType
	}{
		{"table_name", schema.ColumnTypeText},
		{"name", schema.ColumnTypeText},
		{"type", schema.ColumnTypeText},
		{"position", schema.ColumnTypeInt},
		{"not_null", schema.ColumnTypeBool},
	} {
		if _, err := info.NewColumn(c.name, c.typ); err != nil {
			return nil, err
		}
	}

	t := storage.NewMemoryTable(info)
	for _, name := range p.visible.TableNames() {
		src, ok := p.visible.GetTableSource(name)
		if !ok {
			continue
		}
		for i, col := range src.TableInfo().Columns() {
			if _, err := t.Insert(ctx, name.FullName(), col.Name, string(col.Type), i, col.NotNull); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func sortNames(names []schema.ObjectName) {
	slices.SortFunc(names, func(a, b schema.ObjectName) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
}

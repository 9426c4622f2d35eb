// Package manager resolves table names for one transaction, serving
// dynamic tables from providers and physical tables from the
// transaction's visible-table set.
package manager

import (
	"context"
	"log/slog"
	"strings"
	"time"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/domain/transaction"
	"github.com/leengari/table-algebra/internal/table"
)

// TableManager is the transaction-facing table boundary. Tables it hands
// out are cached for the rest of the transaction so every lookup of a
// name yields the same root, which keeps identity-based row resolution
// consistent within a query.
type TableManager struct {
	tx         *transaction.Transaction
	providers  []DynamicTableProvider
	cache      map[string]table.Composable
	observers  []Observer
	ignoreCase bool
	logger     *slog.Logger
}

// Option configures a TableManager.
type Option func(*TableManager)

// WithProvider adds a dynamic table provider. Providers are consulted in
// the order they were added.
func WithProvider(p DynamicTableProvider) Option {
	return func(m *TableManager) {
		m.providers = append(m.providers, p)
	}
}

// WithIgnoreCase makes table name lookup case-insensitive.
func WithIgnoreCase(ignore bool) Option {
	return func(m *TableManager) {
		m.ignoreCase = ignore
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *TableManager) {
		m.logger = logger
	}
}

// New creates a manager for tx.
func New(tx *transaction.Transaction, opts ...Option) *TableManager {
	m := &TableManager{
		tx:     tx,
		cache:  make(map[string]table.Composable),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transaction returns the transaction the manager is bound to.
func (m *TableManager) Transaction() *transaction.Transaction {
	return m.tx
}

func (m *TableManager) key(name schema.ObjectName) string {
	if m.ignoreCase {
		return strings.ToLower(name.FullName())
	}
	return name.FullName()
}

func (m *TableManager) provider(name schema.ObjectName) DynamicTableProvider {
	for _, p := range m.providers {
		if p.ContainsTable(name, m.ignoreCase) {
			return p
		}
	}
	return nil
}

func (m *TableManager) checkActive(op string, name schema.ObjectName) error {
	if m.tx == nil || !m.tx.Active {
		return &dberrors.InvalidStateError{
			Object:    "table " + name.FullName(),
			Operation: op,
			Reason:    "transaction is not active",
		}
	}
	return nil
}

// GetTable resolves name to a table, asking dynamic providers first.
func (m *TableManager) GetTable(ctx context.Context, name schema.ObjectName) (table.Composable, error) {
	if err := m.checkActive("open", name); err != nil {
		return nil, err
	}

	key := m.key(name)
	if t, ok := m.cache[key]; ok {
		m.logger.Debug("table cache hit",
			slog.String("tx_id", m.tx.ID),
			slog.String("table", key))
		return t, nil
	}

	var t table.Composable
	if p := m.provider(name); p != nil {
		dyn, err := p.GetTable(ctx, name)
		if err != nil {
			return nil, dberrors.Wrapf(err, "dynamic table %s", name.FullName())
		}
		t = dyn
	} else {
		src, ok := m.tx.VisibleTables().GetTableSource(name)
		if !ok {
			return nil, &dberrors.TableNotFoundError{TableName: name.FullName()}
		}
		view, err := src.MutableView(m.tx)
		if err != nil {
			return nil, err
		}
		t = view
	}

	m.cache[key] = t
	m.notify(Event{Type: EventTableAccessed, Table: name.FullName(), Data: t.RowCount()})
	return t, nil
}

// GetMutableTable resolves name to a table that accepts row changes.
// Dynamic tables are read-only.
func (m *TableManager) GetMutableTable(ctx context.Context, name schema.ObjectName) (table.MutableTable, error) {
	if m.provider(name) != nil {
		return nil, &dberrors.InvalidStateError{
			Object:    "table " + name.FullName(),
			Operation: "modify",
			Reason:    "dynamic tables are read-only",
		}
	}
	t, err := m.GetTable(ctx, name)
	if err != nil {
		return nil, err
	}
	mt, ok := t.(table.MutableTable)
	if !ok {
		return nil, dberrors.Assertf("table %s (%T) is not mutable", name.FullName(), t)
	}
	return mt, nil
}

// TableExists reports whether name resolves to any table. Without an
// active transaction nothing resolves.
func (m *TableManager) TableExists(name schema.ObjectName) bool {
	if m.checkActive("look up", name) != nil {
		return false
	}
	if m.provider(name) != nil {
		return true
	}
	_, ok := m.tx.VisibleTables().GetTableSource(name)
	return ok
}

// ListTables returns dynamic and visible table names, sorted. It is empty
// once the transaction has ended.
func (m *TableManager) ListTables() []schema.ObjectName {
	if m.tx == nil || !m.tx.Active {
		return nil
	}
	var names []schema.ObjectName
	for _, p := range m.providers {
		names = append(names, p.TableNames()...)
	}
	names = append(names, m.tx.VisibleTables().TableNames()...)
	sortNames(names)
	return names
}

// CreateTable registers a new physical table in the visible-table set.
func (m *TableManager) CreateTable(ctx context.Context, info *schema.TableInfo) error {
	if err := m.checkActive("create", info.Name); err != nil {
		return err
	}
	if m.provider(info.Name) != nil {
		return &dberrors.TableExistsError{TableName: info.Name.FullName()}
	}
	if err := m.tx.VisibleTables().CreateTable(info); err != nil {
		return err
	}

	m.afterDDL(transaction.ChangeTypeCreateTable, EventTableCreated, info.Name, info.ColumnCount())
	return nil
}

// DropTable removes a physical table from the visible-table set.
func (m *TableManager) DropTable(ctx context.Context, name schema.ObjectName) error {
	if err := m.checkActive("drop", name); err != nil {
		return err
	}
	if m.provider(name) != nil {
		return &dberrors.InvalidStateError{
			Object:    "table " + name.FullName(),
			Operation: "drop",
			Reason:    "dynamic tables cannot be dropped",
		}
	}
	if err := m.tx.VisibleTables().DropTable(name); err != nil {
		return err
	}

	m.afterDDL(transaction.ChangeTypeDropTable, EventTableDropped, name, nil)
	return nil
}

// AlterTable replaces the schema of a physical table.
func (m *TableManager) AlterTable(ctx context.Context, info *schema.TableInfo) error {
	if err := m.checkActive("alter", info.Name); err != nil {
		return err
	}
	if m.provider(info.Name) != nil {
		return &dberrors.InvalidStateError{
			Object:    "table " + info.Name.FullName(),
			Operation: "alter",
			Reason:    "dynamic tables cannot be altered",
		}
	}
	if err := m.tx.VisibleTables().AlterTable(info); err != nil {
		return err
	}

	m.afterDDL(transaction.ChangeTypeAlterTable, EventTableAltered, info.Name, info.ColumnCount())
	return nil
}

// afterDDL records the change, drops cached tables that may now be stale
// and notifies observers.
func (m *TableManager) afterDDL(change transaction.ChangeType, event EventType, name schema.ObjectName, data interface{}) {
	m.tx.Record(transaction.Change{Type: change, Table: name.FullName(), RowID: -1})

	delete(m.cache, m.key(name))
	for key, t := range m.cache {
		// Dynamic tables describe the schema and go stale with it.
		if m.provider(t.TableInfo().Name) != nil {
			delete(m.cache, key)
		}
	}

	m.logger.Info("schema changed",
		slog.String("tx_id", m.tx.ID),
		slog.String("change", string(change)),
		slog.String("table", name.FullName()))
	m.notify(Event{Type: event, Table: name.FullName(), Data: data})
}

// AddObserver registers an observer to receive lifecycle events
func (m *TableManager) AddObserver(observer Observer) {
	m.observers = append(m.observers, observer)
}

// RemoveObserver unregisters an observer
func (m *TableManager) RemoveObserver(observer Observer) {
	for i, o := range m.observers {
		if o == observer {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (m *TableManager) notify(event Event) {
	event.TxID = m.tx.ID
	event.Timestamp = time.Now()
	for _, observer := range m.observers {
		observer.OnEvent(event)
	}
}

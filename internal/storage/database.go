package storage

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/domain/transaction"
)

// DefaultLookupCacheSize bounds the case-folded name cache.
const DefaultLookupCacheSize = 256

// Database is the set of physical tables visible to transactions.
type Database struct {
	Name string
	Path string

	mu         sync.RWMutex
	tables     map[string]*MemoryTable // keyed by full table name
	ignoreCase bool
	lookups    *lru.Cache[string, string] // folded name -> key in tables
	logger     *slog.Logger
}

var _ transaction.VisibleTables = (*Database)(nil)

// DatabaseOption configures a Database.
type DatabaseOption func(*Database)

// WithIgnoreIdentifierCase makes table and column names case-insensitive.
func WithIgnoreIdentifierCase(ignore bool) DatabaseOption {
	return func(d *Database) {
		d.ignoreCase = ignore
	}
}

// WithLogger sets the logger used for schema changes.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(d *Database) {
		d.logger = logger
	}
}

// NewDatabase creates an empty database. lookupCacheSize bounds the cache
// of case-insensitive name lookups; zero selects the default.
func NewDatabase(name string, lookupCacheSize int, opts ...DatabaseOption) (*Database, error) {
	if lookupCacheSize <= 0 {
		lookupCacheSize = DefaultLookupCacheSize
	}
	cache, err := lru.New[string, string](lookupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}

	d := &Database{
		Name:    name,
		tables:  make(map[string]*MemoryTable),
		lookups: cache,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// IgnoreCase reports whether identifiers are case-insensitive.
func (d *Database) IgnoreCase() bool {
	return d.ignoreCase
}

// Table returns the physical table with the given name.
func (d *Database) Table(name schema.ObjectName) (*MemoryTable, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lookup(name)
}

func (d *Database) lookup(name schema.ObjectName) (*MemoryTable, bool) {
	key := name.FullName()
	if t, ok := d.tables[key]; ok {
		return t, true
	}
	if !d.ignoreCase {
		return nil, false
	}

	folded := strings.ToLower(key)
	if canonical, ok := d.lookups.Get(folded); ok {
		t, ok := d.tables[canonical]
		return t, ok
	}
	for k, t := range d.tables {
		if strings.EqualFold(k, key) {
			d.lookups.Add(folded, k)
			return t, true
		}
	}
	return nil, false
}

func (d *Database) GetTableSource(name schema.ObjectName) (transaction.TableSource, bool) {
	t, ok := d.Table(name)
	if !ok {
		return nil, false
	}
	return t, true
}

// CreateTable registers an empty table for info.
func (d *Database) CreateTable(info *schema.TableInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.lookup(info.Name); ok {
		return &dberrors.TableExistsError{TableName: info.Name.FullName()}
	}
	d.tables[info.Name.FullName()] = NewMemoryTable(info)

	d.logger.Info("table created",
		slog.String("database", d.Name),
		slog.String("table", info.Name.FullName()),
		slog.Int("columns", info.ColumnCount()))
	return nil
}

// AddTable registers an existing physical table.
func (d *Database) AddTable(t *MemoryTable) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.lookup(t.info.Name); ok {
		return &dberrors.TableExistsError{TableName: t.name()}
	}
	d.tables[t.name()] = t
	return nil
}

func (d *Database) DropTable(name schema.ObjectName) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.lookup(name)
	if !ok {
		return &dberrors.TableNotFoundError{TableName: name.FullName()}
	}
	delete(d.tables, t.name())
	d.lookups.Purge()

	d.logger.Info("table dropped",
		slog.String("database", d.Name),
		slog.String("table", t.name()))
	return nil
}

// AlterTable replaces the schema of an existing table, carrying values
// over by column name.
func (d *Database) AlterTable(info *schema.TableInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.lookup(info.Name)
	if !ok {
		return &dberrors.TableNotFoundError{TableName: info.Name.FullName()}
	}
	old := t.name()
	if err := t.reshape(info); err != nil {
		return err
	}
	if old != info.Name.FullName() {
		delete(d.tables, old)
		d.tables[info.Name.FullName()] = t
		d.lookups.Purge()
	}

	d.logger.Info("table altered",
		slog.String("database", d.Name),
		slog.String("table", info.Name.FullName()),
		slog.Int("columns", info.ColumnCount()))
	return nil
}

// TableNames lists tables sorted by full name.
func (d *Database) TableNames() []schema.ObjectName {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]schema.ObjectName, 0, len(d.tables))
	for _, t := range d.tables {
		names = append(names, t.info.Name)
	}
	slices.SortFunc(names, func(a, b schema.ObjectName) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
	return names
}

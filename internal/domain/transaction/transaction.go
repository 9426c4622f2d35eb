package transaction

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/table"
)

// txIDCounter is an atomic counter for generating numeric transaction IDs
var txIDCounter uint64

// ChangeType represents the type of modification
type ChangeType string

const (
	ChangeTypeInsert      ChangeType = "INSERT"
	ChangeTypeDelete      ChangeType = "DELETE"
	ChangeTypeCreateTable ChangeType = "CREATE_TABLE"
	ChangeTypeDropTable   ChangeType = "DROP_TABLE"
	ChangeTypeAlterTable  ChangeType = "ALTER_TABLE"
)

// Change represents a single modification within a transaction
type Change struct {
	Type  ChangeType
	Table string
	RowID int // -1 for table-level changes
}

// TableSource is a physical table as seen through the visible-table set.
type TableSource interface {
	TableInfo() *schema.TableInfo

	// MutableView returns the table bound to tx. Modifications through the
	// view are recorded on tx.
	MutableView(tx *Transaction) (table.MutableTable, error)
}

// VisibleTables is the registry of physical tables a transaction can see.
type VisibleTables interface {
	GetTableSource(name schema.ObjectName) (TableSource, bool)
	CreateTable(info *schema.TableInfo) error
	DropTable(name schema.ObjectName) error
	AlterTable(info *schema.TableInfo) error
	TableNames() []schema.ObjectName
}

// Transaction represents a database transaction context
type Transaction struct {
	ID        string    // Unique transaction identifier
	TxID      uint64    // Numeric transaction ID
	Active    bool      // Whether transaction is currently active
	StartTime time.Time // When the transaction began
	Changes   []Change  // Modifications made

	visible VisibleTables
}

// New creates a transaction over the given visible-table set.
func New(visible VisibleTables) *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		TxID:      atomic.AddUint64(&txIDCounter, 1),
		Active:    true,
		StartTime: time.Now(),
		Changes:   make([]Change, 0),
		visible:   visible,
	}
}

// VisibleTables returns the tables this transaction can see.
func (tx *Transaction) VisibleTables() VisibleTables {
	return tx.visible
}

// Record appends a change to the transaction log.
func (tx *Transaction) Record(change Change) {
	tx.Changes = append(tx.Changes, change)
}

// Close marks the transaction as inactive
func (tx *Transaction) Close() {
	tx.Active = false
}

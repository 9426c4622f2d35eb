package manager

import (
	"log/slog"
	"time"
)

// EventType represents a table lifecycle change seen by a TableManager.
type EventType string

const (
	EventTableCreated  EventType = "table_created"
	EventTableDropped  EventType = "table_dropped"
	EventTableAltered  EventType = "table_altered"
	EventTableAccessed EventType = "table_accessed"
)

// Event represents a lifecycle event within one transaction
type Event struct {
	Type      EventType   // Type of event
	TxID      string      // Transaction ID for tracing
	Table     string      // Full table name
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Event-specific data (column count, provider, ...)
}

// Observer interface for event subscribers
type Observer interface {
	OnEvent(event Event)
}

// LoggingObserver logs all events using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer. A nil logger selects
// slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	lo.logger.Info("table_lifecycle",
		"event", event.Type,
		"tx_id", event.TxID,
		"table", event.Table,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}

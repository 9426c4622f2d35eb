package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// ColumnNotFoundError reports a column reference that does not resolve
// against a table's schema.
type ColumnNotFoundError struct {
	TableName  string
	ColumnName string
}

func (e *ColumnNotFoundError) Error() string {
	if e.TableName == "" {
		return fmt.Sprintf("column '%s' not found", e.ColumnName)
	}
	return fmt.Sprintf("column '%s' not found in table '%s'", e.ColumnName, e.TableName)
}

// AmbiguousColumnError is returned when an unqualified reference matches
// columns of more than one joined table.
type AmbiguousColumnError struct {
	ColumnName string
	Tables     []string
}

func (e *AmbiguousColumnError) Error() string {
	return fmt.Sprintf("column reference '%s' is ambiguous (%s)", e.ColumnName, strings.Join(e.Tables, ", "))
}

// DuplicateColumnError is returned when adding a column whose name is
// already taken in the same table.
type DuplicateColumnError struct {
	TableName  string
	ColumnName string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column '%s' already exists in table '%s'", e.ColumnName, e.TableName)
}

// RangeError reports a row or column index outside the valid bounds.
// Indexes are never clamped.
type RangeError struct {
	What  string // "row" or "column"
	Table string
	Index int
	Limit int // exclusive upper bound
}

func (e *RangeError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Limit)
	}
	return fmt.Sprintf("%s index %d out of range [0, %d) in table '%s'", e.What, e.Index, e.Limit, e.Table)
}

// NewRowRange builds a RangeError for a row number.
func NewRowRange(table string, row, limit int) *RangeError {
	return &RangeError{What: "row", Table: table, Index: row, Limit: limit}
}

// NewColumnRange builds a RangeError for a column offset.
func NewColumnRange(table string, column, limit int) *RangeError {
	return &RangeError{What: "column", Table: table, Index: column, Limit: limit}
}

// InvalidStateError is returned when an operation is not permitted in the
// current lifecycle state of an object (for example mutating an attached row).
type InvalidStateError struct {
	Object    string
	Operation string
	Reason    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s: %s", e.Operation, e.Object, e.Reason)
}

// CastError reports a value that cannot be converted to a column type.
type CastError struct {
	Value  interface{}
	Target string
	Reason string
}

func (e *CastError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cannot cast %v (%T) to %s", e.Value, e.Value, e.Target)
	}
	return fmt.Sprintf("cannot cast %v (%T) to %s: %s", e.Value, e.Value, e.Target, e.Reason)
}

// TableNotFoundError is returned when a table name resolves to nothing.
type TableNotFoundError struct {
	TableName string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table '%s' does not exist", e.TableName)
}

// TableExistsError is returned when creating a table whose name is taken.
type TableExistsError struct {
	TableName string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table '%s' already exists", e.TableName)
}

// Assertf builds an invariant-violation error. These indicate a malformed
// composition graph and must never be retried.
func Assertf(format string, args ...interface{}) error {
	return crdb.AssertionFailedWithDepthf(1, format, args...)
}

// IsAssertion reports whether err (or anything it wraps) is an invariant
// violation produced by Assertf.
func IsAssertion(err error) bool {
	return crdb.HasAssertionFailure(err)
}

// Wrapf annotates err with context while keeping it matchable by As/Is.
func Wrapf(err error, format string, args ...interface{}) error {
	return crdb.Wrapf(err, format, args...)
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target interface{}) bool {
	return crdb.As(err, target)
}

// Is is errors.Is.
func Is(err, reference error) bool {
	return crdb.Is(err, reference)
}

// ConstraintError represents a violation of a table constraint
// (not null, type mismatch, ...).
type ConstraintError struct {
	Table      string      // table name
	Column     string      // column name (empty if table-level constraint)
	Value      interface{} // offending value (may be nil)
	Constraint string      // "not_null", "type_mismatch", etc.
	Reason     string      // human-readable explanation (optional)
	RowIndex   int         // row number where the violation occurred (-1 if unknown)
}

func (e *ConstraintError) Error() string {
	parts := []string{fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column)}
	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.RowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.RowIndex))
	}
	return strings.Join(parts, " - ")
}

func NewNotNullViolation(table, column string, rowIndex int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Constraint: "not_null",
		Reason:     "missing required value",
		RowIndex:   rowIndex,
	}
}

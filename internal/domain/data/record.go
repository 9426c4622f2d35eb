package data

import (
	"fmt"
	"strings"
)

// Record is a materialized row keyed by qualified column name
// (e.g. "users.id", "orders.product"), with the column order preserved.
type Record struct {
	Columns []string
	Values  map[string]interface{}
}

// NewRecord creates an empty record with room for n columns.
func NewRecord(n int) Record {
	return Record{
		Columns: make([]string, 0, n),
		Values:  make(map[string]interface{}, n),
	}
}

// Get retrieves a value by qualified column name.
func (r Record) Get(qualifiedName string) (interface{}, bool) {
	val, exists := r.Values[qualifiedName]
	return val, exists
}

// Set adds or updates a value. New names are appended to the column order.
func (r *Record) Set(qualifiedName string, value interface{}) {
	if _, exists := r.Values[qualifiedName]; !exists {
		r.Columns = append(r.Columns, qualifiedName)
	}
	r.Values[qualifiedName] = value
}

// Strings renders the values in column order.
func (r Record) Strings() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = Format(r.Values[c])
	}
	return out
}

// String returns a representation for debugging
func (r Record) String() string {
	parts := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		parts[i] = fmt.Sprintf("%s=%s", c, Format(r.Values[c]))
	}
	return "Record{" + strings.Join(parts, ", ") + "}"
}

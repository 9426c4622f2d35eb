package errors

import (
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
)

func TestAssertfIsDetectable(t *testing.T) {
	err := Assertf("bad graph: %d", 3)
	assert.Assert(t, IsAssertion(err))
	assert.ErrorContains(t, err, "bad graph: 3")

	wrapped := fmt.Errorf("executing: %w", err)
	assert.Assert(t, IsAssertion(wrapped))

	assert.Assert(t, !IsAssertion(&RangeError{What: "row", Index: 9, Limit: 2}))
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewRowRange("users", 5, 3), "row index 5 out of range [0, 3) in table 'users'"},
		{NewColumnRange("", -1, 2), "column index -1 out of range [0, 2)"},
		{&ColumnNotFoundError{TableName: "t", ColumnName: "x"}, "column 'x' not found in table 't'"},
		{NewNotNullViolation("users", "name", 2), "constraint violation in users.name - (not_null) - missing required value - at row 2"},
		{&TableNotFoundError{TableName: "ghost"}, "table 'ghost' does not exist"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.err.Error(), tt.want)
	}
}

func TestAsThroughWrap(t *testing.T) {
	err := Wrapf(&InvalidStateError{Object: "row 1", Operation: "set value on", Reason: "attached"}, "context")
	var state *InvalidStateError
	assert.Assert(t, As(err, &state))
	assert.Equal(t, state.Object, "row 1")
}

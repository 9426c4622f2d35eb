package validation

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestValidateDate(t *testing.T) {
	assert.NilError(t, ValidateDate("2024-01-13"))
	assert.ErrorContains(t, ValidateDate("13/01/2024"), "expected YYYY-MM-DD")
}

func TestValidateTimeNormalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"14:30:00", "14:30:00", true},
		{"14:30", "14:30:00", true},
		{"2pm", "", false},
	}
	for _, tt := range tests {
		got, err := ValidateTime(tt.in)
		if !tt.ok {
			assert.Assert(t, err != nil, "input %q", tt.in)
			continue
		}
		assert.NilError(t, err)
		assert.Equal(t, got, tt.want)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NilError(t, ValidateEmail("alice@example.com"))
	for _, bad := range []string{"alice", "a@b@c.com", "@example.com", "alice@example", "alice@.com"} {
		assert.Assert(t, ValidateEmail(bad) != nil, "expected %q to be rejected", bad)
	}
}

package schema

import (
	"testing"

	"gotest.tools/v3/assert"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
)

func usersInfo(t *testing.T, opts ...Option) *TableInfo {
	t.Helper()
	info := NewTableInfo(ParseName("app.users"), opts...)
	_, err := info.NewColumn("id", ColumnTypeInt)
	assert.NilError(t, err)
	_, err = info.NewColumn("name", ColumnTypeText)
	assert.NilError(t, err)
	return info
}

func TestNewColumnRejectsDuplicate(t *testing.T) {
	info := usersInfo(t)

	_, err := info.NewColumn("id", ColumnTypeText)
	var dup *dberrors.DuplicateColumnError
	assert.Assert(t, dberrors.As(err, &dup))
	assert.Equal(t, info.ColumnCount(), 2)
}

func TestColumnAttachDetach(t *testing.T) {
	info := usersInfo(t)
	col := NewColumn("email", ColumnTypeEmail)
	assert.Assert(t, !col.IsAttached())

	assert.NilError(t, info.AddColumn(col))
	assert.Assert(t, col.TableInfo() == info)

	other := NewTableInfo(NewName("other"))
	assert.ErrorContains(t, other.AddColumn(col), "already belongs to app.users")

	assert.NilError(t, info.RemoveColumn("email"))
	assert.Assert(t, !col.IsAttached())
	assert.NilError(t, other.AddColumn(col))
}

func TestResolveColumn(t *testing.T) {
	info := usersInfo(t)

	tests := []struct {
		ref  string
		want int
	}{
		{"name", 1},
		{"users.id", 0},
		{"app.users.id", 0},
	}
	for _, tt := range tests {
		got, err := info.ResolveColumn(ParseName(tt.ref))
		assert.NilError(t, err, tt.ref)
		assert.Equal(t, got, tt.want, tt.ref)
	}

	_, err := info.ResolveColumn(ParseName("orders.id"))
	var notFound *dberrors.ColumnNotFoundError
	assert.Assert(t, dberrors.As(err, &notFound))

	_, err = info.ResolveColumn(ParseName("NAME"))
	assert.Assert(t, err != nil)
}

func TestResolveColumnIgnoreCase(t *testing.T) {
	info := usersInfo(t, WithIgnoreCase(true))

	got, err := info.ResolveColumn(ParseName("USERS.Name"))
	assert.NilError(t, err)
	assert.Equal(t, got, 1)
}

func TestAliasReplacesQualification(t *testing.T) {
	info := NewTableInfo(NewName("T"))
	_, err := info.NewColumn("col1", ColumnTypeInt)
	assert.NilError(t, err)

	alias := info.Alias(NewName("T2"))

	got, err := alias.ResolveColumn(NewName("col1"))
	assert.NilError(t, err)
	assert.Equal(t, got, 0)

	_, err = alias.ResolveColumn(ParseName("T.col1"))
	assert.Assert(t, err != nil)

	_, err = alias.ResolveColumn(ParseName("T2.col1"))
	assert.NilError(t, err)

	// Deriving does not touch the source schema.
	assert.Assert(t, !info.IsReadOnly())
	assert.Assert(t, alias.IsReadOnly())
	src, _ := info.Column(0)
	assert.Assert(t, src.TableInfo() == info)
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	ro := usersInfo(t).AsReadOnly()

	_, err := ro.NewColumn("extra", ColumnTypeText)
	var state *dberrors.InvalidStateError
	assert.Assert(t, dberrors.As(err, &state))
	assert.Assert(t, dberrors.As(ro.RemoveColumn("id"), &state))
}

func TestJoinedTableInfoOffsets(t *testing.T) {
	users := usersInfo(t)
	orders := NewTableInfo(NewName("orders"))
	for _, name := range []string{"id", "user_id", "product"} {
		_, err := orders.NewColumn(name, ColumnTypeText)
		assert.NilError(t, err)
	}

	joined := NewJoinedTableInfo(MergedName(users, orders), users, orders)
	assert.Equal(t, joined.ColumnCount(), 5)

	tbl, col, err := joined.Offsets(3)
	assert.NilError(t, err)
	assert.Equal(t, tbl, 1)
	assert.Equal(t, col, 1)

	name, err := joined.ColumnName(3)
	assert.NilError(t, err)
	assert.Equal(t, name.FullName(), "orders.user_id")

	_, _, err = joined.Offsets(5)
	var rangeErr *dberrors.RangeError
	assert.Assert(t, dberrors.As(err, &rangeErr))

	merged := joined.TableInfo()
	_, err = merged.ResolveColumn(NewName("id"))
	var ambiguous *dberrors.AmbiguousColumnError
	assert.Assert(t, dberrors.As(err, &ambiguous))

	idx, err := merged.ResolveColumn(ParseName("orders.id"))
	assert.NilError(t, err)
	assert.Equal(t, idx, 2)
}

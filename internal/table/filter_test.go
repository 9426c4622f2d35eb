package table_test

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/table"
	"github.com/leengari/table-algebra/internal/table/tabletest"
)

func TestRootIdentityResolve(t *testing.T) {
	a, _ := tabletest.ScenarioA(t)
	rows := []int{1, 0, 1}
	got, err := a.ResolveRows(0, rows, a)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, rows)
}

func TestFilterTransparency(t *testing.T) {
	ctx := context.Background()
	a, _ := tabletest.ScenarioA(t)
	f := table.NewFilterTable(a)

	assert.Equal(t, f.RowCount(), a.RowCount())
	assert.Assert(t, f.TableInfo() == a.TableInfo())
	assert.Assert(t, !f.IsRoot())
	for r := range a.RowCount() {
		for c := range a.TableInfo().ColumnCount() {
			want, err := a.GetValue(ctx, r, c)
			assert.NilError(t, err)
			got, err := f.GetValue(ctx, r, c)
			assert.NilError(t, err)
			assert.Equal(t, got, want)
		}
	}

	rows, err := f.ResolveRows(0, []int{1}, a)
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, []int{1})

	raw, err := table.GetRawTableInfo(f)
	assert.NilError(t, err)
	assert.Equal(t, len(raw.Items()), 1)
	assert.Assert(t, raw.Items()[0].Table == table.Composable(a))
}

func TestFilterIndexCache(t *testing.T) {
	ctx := context.Background()
	a, b := tabletest.ScenarioA(t)
	f := table.NewFilterTable(b)

	idx, err := table.ColumnIndexOf(ctx, f, 0)
	assert.NilError(t, err)
	assert.DeepEqual(t, idx.SelectAll(), []int{0, 1, 2})

	again, err := table.ColumnIndexOf(ctx, f, 0)
	assert.NilError(t, err)
	assert.Assert(t, again == idx)

	// A cached index answering for a table composed on top is rebased.
	cross := table.NewCrossJoinedTable(a, f)
	sub, err := f.GetColumnIndex(ctx, 0, 2, cross)
	assert.NilError(t, err)
	assert.Assert(t, sub.Table() == table.Table(cross))
	assert.DeepEqual(t, sub.SelectAll(), []int{0, 3, 1, 4, 2, 5})

	_, err = f.GetColumnIndex(ctx, 1, 1, f)
	var rangeErr *dberrors.RangeError
	assert.Assert(t, dberrors.As(err, &rangeErr))
}

func TestFilterOverNonComposableParent(t *testing.T) {
	a, _ := tabletest.ScenarioA(t)
	f := table.NewFilterTable(tabletest.Opaque{T: a})

	_, err := f.ResolveRows(0, []int{0}, a)
	assert.Assert(t, dberrors.IsAssertion(err))

	_, err = table.GetRawTableInfo(f)
	assert.Assert(t, dberrors.IsAssertion(err))
}

func TestAliasScenarioC(t *testing.T) {
	tbl := tabletest.NewTable(t, "T", []tabletest.Column{tabletest.Int("col1")}, []interface{}{1})
	alias := table.NewAliasedTable(tbl, schema.NewName("T2"))

	c, err := table.ResolveColumn(alias, "col1")
	assert.NilError(t, err)
	assert.Equal(t, c, 0)

	c, err = table.ResolveColumn(alias, "T2.col1")
	assert.NilError(t, err)
	assert.Equal(t, c, 0)

	_, err = table.ResolveColumn(alias, "T.col1")
	var notFound *dberrors.ColumnNotFoundError
	assert.Assert(t, dberrors.As(err, &notFound))

	// The parent schema is untouched.
	c, err = table.ResolveColumn(tbl, "T.col1")
	assert.NilError(t, err)
	assert.Equal(t, c, 0)
}

func TestAliasIsRoot(t *testing.T) {
	ctx := context.Background()
	a, b := tabletest.ScenarioA(t)
	alias := table.NewAliasedTable(a, schema.NewName("a2"))
	assert.Assert(t, alias.IsRoot())

	cross := table.NewCrossJoinedTable(alias, b)
	raw, err := table.GetRawTableInfo(cross)
	assert.NilError(t, err)

	_, ok := raw.RowsFor(alias)
	assert.Assert(t, ok)
	_, ok = raw.RowsFor(a)
	assert.Assert(t, !ok)

	name, err := cross.TableInfo().ColumnName(1)
	assert.NilError(t, err)
	assert.Equal(t, name.FullName(), "a2.label")

	v, err := cross.GetValue(ctx, 5, 1)
	assert.NilError(t, err)
	assert.Equal(t, v, "y")
}

func TestJoinedColumnResolution(t *testing.T) {
	a := tabletest.NewTable(t, "A", []tabletest.Column{tabletest.Int("id")}, []interface{}{1})
	b := tabletest.NewTable(t, "B", []tabletest.Column{tabletest.Int("id")}, []interface{}{2})
	cross := table.NewCrossJoinedTable(a, b)

	_, err := table.ResolveColumn(cross, "id")
	var ambiguous *dberrors.AmbiguousColumnError
	assert.Assert(t, dberrors.As(err, &ambiguous))

	c, err := table.ResolveColumn(cross, "B.id")
	assert.NilError(t, err)
	assert.Equal(t, c, 1)
}

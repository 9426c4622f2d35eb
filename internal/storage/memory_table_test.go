package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/domain/transaction"
	"github.com/leengari/table-algebra/internal/table"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newUsersTable(t *testing.T) *MemoryTable {
	t.Helper()
	info := schema.NewTableInfo(schema.NewName("users"))
	_, err := info.NewColumn("id", schema.ColumnTypeInt)
	assert.NilError(t, err)
	name, err := info.NewColumn("name", schema.ColumnTypeText)
	assert.NilError(t, err)
	name.NotNull = true
	return NewMemoryTable(info)
}

func insertUsers(t *testing.T, mt *MemoryTable, names ...string) {
	t.Helper()
	for i, n := range names {
		_, err := mt.Insert(context.Background(), i+1, n)
		assert.NilError(t, err)
	}
}

// =============================================================================
// MEMORY TABLE
// =============================================================================

func TestMemoryTableInsertAndRead(t *testing.T) {
	ctx := context.Background()
	mt := newUsersTable(t)
	insertUsers(t, mt, "alice", "bob")

	assert.Equal(t, mt.RowCount(), 2)
	v, err := mt.GetValue(ctx, 1, 1)
	assert.NilError(t, err)
	assert.Equal(t, v, "bob")

	id, err := mt.GetValue(ctx, 0, 0)
	assert.NilError(t, err)
	assert.Equal(t, id, int64(1))

	_, err = mt.GetValue(ctx, 2, 0)
	var rangeErr *dberrors.RangeError
	assert.Assert(t, dberrors.As(err, &rangeErr))
	assert.Equal(t, rangeErr.What, "row")
}

func TestMemoryTableNotNull(t *testing.T) {
	mt := newUsersTable(t)
	_, err := mt.Insert(context.Background(), 1, nil)
	var constraint *dberrors.ConstraintError
	assert.Assert(t, dberrors.As(err, &constraint))
	assert.Equal(t, constraint.Column, "name")
	assert.Equal(t, mt.RowCount(), 0)
}

func TestMemoryTableAddRowAttaches(t *testing.T) {
	ctx := context.Background()
	mt := newUsersTable(t)

	row := table.NewDetachedRow(mt)
	assert.NilError(t, row.SetValueByName("name", "carol"))
	assert.NilError(t, row.SetDefaults(ctx, table.LiteralReducer))

	pos, err := mt.AddRow(ctx, row)
	assert.NilError(t, err)
	assert.Equal(t, pos, 0)
	assert.Assert(t, row.IsAttached())

	_, err = mt.AddRow(ctx, row)
	var stateErr *dberrors.InvalidStateError
	assert.Assert(t, dberrors.As(err, &stateErr))
}

func TestMemoryTableRemoveKeepsNumbers(t *testing.T) {
	ctx := context.Background()
	mt := newUsersTable(t)
	insertUsers(t, mt, "a", "b", "c")

	assert.NilError(t, mt.RemoveRow(ctx, 1))
	assert.Equal(t, mt.RowCount(), 2)
	assert.DeepEqual(t, table.AllRows(mt), []int{0, 2})

	v, err := mt.GetValue(ctx, 2, 1)
	assert.NilError(t, err)
	assert.Equal(t, v, "c")

	_, err = mt.GetValue(ctx, 1, 1)
	assert.ErrorContains(t, err, "out of range")
	assert.ErrorContains(t, mt.RemoveRow(ctx, 1), "out of range")
}

func TestMemoryTableIndexMaintained(t *testing.T) {
	ctx := context.Background()
	mt := newUsersTable(t)
	insertUsers(t, mt, "carol", "alice", "bob")

	idx, err := table.ColumnIndexOf(ctx, mt, 1)
	assert.NilError(t, err)
	assert.DeepEqual(t, idx.SelectAll(), []int{1, 2, 0})

	_, err = mt.Insert(ctx, 4, "aaron")
	assert.NilError(t, err)
	assert.DeepEqual(t, idx.SelectAll(), []int{3, 1, 2, 0})

	assert.NilError(t, mt.RemoveRow(ctx, 1))
	assert.DeepEqual(t, idx.SelectAll(), []int{3, 2, 0})

	rows, err := idx.SelectEqual(ctx, "bob")
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, []int{2})
}

func TestMemoryTableResolveRows(t *testing.T) {
	mt := newUsersTable(t)
	insertUsers(t, mt, "a", "b")

	rows, err := mt.ResolveRows(0, []int{1, 0}, mt)
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, []int{1, 0})

	other := newUsersTable(t)
	_, err = mt.ResolveRows(0, []int{0}, other)
	assert.Assert(t, dberrors.IsAssertion(err))
}

func TestMemoryTableRawTableInfo(t *testing.T) {
	mt := newUsersTable(t)
	insertUsers(t, mt, "a", "b")

	raw, err := table.GetRawTableInfo(mt)
	assert.NilError(t, err)
	assert.Equal(t, len(raw.Items()), 1)
	assert.Assert(t, raw.Items()[0].Table == table.Composable(mt))
	assert.DeepEqual(t, raw.Items()[0].Rows, []int{0, 1})
}

// =============================================================================
// TRANSACTION VIEW
// =============================================================================

func TestViewRecordsChanges(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase("test", 0)
	assert.NilError(t, err)
	mt := newUsersTable(t)
	assert.NilError(t, db.AddTable(mt))

	tx := transaction.New(db)
	view, err := mt.MutableView(tx)
	assert.NilError(t, err)

	row := table.NewDetachedRow(view)
	assert.NilError(t, row.SetValue(0, 7))
	assert.NilError(t, row.SetValue(1, "dave"))
	pos, err := view.AddRow(ctx, row)
	assert.NilError(t, err)
	assert.NilError(t, view.RemoveRow(ctx, pos))

	assert.Equal(t, len(tx.Changes), 2)
	assert.Equal(t, tx.Changes[0].Type, transaction.ChangeTypeInsert)
	assert.Equal(t, tx.Changes[1].Type, transaction.ChangeTypeDelete)
	assert.Equal(t, tx.Changes[1].Table, "users")

	tx.Close()
	_, err = view.AddRow(ctx, table.NewDetachedRow(view))
	var stateErr *dberrors.InvalidStateError
	assert.Assert(t, dberrors.As(err, &stateErr))

	_, err = mt.MutableView(tx)
	assert.Assert(t, dberrors.As(err, &stateErr))
}

func TestViewResolvesIntoBase(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase("test", 0)
	assert.NilError(t, err)
	mt := newUsersTable(t)
	insertUsers(t, mt, "b", "a")
	assert.NilError(t, db.AddTable(mt))

	view, err := mt.MutableView(transaction.New(db))
	assert.NilError(t, err)

	rows, err := view.ResolveRows(0, []int{0, 1}, mt)
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, []int{0, 1})

	idx, err := table.ColumnIndexOf(ctx, view, 1)
	assert.NilError(t, err)
	assert.DeepEqual(t, idx.SelectAll(), []int{1, 0})
}

func TestViewSharesBaseIndex(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase("test", 0)
	assert.NilError(t, err)
	mt := newUsersTable(t)
	insertUsers(t, mt, "c", "a", "b")
	assert.NilError(t, db.AddTable(mt))

	view, err := mt.MutableView(transaction.New(db))
	assert.NilError(t, err)

	base, err := table.ColumnIndexOf(ctx, mt, 1)
	assert.NilError(t, err)
	fromView, err := table.ColumnIndexOf(ctx, view, 1)
	assert.NilError(t, err)
	assert.Assert(t, fromView == base)

	asBase, err := view.GetColumnIndex(ctx, 1, 1, mt)
	assert.NilError(t, err)
	assert.Assert(t, asBase == base)

	// inserts through the view keep the shared index current
	row := table.NewDetachedRow(view)
	assert.NilError(t, row.SetValue(0, 4))
	assert.NilError(t, row.SetValue(1, "aa"))
	_, err = view.AddRow(ctx, row)
	assert.NilError(t, err)
	assert.DeepEqual(t, fromView.SelectAll(), []int{1, 3, 2, 0})
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestMemoryTableAlterDuringInsert(t *testing.T) {
	ctx := context.Background()
	mt := newUsersTable(t)
	insertUsers(t, mt, "a", "b")

	_, err := table.ColumnIndexOf(ctx, mt, 0)
	assert.NilError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, err := mt.Insert(ctx, i, "x"); err != nil {
				errs <- err
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			info := mt.TableInfo()
			if err := mt.reshape(info); err != nil {
				errs <- err
			}
			if _, err := table.ColumnIndexOf(ctx, mt, 0); err != nil {
				errs <- err
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("insert and alter did not finish")
	}
	close(errs)
	for err := range errs {
		assert.NilError(t, err)
	}
	assert.Equal(t, mt.RowCount(), 102)
}

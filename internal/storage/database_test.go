package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
)

func TestDatabaseCreateDrop(t *testing.T) {
	db, err := NewDatabase("test", 0)
	assert.NilError(t, err)

	info := schema.NewTableInfo(schema.NewName("orders"))
	_, err = info.NewColumn("id", schema.ColumnTypeInt)
	assert.NilError(t, err)

	assert.NilError(t, db.CreateTable(info))
	err = db.CreateTable(info)
	var exists *dberrors.TableExistsError
	assert.Assert(t, dberrors.As(err, &exists))

	_, ok := db.GetTableSource(schema.NewName("orders"))
	assert.Assert(t, ok)
	_, ok = db.GetTableSource(schema.NewName("ORDERS"))
	assert.Assert(t, !ok)

	assert.NilError(t, db.DropTable(schema.NewName("orders")))
	var missing *dberrors.TableNotFoundError
	assert.Assert(t, dberrors.As(db.DropTable(schema.NewName("orders")), &missing))
}

func TestDatabaseIgnoreCaseLookup(t *testing.T) {
	db, err := NewDatabase("test", 4, WithIgnoreIdentifierCase(true))
	assert.NilError(t, err)
	assert.NilError(t, db.CreateTable(schema.NewTableInfo(schema.ParseName("app.Users"))))

	for _, n := range []string{"app.users", "APP.USERS", "app.Users"} {
		tbl, ok := db.Table(schema.ParseName(n))
		assert.Assert(t, ok, n)
		assert.Equal(t, tbl.TableInfo().Name.FullName(), "app.Users")
	}

	err = db.CreateTable(schema.NewTableInfo(schema.ParseName("APP.users")))
	var exists *dberrors.TableExistsError
	assert.Assert(t, dberrors.As(err, &exists))

	assert.NilError(t, db.DropTable(schema.ParseName("app.USERS")))
	_, ok := db.Table(schema.ParseName("app.users"))
	assert.Assert(t, !ok)
}

func TestDatabaseAlterTable(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase("test", 0)
	assert.NilError(t, err)
	mt := newUsersTable(t)
	insertUsers(t, mt, "alice", "bob")
	assert.NilError(t, db.AddTable(mt))

	altered := schema.NewTableInfo(schema.NewName("users"))
	_, err = altered.NewColumn("name", schema.ColumnTypeText)
	assert.NilError(t, err)
	_, err = altered.NewColumn("age", schema.ColumnTypeInt)
	assert.NilError(t, err)
	assert.NilError(t, db.AlterTable(altered))

	assert.Equal(t, mt.TableInfo().ColumnCount(), 2)
	v, err := mt.GetValue(ctx, 1, 0)
	assert.NilError(t, err)
	assert.Equal(t, v, "bob")
	age, err := mt.GetValue(ctx, 1, 1)
	assert.NilError(t, err)
	assert.Assert(t, age == nil)

	strict := schema.NewTableInfo(schema.NewName("users"))
	col, err := strict.NewColumn("email", schema.ColumnTypeEmail)
	assert.NilError(t, err)
	col.NotNull = true
	var constraint *dberrors.ConstraintError
	assert.Assert(t, dberrors.As(db.AlterTable(strict), &constraint))
}

func TestDatabaseTableNamesSorted(t *testing.T) {
	db, err := NewDatabase("test", 0)
	assert.NilError(t, err)
	for _, n := range []string{"b", "a", "c"} {
		assert.NilError(t, db.CreateTable(schema.NewTableInfo(schema.NewName(n))))
	}
	names := db.TableNames()
	assert.Equal(t, len(names), 3)
	assert.Equal(t, names[0].Name, "a")
	assert.Equal(t, names[2].Name, "c")
}

func TestLoadDatabase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "meta.json"), `{"name": "shop", "version": 1, "tables": ["items"]}`)
	writeFile(t, filepath.Join(dir, "items", "meta.json"), `{
		"name": "items",
		"columns": [
			{"name": "id", "type": "INT", "not_null": true},
			{"name": "price", "type": "DECIMAL"},
			{"name": "stock", "type": "INT", "default": 0}
		]
	}`)
	writeFile(t, filepath.Join(dir, "items", "data.json"), `[
		{"id": 1, "price": "9.99", "stock": 3},
		{"id": 2, "price": "0.50"}
	]`)

	db, err := LoadDatabase(ctx, dir, discardLogger(), 0)
	assert.NilError(t, err)
	assert.Equal(t, db.Name, "shop")

	items, ok := db.Table(schema.NewName("items"))
	assert.Assert(t, ok)
	assert.Equal(t, items.RowCount(), 2)

	id, err := items.GetValue(ctx, 1, 0)
	assert.NilError(t, err)
	assert.Equal(t, id, int64(2))
	stock, err := items.GetValue(ctx, 1, 2)
	assert.NilError(t, err)
	assert.Equal(t, stock, int64(0))
}

func TestLoadDatabaseRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "meta.json"), `{"name": "shop", "version": 1}`)
	writeFile(t, filepath.Join(dir, "items", "meta.json"), `{"name": "items", "columns": [{"name": "id", "type": "INT"}]}`)
	writeFile(t, filepath.Join(dir, "items", "data.json"), `[{"id": "seven"}]`)

	_, err := LoadDatabase(context.Background(), dir, discardLogger(), 0)
	var castErr *dberrors.CastError
	assert.Assert(t, dberrors.As(err, &castErr))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
}

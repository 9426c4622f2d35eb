package writer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"gotest.tools/v3/assert"

	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/storage"
)

func TestSaveAndReload(t *testing.T) {
	ctx := context.Background()
	db, err := storage.NewDatabase("shop", 0)
	assert.NilError(t, err)
	db.Path = t.TempDir()

	info := schema.NewTableInfo(schema.NewName("items"))
	_, err = info.NewColumn("id", schema.ColumnTypeInt)
	assert.NilError(t, err)
	_, err = info.NewColumn("price", schema.ColumnTypeDecimal)
	assert.NilError(t, err)
	assert.NilError(t, db.CreateTable(info))

	items, ok := db.Table(schema.NewName("items"))
	assert.Assert(t, ok)
	for i, p := range []string{"1.10", "2.20", "3.30"} {
		_, err := items.Insert(ctx, i+1, p)
		assert.NilError(t, err)
	}
	assert.NilError(t, items.RemoveRow(ctx, 0))

	assert.NilError(t, SaveDatabase(ctx, db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loaded, err := storage.LoadDatabase(ctx, db.Path, logger, 0)
	assert.NilError(t, err)
	assert.Equal(t, loaded.Name, "shop")

	reloaded, ok := loaded.Table(schema.NewName("items"))
	assert.Assert(t, ok)
	assert.Equal(t, reloaded.RowCount(), 2)

	id, err := reloaded.GetValue(ctx, 0, 0)
	assert.NilError(t, err)
	assert.Equal(t, id, int64(2))
	price, err := reloaded.GetValue(ctx, 1, 1)
	assert.NilError(t, err)
	assert.Assert(t, price.(decimal.Decimal).Equal(decimal.RequireFromString("3.3")))
}

func TestSaveTableRequiresPath(t *testing.T) {
	info := schema.NewTableInfo(schema.NewName("t"))
	assert.ErrorContains(t, SaveTable(context.Background(), storage.NewMemoryTable(info), ""), "missing path")
	assert.ErrorContains(t, SaveDatabase(context.Background(), nil), "missing path")
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/table"
)

// LoadDatabase loads the database from the given directory path. Tables
// listed in meta.json are loaded from <dir>/<table>/; without a list
// every subdirectory is treated as a table.
func LoadDatabase(ctx context.Context, dbPath string, logger *slog.Logger, lookupCacheSize int, opts ...DatabaseOption) (*Database, error) {
	metaBytes, err := os.ReadFile(filepath.Join(dbPath, "meta.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read database meta: %w", err)
	}

	var meta DatabaseMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse database meta: %w", err)
	}

	opts = append(opts, WithLogger(logger))
	db, err := NewDatabase(meta.Name, lookupCacheSize, opts...)
	if err != nil {
		return nil, err
	}
	db.Path = dbPath

	dirs := meta.Tables
	if len(dirs) == 0 {
		entries, err := os.ReadDir(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read database directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, entry.Name())
			}
		}
	}

	for _, dir := range dirs {
		t, err := LoadTable(ctx, filepath.Join(dbPath, dir), logger, db.ignoreCase)
		if err != nil {
			return nil, fmt.Errorf("failed to load table %s: %w", dir, err)
		}
		if err := db.AddTable(t); err != nil {
			return nil, err
		}
	}

	logger.Info("Database loaded successfully",
		slog.String("name", db.Name),
		slog.String("path", dbPath),
		slog.Int("table_count", len(dirs)),
	)

	return db, nil
}

// LoadTable reads meta.json and the optional data.json of one table.
// Values are cast to the column types; columns missing from a row take
// their default.
func LoadTable(ctx context.Context, path string, logger *slog.Logger, ignoreCase bool) (*MemoryTable, error) {
	metaBytes, err := os.ReadFile(filepath.Join(path, "meta.json"))
	if err != nil {
		return nil, err
	}

	var meta TableMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}

	info := schema.NewTableInfo(schema.ParseName(meta.Name), schema.WithIgnoreCase(ignoreCase))
	for _, c := range meta.Columns {
		col := schema.NewColumn(c.Name, schema.ColumnType(c.Type))
		col.NotNull = c.NotNull
		col.DefaultExpression = c.Default
		if err := info.AddColumn(col); err != nil {
			return nil, err
		}
	}

	t := NewMemoryTable(info)

	var rows []RowData
	dataBytes, err := os.ReadFile(filepath.Join(path, "data.json"))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(dataBytes, &rows); err != nil {
			return nil, err
		}
	}

	for i, values := range rows {
		row := table.NewDetachedRow(t)
		for name, v := range values {
			if err := row.SetValueByName(name, v); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
		if err := row.SetDefaults(ctx, table.LiteralReducer); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if _, err := t.AddRow(ctx, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	logger.Info("table loaded",
		slog.String("table", meta.Name),
		slog.Int("rows", len(rows)),
	)

	return t, nil
}

package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leengari/table-algebra/internal/storage"
)

// SaveTable persists both data.json and meta.json of t under dir. Rows
// are written in enumeration order, so deleted row numbers are
// compacted away.
func SaveTable(ctx context.Context, t *storage.MemoryTable, dir string) error {
	if t == nil || dir == "" {
		return fmt.Errorf("cannot save table: nil or missing path")
	}

	info := t.TableInfo()
	tableName := info.Name.FullName()

	meta := storage.TableMeta{
		Name:     tableName,
		RowCount: int64(t.RowCount()),
		Columns:  make([]storage.ColumnMeta, 0, info.ColumnCount()),
	}
	for _, col := range info.Columns() {
		meta.Columns = append(meta.Columns, storage.ColumnMeta{
			Name:    col.Name,
			Type:    string(col.Type),
			NotNull: col.NotNull,
			Default: col.DefaultExpression,
		})
	}

	rows := make([]storage.RowData, 0, t.RowCount())
	for e := t.Enumerate(); e.Next(); {
		row := make(storage.RowData, info.ColumnCount())
		for c, col := range info.Columns() {
			v, err := t.GetValue(ctx, e.Row(), c)
			if err != nil {
				return fmt.Errorf("failed to read %s row %d: %w", tableName, e.Row(), err)
			}
			row[col.Name] = v
		}
		rows = append(rows, row)
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table meta for %s: %w", tableName, err)
	}
	dataBytes, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows for %s: %w", tableName, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for table %s: %w", tableName, err)
	}
	if err := writeAtomic(filepath.Join(dir, "meta.json"), metaBytes); err != nil {
		return fmt.Errorf("table %s: %w", tableName, err)
	}
	if err := writeAtomic(filepath.Join(dir, "data.json"), dataBytes); err != nil {
		return fmt.Errorf("table %s: %w", tableName, err)
	}

	slog.Info("Table saved successfully",
		slog.String("table", tableName),
		slog.String("path", dir),
		slog.Int("row_count", len(rows)),
	)
	return nil
}

// SaveDatabase saves all tables and the database metadata under db.Path.
func SaveDatabase(ctx context.Context, db *storage.Database) error {
	if db == nil || db.Path == "" {
		return fmt.Errorf("cannot save database: nil or missing path")
	}

	names := db.TableNames()
	dirs := make([]string, 0, len(names))
	for _, name := range names {
		t, ok := db.Table(name)
		if !ok {
			continue
		}
		dir := name.FullName()
		if err := SaveTable(ctx, t, filepath.Join(db.Path, dir)); err != nil {
			slog.Error("failed to save table during database save",
				slog.String("table", dir),
				slog.Any("error", err),
			)
			return fmt.Errorf("failed to save table %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	metaBytes, err := json.MarshalIndent(storage.DatabaseMeta{Name: db.Name, Version: 1, Tables: dirs}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal database meta: %w", err)
	}
	if err := writeAtomic(filepath.Join(db.Path, "meta.json"), metaBytes); err != nil {
		return err
	}

	slog.Info("Database saved successfully",
		slog.String("name", db.Name),
		slog.String("path", db.Path),
		slog.Int("table_count", len(dirs)),
	)
	return nil
}

// writeAtomic writes to a temp file and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename temp -> %s: %w", filepath.Base(path), err)
	}
	return nil
}

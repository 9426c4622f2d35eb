package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/storage/writer"
	"github.com/leengari/table-algebra/internal/table"
)

func runTables(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	headers := []string{"table", "columns", "rows"}
	var rows [][]string
	for _, name := range s.tables.ListTables() {
		t, err := s.tables.GetTable(ctx, name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			name.FullName(),
			strconv.Itoa(t.TableInfo().ColumnCount()),
			strconv.Itoa(t.RowCount()),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderGrid("tables", headers, rows))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.tables.GetTable(ctx, schema.ParseName(args[0]))
	if err != nil {
		return err
	}
	return printTable(cmd, t)
}

func runCross(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	leftName, rightName := schema.ParseName(args[0]), schema.ParseName(args[1])
	left, err := s.tables.GetTable(ctx, leftName)
	if err != nil {
		return err
	}
	right, err := s.tables.GetTable(ctx, rightName)
	if err != nil {
		return err
	}

	var rightSide table.Table = right
	if right == left {
		rightSide = table.NewAliasedTable(right, schema.NewName(rightName.Name+"_2"))
	}
	return printTable(cmd, table.NewCrossJoinedTable(left, rightSide))
}

func runOrder(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.tables.GetTable(ctx, schema.ParseName(args[0]))
	if err != nil {
		return err
	}

	keys := make([]table.SortKey, 0, len(args)-1)
	for _, ref := range args[1:] {
		column, err := table.ResolveColumn(t, ref)
		if err != nil {
			return err
		}
		keys = append(keys, table.SortKey{Column: column, Ascending: !descending})
	}

	sorted, err := table.OrderByColumns(ctx, t, keys)
	if err != nil {
		return err
	}
	return printTable(cmd, sorted)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.tables.GetMutableTable(ctx, schema.ParseName(args[0]))
	if err != nil {
		return err
	}
	for _, arg := range args[1:] {
		row, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid row number %q: %w", arg, err)
		}
		if err := t.RemoveRow(ctx, row); err != nil {
			return err
		}
	}

	if err := writer.SaveDatabase(ctx, s.db); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d row(s) from %s\n", len(args)-1, args[0])
	return nil
}

func printTable(cmd *cobra.Command, t table.Table) error {
	records, err := table.Collect(cmd.Context(), t)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderRecords(t, records))
	return nil
}

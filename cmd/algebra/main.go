package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/table-algebra/internal/config"
)

var (
	cfg        = config.Default()
	descending bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "algebra",
	Short:         "Compose and print views over a JSON database",
	Long:          `Load a JSON database directory and print tables, cross joins and ordered views built with the table algebra.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables",
	Long:  `List every table visible to a transaction, system tables included.`,
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

var showCmd = &cobra.Command{
	Use:   "show <table>",
	Short: "Print a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var crossCmd = &cobra.Command{
	Use:   "cross <left> <right>",
	Short: "Print the cross join of two tables",
	Long:  `Print the cartesian product of two tables. Joining a table with itself aliases the right side as <table>_2.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runCross,
}

var orderCmd = &cobra.Command{
	Use:   "order <table> <column>...",
	Short: "Print a table ordered by columns",
	Long:  `Print a table sorted by one or more columns, the first column being the most significant.`,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runOrder,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <row>...",
	Short: "Delete rows and save the database",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDelete,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Database directory (meta.json plus one directory per table)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.SeqURL, "seq-url", cfg.SeqURL, "Seq server URL for log shipping (disabled when empty)")
	flags.BoolVar(&cfg.IgnoreIdentifierCase, "ignore-case", cfg.IgnoreIdentifierCase, "Resolve table and column names case-insensitively")
	flags.IntVar(&cfg.NameCacheSize, "name-cache", cfg.NameCacheSize, "Size of the case-folded table name cache")

	orderCmd.Flags().BoolVar(&descending, "desc", false, "Sort in descending order")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(crossCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(deleteCmd)
}

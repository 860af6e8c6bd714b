package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/algonex/internal/config"
	"github.com/newthinker/algonex/internal/datasource"
)

var (
	importSymbol string
	importFile   string
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage stored price bars",
}

var dataImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import bars from a CSV file into the SQLite bar store",
	Args:  cobra.NoArgs,
	RunE:  runDataImport,
}

var dataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List symbols held in the SQLite bar store",
	Args:  cobra.NoArgs,
	RunE:  runDataList,
}

func init() {
	dataImportCmd.Flags().StringVar(&importSymbol, "symbol", "", "Symbol the bars belong to (required)")
	dataImportCmd.Flags().StringVar(&importFile, "csv", "", "CSV file with date,open,high,low,close[,volume] (required)")
	dataImportCmd.MarkFlagRequired("symbol")
	dataImportCmd.MarkFlagRequired("csv")

	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataListCmd)
}

// sqliteConfig loads the config and checks that bars live in SQLite.
func sqliteConfig(command string) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Data.Source != datasource.KindSQLite {
		return nil, fmt.Errorf("data %s needs data.source sqlite, got %q", command, cfg.Data.Source)
	}
	return cfg, nil
}

func runDataImport(cmd *cobra.Command, args []string) error {
	cfg, err := sqliteConfig("import")
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := os.Open(importFile)
	if err != nil {
		return err
	}
	defer f.Close()

	bars, err := datasource.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", importFile, err)
	}

	db, err := datasource.OpenSQLite(cfg.Data.Path, cfg.Data.Table)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Import(context.Background(), importSymbol, bars)
	if err != nil {
		return fmt.Errorf("importing bars: %w", err)
	}
	log.Info("bars imported", zap.String("symbol", importSymbol), zap.Int("bars", n), zap.String("db", cfg.Data.Path))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d bars for %s\n", n, importSymbol)
	return nil
}

func runDataList(cmd *cobra.Command, args []string) error {
	cfg, err := sqliteConfig("list")
	if err != nil {
		return err
	}
	db, err := datasource.OpenSQLite(cfg.Data.Path, cfg.Data.Table)
	if err != nil {
		return err
	}
	defer db.Close()
	return printSymbols(cmd.Context(), cmd.OutOrStdout(), db)
}

func printSymbols(ctx context.Context, out io.Writer, db *datasource.SQLite) error {
	symbols, err := db.Symbols(ctx)
	if err != nil {
		return fmt.Errorf("listing symbols: %w", err)
	}
	if len(symbols) == 0 {
		fmt.Fprintln(out, "no symbols stored")
		return nil
	}
	for _, sym := range symbols {
		fmt.Fprintln(out, sym)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/newthinker/algonex/internal/backtest"
	"github.com/newthinker/algonex/internal/storage/archive"
)

var runsSymbol string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived backtest reports",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print an archived report",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsListCmd.Flags().StringVar(&runsSymbol, "symbol", "", "Only list runs for this symbol")

	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}

func requireArchive() (archive.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openArchive(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("archive is disabled; set archive.enabled in the config")
	}
	return store, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := requireArchive()
	if err != nil {
		return err
	}
	prefix := archive.RunsPrefix
	if runsSymbol != "" {
		prefix = path.Join(prefix, archive.SymbolDir(runsSymbol))
	}

	paths, err := store.List(context.Background(), prefix)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tDATE\tRUN\tPATH")
	for _, p := range paths {
		if !strings.HasSuffix(p, ".json") {
			continue
		}
		parts := strings.Split(p, "/")
		if len(parts) != 4 {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", parts[1], parts[2], strings.TrimSuffix(parts[3], ".json"), p)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := requireArchive()
	if err != nil {
		return err
	}
	ctx := context.Background()

	ok, err := store.Exists(ctx, args[0])
	if err != nil {
		return fmt.Errorf("checking %s: %w", args[0], err)
	}
	if !ok {
		return fmt.Errorf("no archived report at %s", args[0])
	}

	var report backtest.Report
	if err := archive.LoadJSON(ctx, store, args[0], &report); err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), &report)
	return nil
}

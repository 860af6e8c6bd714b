package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/algonex/internal/backtest"
	"github.com/newthinker/algonex/internal/config"
	"github.com/newthinker/algonex/internal/datasource"
	"github.com/newthinker/algonex/internal/metrics"
	"github.com/newthinker/algonex/internal/strategy"
)

var (
	backtestSymbol    string
	backtestFrom      string
	backtestTo        string
	backtestFile      string
	backtestSpecs     []string
	backtestWeights   []float64
	backtestThreshold float64
	backtestConfirm   bool
	backtestCapital   float64
	backtestPanel     string
	backtestJSON      bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a composite strategy over historical bars",
	Long: `Run a composite indicator strategy against historical data and print
the trade log. The strategy comes from --indicator flags, then
--strategy-file, then the strategy section of the config file.`,
	Example: `  algonex backtest --symbol SPY --indicator rsi:period=14
  algonex backtest --symbol SPY --indicator rsi --indicator macd --weight 0.6 --weight 0.4 --threshold 0.4
  algonex backtest --symbol SPY --strategy-file strategy.yaml --panel panel.csv`,
	Args: cobra.NoArgs,
	RunE: runBacktest,
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	f.StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD")
	f.StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD")
	f.StringVar(&backtestFile, "strategy-file", "", "Strategy config file (YAML or JSON)")
	f.StringArrayVar(&backtestSpecs, "indicator", nil, "Indicator as id[:name=value,...]; repeat up to 3 times")
	f.Float64SliceVar(&backtestWeights, "weight", nil, "Indicator weights, one per --indicator")
	f.Float64Var(&backtestThreshold, "threshold", strategy.DefaultThreshold, "Composite signal threshold in (0, 1]")
	f.BoolVar(&backtestConfirm, "confirm", false, "Require indicator confirmation")
	f.Float64Var(&backtestCapital, "capital", 0, "Initial capital for the equity summary (default from config)")
	f.StringVar(&backtestPanel, "panel", "", "Write the per-bar diagnostic panel to this CSV file")
	f.BoolVar(&backtestJSON, "json", false, "Print the full report as JSON")

	backtestCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(backtestCmd)
}

// resolveStrategy picks the strategy source and applies flag overrides.
func resolveStrategy(cmd *cobra.Command, cfg *config.Config) (strategy.Config, error) {
	var (
		strat strategy.Config
		err   error
	)
	switch {
	case len(backtestSpecs) > 0:
		strat, err = strategyFromFlags(backtestSpecs, backtestWeights)
	case backtestFile != "":
		strat, err = readStrategyFile(backtestFile)
	default:
		strat = cfg.Strategy.Clone()
	}
	if err != nil {
		return strategy.Config{}, err
	}

	if cmd.Flags().Changed("threshold") {
		strat.SignalThreshold = backtestThreshold
	}
	if cmd.Flags().Changed("confirm") {
		strat.RequireConfirmation = backtestConfirm
	}
	return strat, nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("capital") {
		cfg.Backtest.InitialCapital = backtestCapital
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	from, err := parseDate("from", backtestFrom)
	if err != nil {
		return err
	}
	to, err := parseDate("to", backtestTo)
	if err != nil {
		return err
	}
	strat, err := resolveStrategy(cmd, cfg)
	if err != nil {
		return err
	}

	provider, closeProvider, err := datasource.Open(cfg.Data.Source, cfg.Data.Path, cfg.Data.Table)
	if err != nil {
		return err
	}
	defer closeProvider()

	store, err := openArchive(cfg)
	if err != nil {
		return err
	}

	opts := []backtest.Option{
		backtest.WithLogger(log),
		backtest.WithInitialCapital(cfg.Backtest.InitialCapital),
	}
	if store != nil {
		opts = append(opts, backtest.WithArchive(store))
	}
	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		opts = append(opts, backtest.WithMetrics(reg))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting backtest",
		zap.String("symbol", backtestSymbol),
		zap.String("source", provider.Name()),
		zap.Int("indicators", len(strat.Indicators)),
	)
	report, runErr := backtest.New(provider, opts...).Run(ctx, backtest.Request{
		Symbol:   backtestSymbol,
		Start:    from,
		End:      to,
		Strategy: strat,
	})

	if reg != nil {
		if err := reg.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("writing metrics textfile failed", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if backtestPanel != "" {
		if err := writePanel(backtestPanel, report.Panel); err != nil {
			return err
		}
		log.Info("panel written", zap.String("path", backtestPanel), zap.Int("rows", len(report.Panel.Rows)))
	}

	out := cmd.OutOrStdout()
	if backtestJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(out, report)
	return nil
}

func writePanel(path string, panel backtest.Panel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating panel file: %w", err)
	}
	if err := panel.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("writing panel: %w", err)
	}
	return f.Close()
}

func printReport(out io.Writer, r *backtest.Report) {
	fmt.Fprintln(out, "=== Algonex Backtest ===")
	fmt.Fprintf(out, "Run:       %s\n", r.RunID)
	fmt.Fprintf(out, "Symbol:    %s\n", r.Symbol)
	fmt.Fprintf(out, "Bars:      %d\n", r.Bars)
	for _, ind := range r.Strategy.Indicators {
		fmt.Fprintf(out, "Indicator: %s (weight %g) %v\n", ind.ID, ind.Weight, ind.Parameters)
	}
	fmt.Fprintf(out, "Threshold: %g  Confirmation: %t\n", r.Strategy.SignalThreshold, r.Strategy.RequireConfirmation)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTION\tDATE\tPRICE")
	for _, t := range r.Trades {
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", t.Action, t.Date.Format("2006-01-02"), t.Price)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Trades:    %d (%d buy, %d sell)\n", r.Summary.TotalTrades, r.Summary.BuyTrades, r.Summary.SellTrades)
	fmt.Fprintf(out, "Position:  %s\n", r.FinalPosition)
	fmt.Fprintf(out, "Win rate:  %.2f%% of %d round trips\n", r.Stats.WinRate, r.Stats.RoundTrips)
	fmt.Fprintf(out, "Equity:    %.2f -> %.2f (%+.2f%%)\n", r.Equity.InitialCapital, r.Equity.FinalCapital, r.Equity.TotalReturnPct)
	if r.ArchivePath != "" {
		fmt.Fprintf(out, "Archived:  %s\n", r.ArchivePath)
	}
}

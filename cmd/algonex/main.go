package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newthinker/algonex/internal/core"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "algonex",
	Short: "Algonex - indicator composition and backtest replay",
	Long: `Algonex combines up to three technical indicators into one weighted
composite signal and replays it over daily price history as a
long-only, all-in/all-out strategy.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps configuration errors to 2 and everything else to 1.
func exitCode(err error) int {
	if core.IsConfigError(err) {
		return 2
	}
	return 1
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newthinker/algonex/internal/strategy"
)

var validateCmd = &cobra.Command{
	Use:   "validate <strategy-file>",
	Short: "Check a strategy file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readStrategyFile(args[0])
		if err != nil {
			return err
		}
		composite, err := strategy.NewBuilder(nil).Build(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ok: %d indicator(s), threshold %g, confirmation %t\n",
			len(cfg.Indicators), cfg.SignalThreshold, cfg.RequireConfirmation)
		fmt.Fprintf(out, "warm-up: %d bars\n", composite.Warmup())
		for _, ind := range composite.Config().Indicators {
			fmt.Fprintf(out, "  %s (weight %g): %v\n", ind.ID, ind.Weight, ind.Parameters)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

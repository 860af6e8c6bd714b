package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/newthinker/algonex/internal/signal"
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "List available indicators and their parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tWARMUP\tPARAMETERS")
		for _, def := range signal.DefaultRegistry().GetAll() {
			params := make([]string, len(def.Params))
			for i, p := range def.Params {
				params[i] = fmt.Sprintf("%s=%g %s", p.Name, p.Default, p.Range())
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", def.ID, def.Category, def.Warmup(def.Defaults()), strings.Join(params, ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(indicatorsCmd)
}

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/newthinker/algonex/internal/signal"
)

// Set with -ldflags "-X main.Version=..." at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and runtime information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "algonex %s (%s, built %s)\n", Version, GitCommit, BuildTime)
		fmt.Fprintf(out, "  %s %s/%s, %d indicators\n",
			runtime.Version(), runtime.GOOS, runtime.GOARCH, len(signal.DefaultRegistry().IDs()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

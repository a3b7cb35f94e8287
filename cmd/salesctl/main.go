package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "salesctl",
		Short:         "Generate sales reports and forecasts from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.bind(rootCmd)

	rootCmd.AddCommand(
		newExportCmd(opts),
		newForecastCmd(opts),
		newLegendCmd(),
		newSweepCmd(opts),
	)
	return rootCmd
}

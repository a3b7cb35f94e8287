package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/export"
	"github.com/spf13/cobra"
)

func newLegendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "legend",
		Short: "Print the report legend",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FORMAT\tDESCRIPTION")
			for _, entry := range export.Legend() {
				fmt.Fprintf(w, "%s\t%s\n", entry.Format, entry.Description)
			}
			return w.Flush()
		},
	}
}

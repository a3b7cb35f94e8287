package main

import (
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/retention"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/spf13/cobra"
)

func newSweepCmd(global *globalOptions) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete generated files older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			store, err := storage.NewLocalProvider(global.outDir, "")
			if err != nil {
				return err
			}

			ctx := global.context(cmd.Context())
			report, err := retention.NewSweeper(store, olderThan).RunOnce(ctx, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, key := range report.Deleted {
				fmt.Fprintln(out, key)
			}
			fmt.Fprintf(out, "scanned %d, deleted %d, failed %d\n", report.Scanned, len(report.Deleted), report.Failed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Retention window")
	return cmd
}

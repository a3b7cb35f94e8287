package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/services"
	"github.com/spf13/cobra"
)

type forecastCmd struct {
	global      *globalOptions
	gender      string
	years       int
	trend       string
	region      string
	productType string
}

func newForecastCmd(global *globalOptions) *cobra.Command {
	fc := &forecastCmd{global: global}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit yearly totals and write the prediction workbook",
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.gender, "gender", "", "Customer gender")
	cmd.Flags().IntVar(&fc.years, "years", 5, "Number of years to predict")
	cmd.Flags().StringVar(&fc.trend, "trend", "linear", "Trend model (linear, polynomial, exponential, cubic_spline)")
	cmd.Flags().StringVar(&fc.region, "region", "", "Region to keep")
	cmd.Flags().StringVar(&fc.productType, "product-type", "", "Product type to keep")

	_ = cmd.MarkFlagRequired("gender")

	return cmd
}

func (fc *forecastCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(fc.global.context(cmd.Context()), 5*time.Minute)
	defer cancel()

	e, err := fc.global.openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	result, err := services.NewForecastService(e.deps).Export(ctx, models.ForecastCriteria{
		Filter: models.FilterCriteria{
			Gender:          fc.gender,
			Region:          fc.region,
			ProductCategory: fc.productType,
		},
		Years:     fc.years,
		TrendType: fc.trend,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Path)
	for _, p := range result.Predicted[1:] {
		fmt.Fprintf(out, "%d\t%.2f\n", p.Year, p.Value)
	}
	return nil
}

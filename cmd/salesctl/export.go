package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/services"
	"github.com/spf13/cobra"
)

type exportCmd struct {
	global      *globalOptions
	filtersPath string
	year        int
	month       int
	category    string
	gender      string
	region      string
}

func newExportCmd(global *globalOptions) *cobra.Command {
	ec := &exportCmd{global: global}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Filter the dataset and write the formatted Excel report",
		RunE:  ec.run,
	}

	cmd.Flags().StringVarP(&ec.filtersPath, "filters", "f", "", "Filter file (yaml/json) with criteria and error margins")
	cmd.Flags().IntVar(&ec.year, "year", 0, "Year to keep")
	cmd.Flags().IntVar(&ec.month, "month", 0, "Month to keep (1-12)")
	cmd.Flags().StringVar(&ec.category, "category", "", "Product category to keep")
	cmd.Flags().StringVar(&ec.gender, "gender", "", "Customer gender to keep")
	cmd.Flags().StringVar(&ec.region, "region", "", "Region to keep")

	return cmd
}

// criteria merges the filter file with flags; flags win
func (ec *exportCmd) criteria(cmd *cobra.Command) (models.FilterCriteria, error) {
	var criteria models.FilterCriteria
	if ec.filtersPath != "" {
		loaded, err := loadFilters(ec.filtersPath)
		if err != nil {
			return criteria, err
		}
		criteria = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("year") {
		year := ec.year
		criteria.Year = &year
	}
	if flags.Changed("month") {
		month := ec.month
		criteria.Month = &month
	}
	if flags.Changed("category") {
		criteria.ProductCategory = ec.category
	}
	if flags.Changed("gender") {
		criteria.Gender = ec.gender
	}
	if flags.Changed("region") {
		criteria.Region = ec.region
	}
	return criteria, nil
}

func (ec *exportCmd) run(cmd *cobra.Command, args []string) error {
	criteria, err := ec.criteria(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ec.global.context(cmd.Context()), 5*time.Minute)
	defer cancel()

	e, err := ec.global.openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	result, err := services.NewExportService(e.deps).Export(ctx, criteria)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d rows)\n", result.Path, result.Rows)
	return nil
}

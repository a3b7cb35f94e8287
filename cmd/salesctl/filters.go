package main

import (
	"fmt"
	"math"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/spf13/viper"
)

// filterFile is the on-disk shape of a saved filter set (yaml, json or toml)
type filterFile struct {
	Year            *int       `mapstructure:"year"`
	Month           *int       `mapstructure:"month"`
	ProductCategory string     `mapstructure:"productCategory"`
	Gender          string     `mapstructure:"gender"`
	Region          string     `mapstructure:"region"`
	ErrorMargins    []fileBand `mapstructure:"errorMargins"`
}

type fileBand struct {
	ID    string   `mapstructure:"id"`
	Label string   `mapstructure:"label"`
	Max   *float64 `mapstructure:"max"` // missing means unbounded below
}

// loadFilters reads criteria from a filter file
func loadFilters(path string) (models.FilterCriteria, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return models.FilterCriteria{}, fmt.Errorf("failed to read filter file: %w", err)
	}

	var file filterFile
	if err := v.Unmarshal(&file); err != nil {
		return models.FilterCriteria{}, fmt.Errorf("failed to parse filter file: %w", err)
	}

	criteria := models.FilterCriteria{
		Year:            file.Year,
		Month:           file.Month,
		ProductCategory: file.ProductCategory,
		Gender:          file.Gender,
		Region:          file.Region,
	}
	for _, b := range file.ErrorMargins {
		band := models.Band{ID: b.ID, Label: b.Label, Max: math.Inf(-1)}
		if b.Max != nil {
			band.Max = *b.Max
		}
		criteria.ErrorMargins = append(criteria.ErrorMargins, band)
	}
	return criteria, nil
}

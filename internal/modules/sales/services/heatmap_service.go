package services

import (
	"context"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/aggregate"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

// HeatmapResult holds sales amount per region and product subtype
type HeatmapResult struct {
	Data   map[string]map[string]float64     `json:"data"`
	Charts map[string]analytics.PieChartData `json:"charts"`
}

// HeatmapService breaks the filtered dataset down for the region map
type HeatmapService struct {
	deps   Deps
	engine *filter.Engine
}

func NewHeatmapService(deps Deps) *HeatmapService {
	return &HeatmapService{
		deps:   deps,
		engine: filter.NewEngine(),
	}
}

// Build returns every known region, empty when nothing matched it
func (s *HeatmapService) Build(ctx context.Context, criteria models.FilterCriteria) (*HeatmapResult, error) {
	if _, err := renderBands(criteria); err != nil {
		return nil, err
	}

	records, err := load(ctx, s.deps.Source)
	if err != nil {
		return nil, err
	}
	matched := s.engine.Apply(records, criteria)

	byRegion := aggregate.ByRegion(matched, models.Regions)
	data := make(map[string]map[string]float64, len(byRegion))
	for region, slices := range byRegion {
		subtypes := make(map[string]float64, len(slices))
		for _, sl := range slices {
			subtypes[sl.Label] = sl.Value
		}
		data[region] = subtypes
	}

	return &HeatmapResult{
		Data:   data,
		Charts: analytics.ToRegionPies(byRegion),
	}, nil
}

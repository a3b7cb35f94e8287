package aggregate

import (
	"math"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

// Result is the derived state of one filtered set
type Result struct {
	models.Extremes

	// RowBands holds the matched band index per row, -1 when none
	RowBands   []int
	BandCounts map[string]int
	Totals     models.Totals
}

// Compute scans the records once for extremes, totals and band membership.
// An empty input leaves the extremes at their infinite sentinels; callers
// must reject empty sets before rendering.
func Compute(records []models.SaleRecord, bands models.Bands) Result {
	res := Result{
		Extremes: models.Extremes{
			MaxSalesAmount:  math.Inf(-1),
			MinSalesAmount:  math.Inf(1),
			MaxTotalSale:    math.Inf(-1),
			MinTotalSale:    math.Inf(1),
			MaxQuantitySold: math.Inf(-1),
		},
		RowBands:   make([]int, len(records)),
		BandCounts: make(map[string]int, len(bands)),
	}

	for _, b := range bands {
		res.BandCounts[b.ID] = 0
	}

	for i, r := range records {
		salesAmount := r.SalesAmount.Float64()
		totalSale := r.TotalSale.Float64()
		quantity := r.QuantitySold.Float64()

		res.MaxSalesAmount = math.Max(res.MaxSalesAmount, salesAmount)
		res.MinSalesAmount = math.Min(res.MinSalesAmount, salesAmount)
		res.MaxTotalSale = math.Max(res.MaxTotalSale, totalSale)
		res.MinTotalSale = math.Min(res.MinTotalSale, totalSale)
		res.MaxQuantitySold = math.Max(res.MaxQuantitySold, quantity)

		res.Totals.SalesAmount += salesAmount
		res.Totals.QuantitySold += quantity
		res.Totals.TotalSale += totalSale

		idx, ok := filter.Classify(bands, r.SalesChangePercent.Float64())
		if !ok {
			res.RowBands[i] = -1
			continue
		}
		res.RowBands[i] = idx
		res.BandCounts[bands[idx].ID]++
	}

	return res
}

// BandOf returns the band matched by row i, if any
func (r Result) BandOf(bands models.Bands, i int) (models.Band, bool) {
	if i < 0 || i >= len(r.RowBands) {
		return models.Band{}, false
	}
	idx := r.RowBands[i]
	if idx < 0 || idx >= len(bands) {
		return models.Band{}, false
	}
	return bands[idx], true
}

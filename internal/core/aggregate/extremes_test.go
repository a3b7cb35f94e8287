package aggregate

import (
	"math"
	"testing"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Extremes(t *testing.T) {
	records := []models.SaleRecord{
		{SalesAmount: 40, TotalSale: 100, QuantitySold: 2, SalesChangePercent: 15},
		{SalesAmount: 90, TotalSale: 500, QuantitySold: 10, SalesChangePercent: -25},
		{SalesAmount: 10, TotalSale: 100, QuantitySold: 7, SalesChangePercent: 0},
	}

	res := Compute(records, models.DefaultBands())

	assert.Equal(t, 90.0, res.MaxSalesAmount)
	assert.Equal(t, 10.0, res.MinSalesAmount)
	assert.Equal(t, 500.0, res.MaxTotalSale)
	assert.Equal(t, 100.0, res.MinTotalSale)
	assert.Equal(t, 10.0, res.MaxQuantitySold)

	assert.Equal(t, models.Totals{SalesAmount: 140, QuantitySold: 19, TotalSale: 700}, res.Totals)

	for _, r := range records {
		assert.GreaterOrEqual(t, res.MaxTotalSale, r.TotalSale.Float64())
		assert.LessOrEqual(t, res.MinTotalSale, r.TotalSale.Float64())
		assert.GreaterOrEqual(t, res.MaxSalesAmount, r.SalesAmount.Float64())
		assert.LessOrEqual(t, res.MinSalesAmount, r.SalesAmount.Float64())
		assert.GreaterOrEqual(t, res.MaxQuantitySold, r.QuantitySold.Float64())
	}
}

func TestCompute_Bands(t *testing.T) {
	bands := models.DefaultBands()
	records := []models.SaleRecord{
		{SalesChangePercent: 15},
		{SalesChangePercent: -25},
		{SalesChangePercent: 0},
		{SalesChangePercent: 3},
		{SalesChangePercent: 31},
	}

	res := Compute(records, bands)

	require.Len(t, res.RowBands, 5)
	band, ok := res.BandOf(bands, 0)
	require.True(t, ok)
	assert.Equal(t, models.BandModerateIncrease, band.ID)

	band, ok = res.BandOf(bands, 1)
	require.True(t, ok)
	assert.Equal(t, models.BandHighDecrease, band.ID)

	assert.Equal(t, map[string]int{
		models.BandHighIncrease:     1,
		models.BandModerateIncrease: 1,
		models.BandNeutral:          2,
		models.BandModerateDecrease: 0,
		models.BandHighDecrease:     1,
	}, res.BandCounts)
}

func TestCompute_RowsOutsideEveryBand(t *testing.T) {
	bands := models.Bands{
		{ID: models.BandHighIncrease, Max: 20},
		{ID: models.BandNeutral, Max: -10},
	}

	res := Compute([]models.SaleRecord{{SalesChangePercent: 35}, {SalesChangePercent: 5}}, bands)

	assert.Equal(t, []int{-1, 0}, res.RowBands)
	_, ok := res.BandOf(bands, 0)
	assert.False(t, ok)
	assert.Equal(t, 1, res.BandCounts[models.BandHighIncrease])
}

func TestCompute_NoBands(t *testing.T) {
	res := Compute([]models.SaleRecord{{SalesChangePercent: 5}}, nil)

	assert.Equal(t, []int{-1}, res.RowBands)
	_, ok := res.BandOf(nil, 0)
	assert.False(t, ok)
}

func TestCompute_EmptyInputKeepsSentinels(t *testing.T) {
	res := Compute(nil, models.DefaultBands())

	assert.True(t, math.IsInf(res.MaxTotalSale, -1))
	assert.True(t, math.IsInf(res.MinTotalSale, 1))
	assert.True(t, math.IsInf(res.MaxQuantitySold, -1))
	assert.Empty(t, res.RowBands)
}

func TestByRegion(t *testing.T) {
	records := []models.SaleRecord{
		{Region: "Moldova", ProductSubtype: "Face Cream", SalesAmount: 1500},
		{Region: "moldova", ProductSubtype: "Foundation", SalesAmount: 2000},
		{Region: "Moldova", ProductSubtype: "Face Cream", SalesAmount: 500},
		{Region: "Banat", ProductSubtype: "Perfume", SalesAmount: 1200},
		{Region: "Atlantis", ProductSubtype: "Perfume", SalesAmount: 99},
	}

	got := ByRegion(records, []string{"Moldova", "Banat", "Oltenia"})

	assert.Equal(t, []Slice{{Label: "Face Cream", Value: 2000}, {Label: "Foundation", Value: 2000}}, got["Moldova"])
	assert.Equal(t, []Slice{{Label: "Perfume", Value: 1200}}, got["Banat"])
	assert.Contains(t, got, "Oltenia")
	assert.Empty(t, got["Oltenia"])
	assert.NotContains(t, got, "Atlantis")
}

func TestByField(t *testing.T) {
	records := []models.SaleRecord{
		{CustomerGender: "Female", TotalSale: 10},
		{CustomerGender: "Male", TotalSale: 5},
		{CustomerGender: "Female", TotalSale: 1},
		{CustomerGender: "", TotalSale: 100},
	}

	got := ByField(records, models.FieldCustomerGender)

	assert.Equal(t, []Slice{{Label: "Female", Value: 11}, {Label: "Male", Value: 5}}, got)
}

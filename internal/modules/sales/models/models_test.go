package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleRecord_LenientNumbers(t *testing.T) {
	raw := `{"Year": "2023", "Month": 4.0, "Sales Amount": "120.5", "Quantity Sold": null,
		"Unit Price": "n/a", "Total Sale": 99, "Sales Change (%)": "-12.5%"}`

	var r SaleRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, Int(2023), r.Year)
	assert.Equal(t, Int(4), r.Month)
	assert.Equal(t, 120.5, r.SalesAmount.Float64())
	assert.Equal(t, 0.0, r.QuantitySold.Float64())
	assert.Equal(t, 0.0, r.UnitPrice.Float64())
	assert.Equal(t, 99.0, r.TotalSale.Float64())
	assert.Equal(t, -12.5, r.SalesChangePercent.Float64())
}

func TestSaleRecord_Normalize(t *testing.T) {
	tests := []struct {
		date  string
		year  Int
		month Int
	}{
		{"2022-11-02", 2022, 11},
		{"3/14/2023", 2023, 3},
		{"2021/07/09", 2021, 7},
		{"not a date", 0, 0},
		{"", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			r := SaleRecord{Date: tt.date}
			r.Normalize()
			assert.Equal(t, tt.year, r.Year)
			assert.Equal(t, tt.month, r.Month)
		})
	}

	kept := SaleRecord{Date: "2022-11-02", Year: 2020}
	kept.Normalize()
	assert.Equal(t, Int(2020), kept.Year)
	assert.Equal(t, Int(11), kept.Month)
}

func TestSaleRecord_Field(t *testing.T) {
	r := SaleRecord{Year: 2023, Region: "Moldova", SalesAmount: 12.5}

	assert.Equal(t, "2023", r.Field(FieldYear))
	assert.Equal(t, "Moldova", r.Field(FieldRegion))
	assert.Equal(t, "12.5", r.Field(FieldSalesAmount))
	assert.Equal(t, "", r.Field("unknown"))
}

func TestBand_JSON(t *testing.T) {
	var bands Bands
	raw := `[{"id": "a", "max": 20}, {"id": "b", "max": "10"}, {"id": "c", "max": "Infinity"},
		{"id": "d", "max": null}, {"id": "e"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &bands))

	require.Len(t, bands, 5)
	assert.Equal(t, 20.0, bands[0].Max)
	assert.Equal(t, 10.0, bands[1].Max)
	assert.True(t, math.IsInf(bands[2].Max, 1))
	assert.True(t, math.IsInf(bands[3].Max, -1))
	assert.True(t, math.IsInf(bands[4].Max, -1))

	out, err := json.Marshal(Band{ID: "low", Max: math.Inf(-1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "low", "max": null}`, string(out))

	var bad Band
	assert.Error(t, json.Unmarshal([]byte(`{"id": "x", "max": "lots"}`), &bad))
}

func TestDefaultBands(t *testing.T) {
	bands := DefaultBands()

	assert.Equal(t, []string{
		BandHighIncrease, BandModerateIncrease, BandNeutral, BandModerateDecrease, BandHighDecrease,
	}, bands.IDs())
	assert.True(t, math.IsInf(bands[0].Max, 1))
	assert.Equal(t, -20.0, bands[4].Max)

	bands[1].Max = 99
	assert.Equal(t, 20.0, DefaultBands()[1].Max)

	out, err := json.Marshal(bands[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "highIncrease", "label": "High Increase (▲)", "max": "Infinity"}`, string(out))
}

func TestFilterCriteria_IsEmpty(t *testing.T) {
	assert.True(t, FilterCriteria{Region: "  "}.IsEmpty())

	year := 2023
	assert.False(t, FilterCriteria{Year: &year}.IsEmpty())
	assert.False(t, FilterCriteria{ErrorMargins: DefaultBands()}.IsEmpty())
}

func TestExportRequest_Criteria(t *testing.T) {
	var req ExportRequest
	raw := `{"year": "2023", "month": "", "productCategory": " Skincare ", "gender": "Female", "region": null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	criteria, err := req.Criteria()

	require.NoError(t, err)
	require.NotNil(t, criteria.Year)
	assert.Equal(t, 2023, *criteria.Year)
	assert.Nil(t, criteria.Month)
	assert.Equal(t, "Skincare", criteria.ProductCategory)
	assert.Equal(t, "Female", criteria.Gender)
	assert.Equal(t, "", criteria.Region)
}

func TestExportRequest_InvalidNumbers(t *testing.T) {
	var req ExportRequest
	require.NoError(t, json.Unmarshal([]byte(`{"month": "March"}`), &req))

	_, err := req.Criteria()

	assert.EqualError(t, err, `month must be an integer, got "March"`)
}

func TestForecastRequest_Criteria(t *testing.T) {
	var req ForecastRequest
	raw := `{"filters": {"gender": "Male", "years": "3", "region": "Banat", "productType": "Makeup", "trendType": "Polynomial"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	criteria := req.Criteria()

	assert.Equal(t, "Male", criteria.Filter.Gender)
	assert.Equal(t, "Banat", criteria.Filter.Region)
	assert.Equal(t, "Makeup", criteria.Filter.ProductCategory)
	assert.Nil(t, criteria.Filter.Year)
	assert.Equal(t, 3, criteria.Years)
	assert.Equal(t, "Polynomial", criteria.TrendType)

	assert.Equal(t, ForecastCriteria{}, ForecastRequest{}.Criteria())
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		raw     string
		set     bool
		value   int
		invalid string
	}{
		{`12`, true, 12, ""},
		{`"7"`, true, 7, ""},
		{`" "`, false, 0, ""},
		{`null`, false, 0, ""},
		{`"abc"`, false, 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var o OptionalInt
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &o))
			assert.Equal(t, tt.set, o.Set)
			assert.Equal(t, tt.value, o.Value)
			assert.Equal(t, tt.invalid, o.Invalid)
			assert.Equal(t, tt.set, o.Ptr() != nil)
		})
	}
}
